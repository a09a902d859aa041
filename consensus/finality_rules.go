// finality_rules.go carries the Casper FFG supermajority threshold used by
// the fraud-proof finality verifier.
package consensus

// SupermajorityNumerator and SupermajorityDenominator define the 2/3
// supermajority threshold used in Casper FFG.
const (
	SupermajorityNumerator   = 2
	SupermajorityDenominator = 3
)

// isSuperMajority returns true if voteWeight >= 2/3 of totalWeight.
func isSuperMajority(voteWeight, totalWeight uint64) bool {
	if totalWeight == 0 {
		return false
	}
	// voteWeight * 3 >= totalWeight * 2 (safe from overflow for practical values).
	return voteWeight*SupermajorityDenominator >= totalWeight*SupermajorityNumerator
}

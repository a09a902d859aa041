package consensus

import "sort"

// OrderedLinkMap accumulates a uint64 value (attesting balance) per
// CasperLink, with deterministic iteration order given by CasperLink.Less.
// A plain map[CasperLink]uint64 would already be fine for lookups, but
// accumulation and the justification walk both need to visit links in a
// stable order so that two verifiers presented with the same attestation
// set process them identically regardless of slice order on input.
type OrderedLinkMap struct {
	values map[CasperLink]uint64
	order  []CasperLink
}

// NewOrderedLinkMap returns an empty map.
func NewOrderedLinkMap() *OrderedLinkMap {
	return &OrderedLinkMap{values: make(map[CasperLink]uint64)}
}

// Add accumulates delta onto the balance already recorded for link.
func (m *OrderedLinkMap) Add(link CasperLink, delta uint64) {
	if _, ok := m.values[link]; !ok {
		m.order = append(m.order, link)
	}
	m.values[link] += delta
}

// Get returns the accumulated balance for link, or 0 if absent.
func (m *OrderedLinkMap) Get(link CasperLink) uint64 {
	return m.values[link]
}

// Links returns every link passed to Add (including links whose
// accumulated value is zero), sorted by CasperLink.Less.
func (m *OrderedLinkMap) Links() []CasperLink {
	sorted := make([]CasperLink, len(m.order))
	copy(sorted, m.order)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})
	return sorted
}

// Len returns the number of distinct links recorded.
func (m *OrderedLinkMap) Len() int {
	return len(m.order)
}

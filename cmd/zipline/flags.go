package main

import (
	"flag"
	"fmt"
	"strconv"
)

// flagSet wraps flag.FlagSet to add support for uint64 flags, mirroring
// cmd/eth2030's own wrapper (the stdlib flag package has no native
// uint64 support).
type flagSet struct {
	*flag.FlagSet
}

// newCustomFlagSet creates a flagSet with ContinueOnError behavior.
func newCustomFlagSet(name string) *flagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &flagSet{FlagSet: fs}
}

// Uint64Var defines a uint64 flag.
func (fs *flagSet) Uint64Var(p *uint64, name string, value uint64, usage string) {
	fs.FlagSet.Var(&uint64Value{p: p}, name, usage)
	*p = value
}

// uint64Value implements flag.Value for uint64 flags.
type uint64Value struct {
	p *uint64
}

func (v *uint64Value) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatUint(*v.p, 10)
}

func (v *uint64Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid uint64 value %q", s)
	}
	*v.p = n
	return nil
}

// sharedFlags are accepted by every subcommand, matching the reference
// driver's top-level CLI options.
type sharedFlags struct {
	input              string
	preimageFiles      string // comma-separated
	multiPreimageFile  string
	interactive        bool
	programPath        string
}

// bindSharedFlags registers the shared flags on fs and returns the struct
// that Parse will populate.
func bindSharedFlags(fs *flagSet) *sharedFlags {
	f := &sharedFlags{}
	fs.StringVar(&f.input, "input", "", "hex-encoded 32-byte input hash")
	fs.StringVar(&f.preimageFiles, "preimage-files", "", "comma-separated paths of preimage files (SHA-256 named)")
	fs.StringVar(&f.multiPreimageFile, "multi-preimage-file", "", "path to a multi-preimage bundle file")
	fs.BoolVar(&f.interactive, "interactive", false, "accepted for compatibility; the interactive trie-query prompt is not implemented in this build")
	return f
}

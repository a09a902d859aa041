// Command zipline drives the MIPS fraud-proof engine: it loads a program
// and optional input/preimages, runs it under a chosen trace mode, and
// prints the resulting snapshot(s) needed to open or advance a bisection
// game.
//
// Usage:
//
//	zipline [--input=<hex>] [--preimage-files=<a,b,c>] [--multi-preimage-file=<path>]
//	        [--interactive] <program-path> <subcommand> [subcommand args...]
//
// Subcommands:
//
//	turbo                              run to completion, print final root
//	golden-snapshot                    root of program-only memory, no run
//	initial-snapshot                   root after input is written, no run
//	new-challenge                      print start/end snapshot and step count
//	dissect-execution S E N [fuckup]   bisect [S,E) into N sections
//	one-step-proof STEP                pre/post snapshot around one step
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/eth2030/eth2030/core/types"
	"github.com/eth2030/eth2030/log"
	"github.com/eth2030/eth2030/mipsvm"
	"github.com/eth2030/eth2030/oracle"
)

var zlog = log.Default().Module("zipline")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := newCustomFlagSet("zipline")
	shared := bindSharedFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: zipline [flags] <program-path> <subcommand> [args...]")
		return 2
	}
	shared.programPath = rest[0]
	subcommand := rest[1]
	subArgs := rest[2:]

	o, err := buildOracle(shared)
	if err != nil {
		zlog.Error("failed to build preimage oracle", "err", err)
		return 1
	}

	code, err := os.ReadFile(shared.programPath)
	if err != nil {
		zlog.Error("failed to read program", "path", shared.programPath, "err", err)
		return 1
	}

	engine := mipsvm.NewEngine(mipsvm.NewMapRam(), o, mipsvm.NopDecoder{})
	engine.WriteProgram(code, 0)

	if shared.input != "" {
		hash, err := parseInputHash(shared.input)
		if err != nil {
			zlog.Error("invalid --input", "err", err)
			return 2
		}
		// golden-snapshot is the root of program-only memory.
		if subcommand != "golden-snapshot" {
			engine.WriteInput(hash)
		}
	}

	result, err := dispatch(engine, subcommand, subArgs)
	if err != nil {
		zlog.Error("subcommand failed", "subcommand", subcommand, "err", err)
		return 1
	}

	printResult(result)

	if shared.interactive {
		zlog.Warn("interactive trie-query prompt not implemented in this build")
	}
	return 0
}

func dispatch(engine *mipsvm.Engine, subcommand string, args []string) (mipsvm.Result, error) {
	switch subcommand {
	case "turbo":
		return engine.Run(defaultMaxSteps, mipsvm.Turbo())

	case "golden-snapshot":
		snap, err := engine.Snapshot()
		if err != nil {
			return mipsvm.Result{}, err
		}
		return mipsvm.Result{Snapshots: []mipsvm.Snapshot{snap}, FinalRoot: snap.Root}, nil

	case "initial-snapshot":
		snap, err := engine.Snapshot()
		if err != nil {
			return mipsvm.Result{}, err
		}
		return mipsvm.Result{Snapshots: []mipsvm.Snapshot{snap}, FinalRoot: snap.Root}, nil

	case "new-challenge":
		start, err := engine.Snapshot()
		if err != nil {
			return mipsvm.Result{}, err
		}
		result, err := engine.Run(defaultMaxSteps, mipsvm.Turbo())
		if err != nil {
			return mipsvm.Result{}, err
		}
		end, err := engine.Snapshot()
		if err != nil {
			return mipsvm.Result{}, err
		}
		return mipsvm.Result{
			Snapshots: []mipsvm.Snapshot{start, end},
			FinalRoot: end.Root,
			Steps:     result.Steps,
			Exited:    result.Exited,
		}, nil

	case "dissect-execution":
		cfg, err := parseDissectArgs(args)
		if err != nil {
			return mipsvm.Result{}, err
		}
		return engine.Run(0, cfg)

	case "one-step-proof":
		if len(args) != 1 {
			return mipsvm.Result{}, fmt.Errorf("one-step-proof requires exactly one argument: step")
		}
		step, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return mipsvm.Result{}, fmt.Errorf("invalid step %q: %w", args[0], err)
		}
		return engine.Run(0, mipsvm.OneStepProof(step))

	default:
		return mipsvm.Result{}, fmt.Errorf("unknown subcommand %q", subcommand)
	}
}

// defaultMaxSteps bounds turbo/new-challenge runs against a decoder that
// never naturally exits (the real MIPS32 decoder is an external
// collaborator; NopDecoder never sets the exit flag on its own).
const defaultMaxSteps = 1_000_000

func parseDissectArgs(args []string) (mipsvm.TraceConfig, error) {
	if len(args) != 3 && len(args) != 4 {
		return mipsvm.TraceConfig{}, fmt.Errorf("dissect-execution requires start end sections [fuckup_step]")
	}
	start, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return mipsvm.TraceConfig{}, fmt.Errorf("invalid start %q: %w", args[0], err)
	}
	end, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return mipsvm.TraceConfig{}, fmt.Errorf("invalid end %q: %w", args[1], err)
	}
	sections, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		return mipsvm.TraceConfig{}, fmt.Errorf("invalid sections %q: %w", args[2], err)
	}
	var fuckup *uint64
	if len(args) == 4 {
		v, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return mipsvm.TraceConfig{}, fmt.Errorf("invalid fuckup_step %q: %w", args[3], err)
		}
		fuckup = &v
	}
	return mipsvm.DissectExecution(start, end, sections, fuckup)
}

func parseInputHash(hexInput string) (types.Hash, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(hexInput, "0x"))
	if err != nil {
		return types.Hash{}, fmt.Errorf("decode hex: %w", err)
	}
	if len(raw) != 32 {
		return types.Hash{}, fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	var hash types.Hash
	copy(hash[:], raw)
	return hash, nil
}

// buildOracle assembles a preimage oracle from --preimage-files and
// --multi-preimage-file, matching the reference CLI's two ingestion
// paths (individual SHA-256-named files, or one bundle of hash+image
// pairs). Both flags load into the same FilesystemOracle cache so a run
// can mix a golden-snapshot's branch bundle with a few ad hoc files.
func buildOracle(shared *sharedFlags) (oracle.Oracle, error) {
	o := oracle.NewFilesystemOracle("")

	if shared.preimageFiles != "" {
		for _, path := range strings.Split(shared.preimageFiles, ",") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			if err := o.LoadPreimageFile(path); err != nil {
				return nil, fmt.Errorf("load preimage file %s: %w", path, err)
			}
		}
	}

	if shared.multiPreimageFile != "" {
		if err := o.LoadMultiPreimageFile(shared.multiPreimageFile); err != nil {
			return nil, fmt.Errorf("load multi-preimage file: %w", err)
		}
	}

	return o, nil
}

func printResult(r mipsvm.Result) {
	for _, snap := range r.Snapshots {
		fmt.Printf("step=%d root=0x%x\n", snap.Step, snap.Root)
	}
	fmt.Printf("final_root=0x%x steps=%d exited=%v\n", r.FinalRoot, r.Steps, r.Exited)
}

// Command rv32sim is a headless batch driver for the core package: it
// loads a program into a flat memory device, runs it for the given number
// of cycles (it does not stop early when the hart halts or traps), and
// reports final architectural state. Grounded on the outer shape of the teacher's gopher2600.go main()
// — flag parsing followed by a single run loop — with the GUI/state-request
// channel coordination the teacher needs for its television front end
// dropped entirely, since this core has no display to drive.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/hdl2go/rv32pipe/config"
	"github.com/hdl2go/rv32pipe/core"
	"github.com/hdl2go/rv32pipe/csr"
	"github.com/hdl2go/rv32pipe/debug"
	"github.com/hdl2go/rv32pipe/debug/console"
	"github.com/hdl2go/rv32pipe/membus"
	"github.com/hdl2go/rv32pipe/telemetry"
	"github.com/hdl2go/rv32pipe/viz"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rv32sim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	programPath := flag.String("program", "", "path to a program file: one hex or decimal 32-bit word per line")
	configPath := flag.String("config", "", "path to a YAML config file (optional, overlays defaults)")
	cycles := flag.Uint64("cycles", 100000, "maximum number of cycles to run")
	resetVector := flag.Uint("reset-vector", 0, "address the program is loaded at and fetch starts from (overrides the config's reset_vector)")
	memSize := flag.Int("mem-size", 1<<20, "data memory size in bytes")
	latency := flag.Int("mem-latency", 1, "fixed memory response latency in cycles")
	interactive := flag.Bool("interactive", false, "start halted under an interactive single-keystroke debug console")
	dumpGraphPath := flag.String("dump-graph", "", "if set, write a DOT graph of the final core snapshot to this path")
	flag.Parse()

	if *programPath == "" {
		return fmt.Errorf("-program is required")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ResetVector = uint32(*resetVector)

	words, err := loadProgramWords(*programPath)
	if err != nil {
		return err
	}

	iMem := membus.NewDevice(int(cfg.ResetVector)+len(words)*4, *latency)
	iMem.LoadProgram(cfg.ResetVector, words)
	dMem := membus.NewDevice(*memSize, *latency)

	c := core.New(cfg, iMem, dMem)

	dbg := debug.New(c.Regs(), c.CSRs(), dMem)
	c.AttachDebug(dbg)

	dash := telemetry.Start(cfg)
	defer dash.Stop()

	if *interactive {
		dbg.Halt()
		con := console.New(os.Stdin, os.Stdout, dbg)
		go func() {
			if err := con.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "rv32sim: console: %v\n", err)
			}
		}()
	}

	bar := progressbar.Default(int64(*cycles))
	var ran uint64
	for ran = 0; ran < *cycles; ran++ {
		c.Step()
		iMem.Tick()
		dMem.Tick()
		bar.Add(1)
	}

	report(c)

	if *dumpGraphPath != "" {
		if err := dumpGraph(*dumpGraphPath, c.Snapshot()); err != nil {
			return err
		}
	}

	return nil
}

// dumpGraph writes snap as a DOT graph to path, for offline inspection with
// `dot -Tpng`.
func dumpGraph(path string, snap viz.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	viz.Dump(f, snap)
	return nil
}

// loadProgramWords reads one 32-bit word per non-blank, non-comment line.
// Lines may be written in hex ("0x..."), octal ("0..."), or decimal, per
// strconv.ParseUint's base-0 rules.
func loadProgramWords(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []uint32
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseUint(line, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid program word %q: %w", line, err)
		}
		words = append(words, uint32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// report prints the final architectural state: cycle/retire counters, a
// handful of trap CSRs, and the full GPR file.
func report(c *core.Core) {
	snap := c.Snapshot()

	fmt.Printf("\nran %d cycles, %d instructions retired\n", c.Cycles(), c.CSRs().Read(csr.MInstret))
	fmt.Printf("pc      = %#010x  halted = %v\n", snap.PC, snap.Halted)
	fmt.Printf("mstatus = %#010x  mepc = %#010x  mcause = %#010x  mtvec = %#010x\n",
		snap.MStatus, snap.MEPC, snap.MCause, snap.MTVec)

	for i := 0; i < 32; i += 4 {
		fmt.Printf("x%-2d = %#010x  x%-2d = %#010x  x%-2d = %#010x  x%-2d = %#010x\n",
			i, snap.GPRs[i], i+1, snap.GPRs[i+1], i+2, snap.GPRs[i+2], i+3, snap.GPRs[i+3])
	}
}

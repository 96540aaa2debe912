// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	goio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/internal"
	"github.com/ezrec/lc3/io"
	"github.com/ezrec/lc3/monitor"
)

var _emulator_defines = map[string]uint16{
	"TRAP_GETC":  uint16(cpu.TRAP_GETC),
	"TRAP_OUT":   uint16(cpu.TRAP_OUT),
	"TRAP_PUTS":  uint16(cpu.TRAP_PUTS),
	"TRAP_IN":    uint16(cpu.TRAP_IN),
	"TRAP_PUTSP": uint16(cpu.TRAP_PUTSP),
	"TRAP_HALT":  uint16(cpu.TRAP_HALT),
}

// Emulator state. CPU + console + loaded images.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Images   []*cpu.Image // Images loaded on each Reset, in order.
	Entry    uint16       // Address execution starts from.

	Console io.Console      // Console keyboard and display.
	Monitor monitor.Monitor // Watch expressions checked after every instruction.
	Hit     *monitor.Watch  // Watch that stopped the last run, if any.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Entry: cpu.PC_START,
	}

	emu.Cpu = cpu.NewCpu(&emu.Console, &emu.Console)
	emu.Monitor.Define(emu.Defines())

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, uint16] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Load reads an image and adds it to the images placed in memory on Reset.
func (emu *Emulator) Load(r goio.Reader) (err error) {
	img, err := cpu.ReadImage(r)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: image at 0x%04x, %d words", img.Origin, len(img.Words))
		for addr, code := range img.Codes() {
			log.Printf("emulator: %04x: %v", addr, code)
		}
	}

	emu.Images = append(emu.Images, img)
	return
}

// Reset clears memory, places every image, and resets the CPU to Entry.
// Later images overwrite earlier ones where they overlap.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Memory.Reset()
	for _, img := range emu.Images {
		img.Load(&emu.Cpu.Memory)
	}

	emu.Cpu.Reset(emu.Entry)
	emu.Hit = nil

	return
}

// Image returns the index of the last image containing addr, or -1.
func (emu *Emulator) Image(addr uint16) int {
	for n := len(emu.Images) - 1; n >= 0; n-- {
		if emu.Images[n].Contains(addr) {
			return n
		}
	}

	return -1
}

// Ticks returns the total instructions retired since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Listing returns the instructions in memory around addr, from before
// words ahead of it up to after words past it.
func (emu *Emulator) Listing(addr uint16, before, after int) iter.Seq2[uint16, cpu.Code] {
	return func(yield func(uint16, cpu.Code) bool) {
		for at, word := range emu.Cpu.Memory.Dump(addr-uint16(before), before+after+1) {
			if !yield(at, cpu.Code{Word: word}) {
				return
			}
		}
	}
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint16 {
	return emu.Cpu.Register[cpu.PC]
}

// Code returns the instruction at the program counter.
func (emu *Emulator) Code() cpu.Code {
	return cpu.Code{Word: emu.Cpu.Memory.Peek(emu.Pc())}
}

// Tick performs a single tick of the emulator. done is set once the CPU
// has halted or a watch expression holds.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Pc()
	defer func() {
		if err != nil {
			err = &ErrRuntime{
				Pc:        pc,
				Image:     emu.Image(pc),
				Backtrace: emu.Cpu.Stack.Backtrace(),
				Err:       err,
			}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	if !emu.Cpu.Running {
		done = true
		return
	}

	emu.Hit, err = emu.Monitor.Check(emu.Cpu)
	if err != nil {
		return
	}
	if emu.Hit != nil {
		if emu.Verbose {
			log.Printf("emulator: watch '%v' at 0x%04x", emu.Hit.Expr, emu.Pc())
		}
		done = true
	}

	return
}

// Run ticks the emulator until it halts, a watch holds, an error occurs,
// or ctx is done. ctx is checked between instructions.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for {
		err = ctx.Err()
		if err != nil {
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}

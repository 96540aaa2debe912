// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tebeka/atexit"

	"github.com/ezrec/lc3/emulator"
	"github.com/ezrec/lc3/term"
	"github.com/ezrec/lc3/translate"
)

const (
	EXIT_OK      = 0
	EXIT_FAILURE = 1
	EXIT_USAGE   = 2
	EXIT_SIGNAL  = 130
	SIGNAL_GRACE = 100 * time.Millisecond // Time allowed for the run loop to notice a signal.
)

// watchList collects repeated -watch flags.
type watchList []string

func (wl *watchList) String() string {
	return strings.Join(*wl, "; ")
}

func (wl *watchList) Set(expr string) error {
	*wl = append(*wl, expr)
	return nil
}

func loadImage(emu *emulator.Emulator, name string) (err error) {
	inf, err := os.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	return emu.Load(inf)
}

// run executes the images named in args and returns the process exit code.
func run(args []string, stdin *os.File, stdout io.Writer, stderr io.Writer) (code int) {
	var verbose bool
	var watches watchList

	flags := flag.NewFlagSet("lc3", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVar(&verbose, "v", false, "Verbose mode")
	flags.Var(&watches, "watch", "Stop when the starlark `EXPR` holds (may be repeated)")
	flags.Usage = func() {
		translate.Fprint(stderr, "usage: %v [-v] [-watch EXPR] <image-file> [<image-file> ...]\n", flags.Name())
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return EXIT_OK
	}
	if err != nil {
		return EXIT_USAGE
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return EXIT_USAGE
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	for _, name := range flags.Args() {
		err = loadImage(emu, name)
		if err != nil {
			translate.Fprint(stderr, "failed to load image: %v: %v\n", name, err)
			return EXIT_FAILURE
		}
	}

	for _, expr := range watches {
		err = emu.Monitor.Add(expr)
		if err != nil {
			translate.Fprint(stderr, "%v: %v\n", flags.Name(), err)
			return EXIT_USAGE
		}
	}

	emu.Console.Input = stdin
	emu.Console.Output = stdout

	tty, err := term.Open(stdin)
	if err != nil {
		if verbose {
			log.Printf("lc3: stdin is not a terminal: %v", err)
		}
	} else {
		restore := func() {
			err := tty.Restore()
			if err != nil {
				log.Printf("lc3: restore terminal: %v", err)
			}
		}
		// The signal watchdog leaves through atexit.Exit.
		atexit.Register(restore)
		defer restore()
		emu.Console.Input = tty
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A GETC blocked on the keyboard never returns to the run loop.
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-finished:
			return
		case <-ctx.Done():
		}
		select {
		case <-finished:
		case <-time.After(SIGNAL_GRACE):
			atexit.Exit(EXIT_SIGNAL)
		}
	}()

	err = emu.Reset()
	if err == nil {
		err = emu.Run(ctx)
	}
	emu.Console.Flush()

	switch {
	case err == nil:
		if emu.Hit != nil {
			translate.Fprint(stdout, "\nwatch: %v\n%v", emu.Hit.Expr, emu.Cpu.String())
		}
	case errors.Is(err, context.Canceled):
		return EXIT_SIGNAL
	default:
		translate.Fprint(stderr, "\n%v: %v\n", flags.Name(), err)
		if verbose {
			log.Print(emu.Cpu.String())
			var runtime *emulator.ErrRuntime
			if errors.As(err, &runtime) {
				for addr, insn := range emu.Listing(runtime.Pc, 4, 4) {
					log.Printf("lc3: %04x: %v", addr, insn)
				}
			}
		}
		return EXIT_FAILURE
	}

	return EXIT_OK
}

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Package term is a wrapper for "github.com/pkg/term/termios". It puts the
// controlling terminal into unbuffered, non-echoing mode for the emulated
// keyboard and restores it afterwards.
package term

import (
	"errors"
	"os"
	"sync"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var ErrNoInput = errors.New(f("terminal requires an input file"))

// Terminal is the handle returned by Open. It must be released with
// Restore on every exit path.
type Terminal struct {
	input *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	// Restore may be called from a deferred call, an exit handler and a
	// signal handler.
	mu       sync.Mutex
	restored bool
}

// Open saves the current terminal attributes of input and switches it to
// cbreak mode: no line buffering and no echo.
func Open(input *os.File) (pt *Terminal, err error) {
	if input == nil {
		err = ErrNoInput
		return
	}

	term := &Terminal{input: input}

	err = termios.Tcgetattr(input.Fd(), &term.canAttr)
	if err != nil {
		return
	}

	term.cbreakAttr = term.canAttr
	termios.Cfmakecbreak(&term.cbreakAttr)

	err = termios.Tcsetattr(input.Fd(), termios.TCSANOW, &term.cbreakAttr)
	if err != nil {
		return
	}

	pt = term
	return
}

// Restore puts the terminal back into the mode saved by Open. Only the
// first call has any effect.
func (pt *Terminal) Restore() (err error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if pt.restored {
		return
	}
	pt.restored = true

	return termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.canAttr)
}

// Read reads from the terminal input. It blocks until input is available.
func (pt *Terminal) Read(p []byte) (n int, err error) {
	return pt.input.Read(p)
}

// Poll reports whether input is waiting, without blocking.
func (pt *Terminal) Poll() (ready bool, err error) {
	return Poll(pt.input)
}

// Poll reports whether input is waiting on any file, terminal or not,
// without blocking.
func Poll(file *os.File) (ready bool, err error) {
	if file == nil {
		err = ErrNoInput
		return
	}

	fd := int(file.Fd())

	var readfds unix.FdSet
	readfds.Set(fd)

	timeout := unix.Timeval{}

	n, err := unix.Select(fd+1, &readfds, nil, nil, &timeout)
	if errors.Is(err, unix.EINTR) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	ready = n > 0 && readfds.IsSet(fd)
	return
}

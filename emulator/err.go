package emulator

import (
	"fmt"
	"strings"

	"github.com/ezrec/lc3/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc        uint16   // Address of the failing instruction.
	Image     int      // Index of the image holding Pc, or -1.
	Backtrace []uint16 // Subroutine return addresses, innermost first.
	Err       error
}

func (err *ErrRuntime) Error() string {
	if len(err.Backtrace) == 0 {
		return f("image %d %v", err.Image, err.Err)
	}

	trace := make([]string, len(err.Backtrace))
	for n, addr := range err.Backtrace {
		trace[n] = fmt.Sprintf("0x%04x", addr)
	}
	return f("image %d %v (called from %v)", err.Image, err.Err, strings.Join(trace, " "))
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

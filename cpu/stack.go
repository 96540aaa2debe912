package cpu

const (
	STACK_LIMIT = 16 // Maximum recorded call depth
)

// CallStack records subroutine return addresses for backtraces. It does
// not take part in execution; when full, the oldest entry is dropped.
type CallStack struct {
	Data []uint16
}

func (s *CallStack) Push(value uint16) {
	if s.Full() {
		s.Data = append(s.Data[:0], s.Data[1:]...)
	}
	s.Data = append(s.Data, value)
}

func (s *CallStack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *CallStack) Empty() bool {
	return len(s.Data) == 0
}

func (s *CallStack) Full() bool {
	return len(s.Data) == STACK_LIMIT
}

func (s *CallStack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *CallStack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}

// Backtrace returns the recorded return addresses, innermost first.
func (s *CallStack) Backtrace() (trace []uint16) {
	for n := len(s.Data) - 1; n >= 0; n-- {
		trace = append(trace, s.Data[n])
	}
	return
}

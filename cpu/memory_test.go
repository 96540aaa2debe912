package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_Keyboard(t *testing.T) {
	assert := assert.New(t)

	kbd := &mockKeyboard{input: []byte("z")}
	mem := &Memory{Keyboard: kbd}

	value, err := mem.Read(MR_KBSR)
	assert.NoError(err)
	assert.Equal(KBSR_READY, value)
	assert.Equal(uint16('z'), mem.Peek(MR_KBDR))

	value, err = mem.Read(MR_KBDR)
	assert.NoError(err)
	assert.Equal(uint16('z'), value)

	// Nothing more to read; the last character is retained.
	value, err = mem.Read(MR_KBSR)
	assert.NoError(err)
	assert.Equal(uint16(0), value)
	assert.Equal(uint16('z'), mem.Peek(MR_KBDR))

	assert.Equal(2, kbd.polls)
	assert.Equal(1, kbd.readCalls)

	// Only KBSR polls.
	_, _ = mem.Read(MR_KBDR)
	_ = mem.Peek(MR_KBSR)
	_, _ = mem.Read(MR_KBSR + 1)
	assert.Equal(2, kbd.polls)
}

func TestMemory_KeyboardStale(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.Write(MR_KBSR, KBSR_READY)

	value, err := mem.Read(MR_KBSR)
	assert.NoError(err)
	assert.Equal(uint16(0), value)
}

func TestMemory_KeyboardError(t *testing.T) {
	assert := assert.New(t)

	kbd := &mockKeyboard{readyErr: errMock}
	mem := &Memory{Keyboard: kbd}

	_, err := mem.Read(MR_KBSR)
	assert.ErrorIs(err, ErrIO)
	assert.ErrorIs(err, errMock)

	kbd = &mockKeyboard{input: []byte("a"), readErr: errMock}
	mem.Keyboard = kbd
	_, err = mem.Read(MR_KBSR)
	assert.ErrorIs(err, ErrIO)
}

func TestMemory_Load(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.Load(0xfffe, []uint16{1, 2, 3, 4})
	assert.Equal(uint16(1), mem.Peek(0xfffe))
	assert.Equal(uint16(2), mem.Peek(0xffff))
	assert.Equal(uint16(3), mem.Peek(0x0000))
	assert.Equal(uint16(4), mem.Peek(0x0001))

	var addrs, values []uint16
	for addr, value := range mem.Dump(0xffff, 3) {
		addrs = append(addrs, addr)
		values = append(values, value)
	}
	assert.Equal([]uint16{0xffff, 0x0000, 0x0001}, addrs)
	assert.Equal([]uint16{2, 3, 4}, values)

	mem.Reset()
	assert.Equal(uint16(0), mem.Peek(0xfffe))
	assert.Equal(uint16(0), mem.Peek(0x0001))
}

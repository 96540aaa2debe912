package io

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/lc3/cpu"
)

var errDevice = errors.New("device failure")

type mockPoller struct {
	io.Reader
	ready bool
	err   error
}

func (mp *mockPoller) Poll() (bool, error) {
	return mp.ready, mp.err
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errDevice
}

func TestConsole_Ready(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	ok, err := con.Ready()
	assert.NoError(err)
	assert.False(ok)

	con.Input = bytes.NewReader([]byte("ab"))
	ok, err = con.Ready()
	assert.NoError(err)
	assert.True(ok)

	c, err := con.ReadByte()
	assert.NoError(err)
	assert.Equal(byte('a'), c)
	c, err = con.ReadByte()
	assert.NoError(err)
	assert.Equal(byte('b'), c)

	ok, err = con.Ready()
	assert.NoError(err)
	assert.False(ok)

	_, err = con.ReadByte()
	assert.ErrorIs(err, io.EOF)

	con.Input = strings.NewReader("x")
	ok, _ = con.Ready()
	assert.True(ok)

	// Readers that cannot be polled are never ready.
	con.Input = io.MultiReader(strings.NewReader("x"))
	ok, err = con.Ready()
	assert.NoError(err)
	assert.False(ok)

	poller := &mockPoller{Reader: strings.NewReader("p"), ready: true}
	con.Input = poller
	ok, err = con.Ready()
	assert.NoError(err)
	assert.True(ok)
	c, err = con.ReadByte()
	assert.NoError(err)
	assert.Equal(byte('p'), c)

	poller.err = errDevice
	_, err = con.Ready()
	assert.ErrorIs(err, errDevice)
}

func TestConsole_NoDevice(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	_, err := con.ReadByte()
	assert.ErrorIs(err, ErrNoInput)
	assert.ErrorIs(con.WriteByte('x'), ErrNoOutput)
	assert.NoError(con.Flush())
}

func TestConsole_Write(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	con := &Console{Output: out}

	for _, c := range []byte("hello") {
		assert.NoError(con.WriteByte(c))
	}
	assert.Equal("", out.String())

	assert.NoError(con.Flush())
	assert.Equal("hello", out.String())

	con = &Console{Output: failWriter{}}
	assert.NoError(con.WriteByte('x'))
	assert.ErrorIs(con.Flush(), errDevice)
}

func TestConsole_ReadyFile(t *testing.T) {
	assert := assert.New(t)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	con := &Console{Input: r, Output: io.Discard}

	ok, err := con.Ready()
	assert.NoError(err)
	assert.False(ok)

	_, err = w.Write([]byte("A"))
	require.NoError(t, err)

	ok, err = con.Ready()
	assert.NoError(err)
	assert.True(ok)

	// The keyboard status register sees piped input.
	c := cpu.NewCpu(con, con)
	value, err := c.Memory.Read(cpu.MR_KBSR)
	assert.NoError(err)
	assert.Equal(cpu.KBSR_READY, value)
	assert.Equal(uint16('A'), c.Memory.Peek(cpu.MR_KBDR))

	ok, err = con.Ready()
	assert.NoError(err)
	assert.False(ok)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/lc3/cpu"
)

// writeImage saves a program at PC_START and returns its path.
func writeImage(t *testing.T, codes ...cpu.Code) (path string) {
	data, err := cpu.NewImage(cpu.PC_START, codes...).MarshalBinary()
	require.NoError(t, err)

	path = filepath.Join(t.TempDir(), "prog.obj")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return
}

// pipeInput returns a non-terminal stdin holding text.
func pipeInput(t *testing.T, text string) (stdin *os.File) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	_, err = w.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return r
}

func TestRun_Usage(t *testing.T) {
	assert := assert.New(t)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	assert.Equal(EXIT_USAGE, run(nil, pipeInput(t, ""), stdout, stderr))
	assert.Contains(stderr.String(), "usage:")

	stderr.Reset()
	assert.Equal(EXIT_USAGE, run([]string{"-bogus", "x"}, pipeInput(t, ""), stdout, stderr))

	path := writeImage(t, cpu.MakeCodeHalt())
	stderr.Reset()
	assert.Equal(EXIT_USAGE, run([]string{"-watch", "r0 ==", path}, pipeInput(t, ""), stdout, stderr))
	assert.Contains(stderr.String(), "r0 ==")
}

func TestRun_LoadFailure(t *testing.T) {
	assert := assert.New(t)

	missing := filepath.Join(t.TempDir(), "missing.obj")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	assert.Equal(EXIT_FAILURE, run([]string{missing}, pipeInput(t, ""), stdout, stderr))
	assert.Contains(stderr.String(), "failed to load image: "+missing)

	short := filepath.Join(t.TempDir(), "short.obj")
	require.NoError(t, os.WriteFile(short, []byte{0x30}, 0o644))
	stderr.Reset()
	assert.Equal(EXIT_FAILURE, run([]string{short}, pipeInput(t, ""), stdout, stderr))
	assert.Contains(stderr.String(), "failed to load image: "+short)
}

func TestRun_Halt(t *testing.T) {
	assert := assert.New(t)

	path := writeImage(t,
		cpu.MakeCodeLea(cpu.R0, 2),
		cpu.MakeCodeTrap(cpu.TRAP_PUTS),
		cpu.MakeCodeHalt(),
		cpu.Code{Word: 'H'}, cpu.Code{Word: 'i'}, cpu.Code{Word: 0},
	)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	assert.Equal(EXIT_OK, run([]string{path}, pipeInput(t, ""), stdout, stderr))
	assert.Equal("Hi", stdout.String())
	assert.Empty(stderr.String())
}

func TestRun_PipedKeyboard(t *testing.T) {
	assert := assert.New(t)

	path := writeImage(t,
		cpu.MakeCodeLdi(cpu.R1, 5),                // 3000: poll MR_KBSR
		cpu.MakeCodeBr(cpu.FL_ZRO|cpu.FL_POS, -2), // 3001: until ready
		cpu.MakeCodeLdi(cpu.R0, 4),                // 3002: read MR_KBDR
		cpu.MakeCodeTrap(cpu.TRAP_OUT),            // 3003
		cpu.MakeCodeHalt(),                        // 3004
		cpu.Code{Word: 0},                         // 3005
		cpu.Code{Word: cpu.MR_KBSR},               // 3006
		cpu.Code{Word: cpu.MR_KBDR},               // 3007
	)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	assert.Equal(EXIT_OK, run([]string{path}, pipeInput(t, "Q"), stdout, stderr))
	assert.Equal("Q", stdout.String())
}

func TestRun_Watch(t *testing.T) {
	assert := assert.New(t)

	path := writeImage(t,
		cpu.MakeCodeAddImm(cpu.R0, cpu.R0, 1),
		cpu.MakeCodeBr(cpu.FL_NEG|cpu.FL_ZRO|cpu.FL_POS, -2),
	)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	assert.Equal(EXIT_OK, run([]string{"-watch", "r0 == 3", path}, pipeInput(t, ""), stdout, stderr))
	assert.Contains(stdout.String(), "watch: r0 == 3")
	assert.Contains(stdout.String(), "r0: 0x0003")
}

func TestRun_RuntimeError(t *testing.T) {
	assert := assert.New(t)

	path := writeImage(t, cpu.Code{Word: 0xd000})

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	assert.Equal(EXIT_FAILURE, run([]string{path}, pipeInput(t, ""), stdout, stderr))
	assert.Contains(stderr.String(), "0x3000")
}

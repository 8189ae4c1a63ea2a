package sds

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenModeCapabilities(t *testing.T) {
	var modeTests = []struct {
		mode     OpenMode
		canRead  bool
		canWrite bool
		fromEnd  bool
	}{
		{ReadOnly, true, false, false},
		{ReadOnlyFromEnd, true, false, true},
		{WriteKeep, false, true, false},
		{WriteKeepFromEnd, false, true, true},
		{WriteTruncate, false, true, false},
		{ReadWriteKeep, true, true, false},
		{ReadWriteFromEnd, true, true, true},
		{OpenMode(-1), false, false, false},
		{OpenMode(7), false, false, false},
	}

	for _, test := range modeTests {
		assert.Equal(t, test.canRead, test.mode.CanRead(), test.mode.String())
		assert.Equal(t, test.canWrite, test.mode.CanWrite(), test.mode.String())
		assert.Equal(t, test.fromEnd, test.mode.FromEnd(), test.mode.String())
	}
}

func TestModeStrings(t *testing.T) {
	assert.Equal(t, "WriteTruncate", WriteTruncate.String())
	assert.Equal(t, "OpenMode(9)", OpenMode(9).String())
	assert.Equal(t, "End", End.String())

	assert.Equal(t, "good", StatusBits(0).String())
	assert.Equal(t, "eof", EOF.String())
	assert.Equal(t, "eof|bad|fail", (EOF | Bad | Fail).String())
}

func TestWhenceMatchesIO(t *testing.T) {
	assert.Equal(t, io.SeekStart, int(Begin))
	assert.Equal(t, io.SeekCurrent, int(Current))
	assert.Equal(t, io.SeekEnd, int(End))
}

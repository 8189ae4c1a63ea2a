package sds

import (
	"fmt"
	"os"
	"strings"
)

// OpenMode selects the permitted operations and the initial cursor of a Stream.
type OpenMode int

// OpenModes supported by Stream.Open. Every mode from WriteKeep onwards is
// write-capable.
const (
	// ReadOnly opens an existing file for reading.
	ReadOnly OpenMode = iota
	// ReadOnlyFromEnd is ReadOnly with the cursor starting at the end.
	ReadOnlyFromEnd
	// WriteKeep opens an existing file for writing, keeping its contents.
	WriteKeep
	// WriteKeepFromEnd is WriteKeep with the cursor starting at the end.
	WriteKeepFromEnd
	// WriteTruncate creates the file, or truncates it if it exists.
	WriteTruncate
	// ReadWriteKeep is WriteKeep that also allows reading.
	ReadWriteKeep
	// ReadWriteFromEnd is WriteKeepFromEnd that also allows reading.
	ReadWriteFromEnd
)

var openModeNames = [...]string{
	ReadOnly:         "ReadOnly",
	ReadOnlyFromEnd:  "ReadOnlyFromEnd",
	WriteKeep:        "WriteKeep",
	WriteKeepFromEnd: "WriteKeepFromEnd",
	WriteTruncate:    "WriteTruncate",
	ReadWriteKeep:    "ReadWriteKeep",
	ReadWriteFromEnd: "ReadWriteFromEnd",
}

func (m OpenMode) valid() bool {
	return m >= ReadOnly && m <= ReadWriteFromEnd
}

func (m OpenMode) String() string {
	if !m.valid() {
		return fmt.Sprintf("OpenMode(%d)", int(m))
	}
	return openModeNames[m]
}

// CanRead reports whether streams opened with m accept reads.
func (m OpenMode) CanRead() bool {
	switch m {
	case ReadOnly, ReadOnlyFromEnd, ReadWriteKeep, ReadWriteFromEnd:
		return true
	}
	return false
}

// CanWrite reports whether streams opened with m accept writes.
func (m OpenMode) CanWrite() bool {
	return m >= WriteKeep && m.valid()
}

// FromEnd reports whether the cursor starts at the end of the file.
func (m OpenMode) FromEnd() bool {
	switch m {
	case ReadOnlyFromEnd, WriteKeepFromEnd, ReadWriteFromEnd:
		return true
	}
	return false
}

// flags maps m to os.OpenFile flags.
func (m OpenMode) flags() int {
	switch m {
	case ReadOnly, ReadOnlyFromEnd:
		return os.O_RDONLY
	case WriteKeep, WriteKeepFromEnd:
		return os.O_WRONLY
	case WriteTruncate:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	return os.O_RDWR
}

// Whence is the reference point of a Seek.
// Its values match io.SeekStart, io.SeekCurrent and io.SeekEnd.
type Whence int

const (
	Begin Whence = iota
	Current
	End
)

func (w Whence) String() string {
	switch w {
	case Begin:
		return "Begin"
	case Current:
		return "Current"
	case End:
		return "End"
	}
	return fmt.Sprintf("Whence(%d)", int(w))
}

// StatusBits records the sticky conditions of a Stream.
type StatusBits uint8

const (
	// EOF is set once the cursor reaches the end of the stream. It is
	// informational: a stream with only EOF set is still good.
	EOF StatusBits = 1 << iota
	// Bad is set on unrecoverable backend errors.
	Bad
	// Fail is set when an operation could not be carried out.
	Fail
)

func (b StatusBits) String() string {
	if b == 0 {
		return "good"
	}
	parts := make([]string, 0, 3)
	if b&EOF != 0 {
		parts = append(parts, "eof")
	}
	if b&Bad != 0 {
		parts = append(parts, "bad")
	}
	if b&Fail != 0 {
		parts = append(parts, "fail")
	}
	return strings.Join(parts, "|")
}

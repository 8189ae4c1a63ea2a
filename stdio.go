package sds

import (
	"fmt"
	"io"
)

// StatusError reports the status bits of a Stream after a failed operation
// made through its io adapter.
type StatusError struct {
	Op     string
	Status StatusBits
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sds: %s failed (%s)", e.Op, e.Status)
}

// streamIO adapts a Stream to the io interfaces.
type streamIO struct {
	s *Stream
}

// ReadWriteSeeker returns a view of s that follows the io contracts:
// io.EOF once the stream is exhausted, a *StatusError when an operation
// sets Fail or Bad. It shares the cursor and status bits of s.
func (s *Stream) ReadWriteSeeker() io.ReadWriteSeeker {
	return streamIO{s: s}
}

func (r streamIO) fault(op string) error {
	if !r.s.IsOpen() {
		return ErrClosed
	}
	return &StatusError{Op: op, Status: r.s.status}
}

func (r streamIO) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := r.s.Read(p)
	if n > 0 {
		return n, nil
	}
	if r.s.Good() && r.s.IsEOF() {
		return 0, io.EOF
	}
	return 0, r.fault("read")
}

func (r streamIO) Write(p []byte) (int, error) {
	n := r.s.Write(p)
	if n < len(p) {
		return n, r.fault("write")
	}
	return n, nil
}

func (r streamIO) Seek(offset int64, whence int) (int64, error) {
	r.s.Seek(offset, Whence(whence))
	if !r.s.Good() {
		return 0, r.fault("seek")
	}
	return r.s.Tell(), nil
}

package sds

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
)

// BadOffset is returned by Tell and FileSize when the stream is not good.
const BadOffset int64 = math.MaxInt64

var (
	// ErrClosed is returned by operations on a Stream that is not open.
	ErrClosed = errors.New("sds: stream is not open")
	// ErrReadOnly is returned when flushing or syncing a bundle-backed Stream.
	ErrReadOnly = errors.New("sds: bundle-backed stream is read-only")
)

type backendKind uint8

const (
	noBackend backendKind = iota
	fileBackend
	bundleBackend
)

// Stream is a seekable byte stream over either a file on disk or an entry
// of a read-only Bundle.
//
// Failures are not returned as errors: they are recorded in the stream's
// StatusBits and checked by the caller with Good, IsOpen and IsEOF. Fail is
// cleared by the next successful Seek, Bad only by Close or Open.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	bundle Bundle

	kind     backendKind
	mode     OpenMode
	status   StatusBits
	canRead  bool
	canWrite bool

	// Direct file. pos is the logical cursor, including buffered writes.
	file   *os.File
	writer *bufio.Writer
	pos    int64

	// Bundle entry. 0 <= offset <= len(data) holds at all times.
	asset  Asset
	data   []byte
	offset int64
}

// NewStream returns a closed Stream that resolves bundle entries through
// bundle. bundle may be nil when the stream only ever opens files.
func NewStream(bundle Bundle) *Stream {
	return &Stream{bundle: bundle}
}

// OpenStream is NewStream followed by Open. Check IsOpen on the result.
func OpenStream(bundle Bundle, path string, mode OpenMode, fromBundle bool) *Stream {
	s := NewStream(bundle)
	s.Open(path, mode, fromBundle)
	return s
}

// Open closes the stream if needed and opens path with mode.
//
// When fromBundle is true and mode is read-only, path names an entry of the
// stream's bundle and the stream becomes bundle-backed. Otherwise path is a
// filesystem path: write-capable modes always go to the filesystem.
// Open reports whether the stream is now open.
func (s *Stream) Open(path string, mode OpenMode, fromBundle bool) bool {
	s.Close()

	if !mode.valid() {
		return false
	}
	if !fromBundle || mode.CanWrite() {
		s.openFile(path, mode)
	} else {
		s.openBundle(path, mode)
	}
	return s.IsOpen()
}

// Close releases the backing resource and resets the stream, status bits
// included. Pending writes are flushed first; their error is returned.
func (s *Stream) Close() error {
	var err error
	switch s.kind {
	case fileBackend:
		err = s.closeFile()
	case bundleBackend:
		err = s.closeBundle()
	}
	*s = Stream{bundle: s.bundle}
	return err
}

// IsOpen reports whether the stream has a backing resource.
func (s *Stream) IsOpen() bool {
	return s.kind != noBackend
}

// IsBundle reports whether the stream reads from a bundle entry. It is false
// for closed streams and for streams that fell back to a file.
func (s *Stream) IsBundle() bool {
	return s.kind == bundleBackend
}

// Good reports whether the stream is open and has no status bits other
// than EOF set.
func (s *Stream) Good() bool {
	return s.IsOpen() && s.status&^EOF == 0
}

// IsEOF reports whether the cursor has reached the end of the stream.
func (s *Stream) IsEOF() bool {
	return s.status&EOF != 0
}

// Status returns the current status bits.
func (s *Stream) Status() StatusBits {
	return s.status
}

// Mode returns the mode the stream was opened with.
func (s *Stream) Mode() OpenMode {
	return s.mode
}

// Read copies up to len(p) bytes into p and returns how many were read.
// Reaching the end of the stream sets EOF and is not a failure.
func (s *Stream) Read(p []byte) int {
	switch s.kind {
	case fileBackend:
		return s.readFile(p)
	case bundleBackend:
		return s.readBundle(p)
	}
	s.status |= Fail
	return 0
}

// Write writes p and returns how many bytes were accepted.
// Bundle-backed streams never accept writes.
func (s *Stream) Write(p []byte) int {
	if s.kind == fileBackend {
		return s.writeFile(p)
	}
	s.status |= Fail
	return 0
}

// Seek moves the cursor to offset relative to whence. Targets outside
// [0, size] set Fail and leave the cursor where it was. A successful seek
// clears Fail, and sets EOF only when it lands on the end.
func (s *Stream) Seek(offset int64, whence Whence) {
	if s.status&Bad != 0 {
		s.status |= Fail
		return
	}
	switch s.kind {
	case fileBackend:
		s.seekFile(offset, whence)
	case bundleBackend:
		s.seekBundle(offset, whence)
	default:
		s.status |= Fail
	}
}

// Tell returns the cursor position, or BadOffset (setting Fail) when the
// stream is not good.
func (s *Stream) Tell() int64 {
	if !s.Good() {
		s.status |= Fail
		return BadOffset
	}
	if s.kind == bundleBackend {
		return s.offset
	}
	return s.pos
}

// FileSize returns the size of the stream in bytes, or BadOffset (setting
// Fail) when the stream is not good.
//
// With restoreOffset the size is found by seeking to the end and back to
// the cursor. Without it, file-backed streams ask the file metadata instead
// and make no seek at all; callers must not rely on the cursor position
// afterwards:
//
//	s := sds.OpenStream(bundle, path, sds.ReadOnly, true)
//	size := s.FileSize(false)
//	s.Seek(0, sds.Begin)
func (s *Stream) FileSize(restoreOffset bool) int64 {
	if !s.Good() {
		s.status |= Fail
		return BadOffset
	}
	if s.kind == bundleBackend {
		return int64(len(s.data))
	}
	return s.fileSize(restoreOffset)
}

// Flush pushes buffered writes to the operating system.
func (s *Stream) Flush() error {
	switch s.kind {
	case fileBackend:
		return s.flushWriter()
	case bundleBackend:
		s.status |= Fail
		return ErrReadOnly
	}
	s.status |= Fail
	return ErrClosed
}

// Fsync flushes the stream and commits the file to stable storage. With
// preferDataSync, only the data (and the metadata needed to read it back)
// is synced on platforms that can tell the difference.
func (s *Stream) Fsync(preferDataSync bool) error {
	if err := s.Flush(); err != nil {
		return err
	}

	var err error
	if preferDataSync {
		err = fdatasync(s.file)
	} else {
		err = s.file.Sync()
	}
	if err != nil {
		s.status |= Bad | Fail
		return fmt.Errorf("sync %s: %w", s.file.Name(), err)
	}
	return nil
}

// seekTarget resolves offset against whence for a stream of the given size
// with the cursor at cur. It reports false when the target falls outside
// [0, size].
func seekTarget(cur, size, offset int64, whence Whence) (int64, bool) {
	switch whence {
	case Begin:
		if offset < 0 || offset > size {
			return cur, false
		}
		return offset, true
	case Current:
		if offset < -cur || offset > size-cur {
			return cur, false
		}
		return cur + offset, true
	case End:
		if offset > 0 || offset < -size {
			return cur, false
		}
		return size + offset, true
	}
	return cur, false
}

// settle updates the status bits after the cursor moved to target.
func (s *Stream) settle(target, size int64) {
	s.status &^= Fail | EOF
	if target >= size {
		s.status |= EOF
	}
}

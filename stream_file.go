package sds

import (
	"bufio"
	"errors"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// writeBufferSize matches the default stdio buffer.
const writeBufferSize = 4096

func (s *Stream) openFile(path string, mode OpenMode) {
	file, err := os.OpenFile(path, mode.flags(), 0644)
	if err != nil {
		log.Debugf("Could not open %s as %s: %s", path, mode, err)
		return
	}

	s.kind = fileBackend
	s.mode = mode
	s.file = file
	s.canRead = mode.CanRead()
	s.canWrite = mode.CanWrite()
	if s.canWrite {
		s.writer = bufio.NewWriterSize(file, writeBufferSize)
	}

	if mode.FromEnd() {
		s.Seek(0, End)
	}
}

func (s *Stream) closeFile() error {
	err := s.flushWriter()
	if cerr := s.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// flushWriter empties the write buffer. Afterwards the file offset and pos
// agree.
func (s *Stream) flushWriter() error {
	if s.writer == nil || s.writer.Buffered() == 0 {
		return nil
	}
	if err := s.writer.Flush(); err != nil {
		log.Debugf("Flushing %s failed: %s", s.file.Name(), err)
		s.status |= Bad | Fail
		return err
	}
	return nil
}

// size returns the current file size. The write buffer must be empty.
func (s *Stream) size() (int64, error) {
	fi, err := s.file.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (s *Stream) readFile(p []byte) int {
	if !s.canRead {
		s.status |= Fail
		return 0
	}
	if err := s.flushWriter(); err != nil {
		return 0
	}

	n, err := io.ReadFull(s.file, p)
	s.pos += int64(n)
	switch {
	case err == nil:
		if size, err := s.size(); err == nil && s.pos >= size {
			s.status |= EOF
		}
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.status |= EOF
	default:
		log.Debugf("Reading %s failed: %s", s.file.Name(), err)
		s.status |= Bad | Fail
	}
	return n
}

func (s *Stream) writeFile(p []byte) int {
	if !s.canWrite {
		s.status |= Fail
		return 0
	}

	n, err := s.writer.Write(p)
	s.pos += int64(n)
	if err != nil {
		log.Debugf("Writing %s failed: %s", s.file.Name(), err)
		s.status |= Bad | Fail
	}
	return n
}

func (s *Stream) seekFile(offset int64, whence Whence) {
	if err := s.flushWriter(); err != nil {
		return
	}

	size, err := s.size()
	if err != nil {
		s.status |= Bad | Fail
		return
	}

	target, ok := seekTarget(s.pos, size, offset, whence)
	if !ok {
		s.status |= Fail
		return
	}
	if _, err := s.file.Seek(target, io.SeekStart); err != nil {
		s.status |= Bad | Fail
		return
	}
	s.pos = target
	s.settle(target, size)
}

func (s *Stream) fileSize(restoreOffset bool) int64 {
	if err := s.flushWriter(); err != nil {
		return BadOffset
	}

	if !restoreOffset {
		size, err := s.size()
		if err != nil {
			s.status |= Bad | Fail
			return BadOffset
		}
		return size
	}

	end, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		s.status |= Bad | Fail
		return BadOffset
	}
	if _, err := s.file.Seek(s.pos, io.SeekStart); err != nil {
		s.status |= Bad | Fail
		return BadOffset
	}
	return end
}

package sds

import (
	log "github.com/sirupsen/logrus"
)

func (s *Stream) openBundle(name string, mode OpenMode) {
	if s.bundle == nil {
		log.Debugf("No bundle registered, cannot open %s", name)
		return
	}

	asset, err := s.bundle.Open(name)
	if err != nil {
		log.Debugf("Could not open bundle entry %s: %s", name, err)
		return
	}

	s.kind = bundleBackend
	s.mode = mode
	s.asset = asset
	s.data = asset.Bytes()
	s.offset = 0
	s.canRead = true

	if mode == ReadOnlyFromEnd {
		s.Seek(0, End)
	}
}

func (s *Stream) closeBundle() error {
	return s.asset.Close()
}

func (s *Stream) readBundle(p []byte) int {
	n := copy(p, s.data[s.offset:])
	s.offset += int64(n)
	if s.offset >= int64(len(s.data)) {
		s.status |= EOF
	}
	return n
}

func (s *Stream) seekBundle(offset int64, whence Whence) {
	size := int64(len(s.data))
	target, ok := seekTarget(s.offset, size, offset, whence)
	if !ok {
		s.status |= Fail
		return
	}
	s.offset = target
	s.settle(target, size)
}

package sds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tempPath(t *testing.T, name string) string {
	dir, err := os.MkdirTemp("", "sds")
	assert.Nil(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, name)
}

func TestFileRoundTrip(t *testing.T) {
	path := tempPath(t, "roundtrip.bin")
	var roundTripTests = [][]byte{
		{},
		{0x00},
		[]byte("hello, stream"),
		make([]byte, 3*writeBufferSize+17),
	}

	for _, data := range roundTripTests {
		out := OpenStream(nil, path, WriteTruncate, false)
		assert.True(t, out.IsOpen())
		assert.Equal(t, len(data), out.Write(data))
		assert.Nil(t, out.Close())

		in := OpenStream(nil, path, ReadOnly, false)
		assert.True(t, in.IsOpen())
		assert.False(t, in.IsBundle())
		assert.Equal(t, int64(len(data)), in.FileSize(true))

		buf := make([]byte, len(data)+1)
		n := in.Read(buf)
		assert.Equal(t, len(data), n)
		assert.Equal(t, data, buf[:n])
		assert.True(t, in.IsEOF())
		assert.True(t, in.Good())
		in.Close()
	}
}

func TestWriteTruncateThenReadScenario(t *testing.T) {
	path := tempPath(t, "x")

	s := OpenStream(nil, path, WriteTruncate, false)
	assert.Equal(t, 3, s.Write([]byte{0x01, 0x02, 0x03}))
	assert.Nil(t, s.Close())

	assert.True(t, s.Open(path, ReadOnly, false))
	assert.Equal(t, int64(3), s.FileSize(false))

	buf := make([]byte, 3)
	assert.Equal(t, 3, s.Read(buf))
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, buf)

	assert.Equal(t, 0, s.Read(buf[:1]))
	assert.True(t, s.IsEOF())
	assert.Nil(t, s.Close())
}

func TestFileOpenModes(t *testing.T) {
	path := tempPath(t, "modes.txt")
	assert.Nil(t, os.WriteFile(path, []byte("abcdef"), 0644))

	s := OpenStream(nil, path, ReadOnlyFromEnd, false)
	assert.Equal(t, int64(6), s.Tell())
	assert.True(t, s.IsEOF())
	assert.Equal(t, 0, s.Write([]byte("x")))
	assert.False(t, s.Good())
	s.Close()

	s = OpenStream(nil, path, WriteKeepFromEnd, false)
	assert.Equal(t, int64(6), s.Tell())
	assert.Equal(t, 2, s.Write([]byte("gh")))
	assert.Equal(t, int64(8), s.Tell())
	s.Close()

	s = OpenStream(nil, path, ReadWriteKeep, false)
	assert.Equal(t, 3, s.Write([]byte("xyz")))
	s.Seek(0, Begin)
	buf := make([]byte, 8)
	assert.Equal(t, 8, s.Read(buf))
	assert.Equal(t, "xyzdefgh", string(buf))
	s.Close()

	s = OpenStream(nil, path, WriteTruncate, false)
	assert.Equal(t, int64(0), s.FileSize(true))
	assert.Equal(t, 0, s.Read(buf))
	assert.Equal(t, Fail, s.Status()&Fail)
	s.Close()

	content, err := os.ReadFile(path)
	assert.Nil(t, err)
	assert.Empty(t, content)
}

func TestFileOpenFailures(t *testing.T) {
	missing := tempPath(t, "missing.bin")

	for _, mode := range []OpenMode{ReadOnly, ReadOnlyFromEnd, WriteKeep, WriteKeepFromEnd, ReadWriteKeep, ReadWriteFromEnd} {
		s := OpenStream(nil, missing, mode, false)
		assert.False(t, s.IsOpen(), mode.String())
	}

	s := NewStream(nil)
	assert.False(t, s.Open(missing, OpenMode(42), false))
	assert.False(t, s.IsOpen())
}

func TestFileSeek(t *testing.T) {
	path := tempPath(t, "seek.bin")
	assert.Nil(t, os.WriteFile(path, []byte("0123456789"), 0644))

	s := OpenStream(nil, path, ReadOnly, false)
	defer s.Close()
	assertSeekContract(t, s, 10)
}

func TestFileSizeRestoresOffset(t *testing.T) {
	path := tempPath(t, "size.bin")
	assert.Nil(t, os.WriteFile(path, []byte("0123456789"), 0644))

	s := OpenStream(nil, path, ReadOnly, false)
	defer s.Close()

	s.Seek(4, Begin)
	assert.Equal(t, int64(10), s.FileSize(true))
	assert.Equal(t, int64(4), s.Tell())

	buf := make([]byte, 2)
	assert.Equal(t, 2, s.Read(buf))
	assert.Equal(t, "45", string(buf))
}

func TestFileSizeIncludesBufferedWrites(t *testing.T) {
	path := tempPath(t, "buffered.bin")

	s := OpenStream(nil, path, WriteTruncate, false)
	defer s.Close()
	s.Write([]byte("abc"))
	assert.Equal(t, int64(3), s.FileSize(true))
	assert.Equal(t, int64(3), s.Tell())
	assert.Nil(t, s.Fsync(true))
	assert.Nil(t, s.Fsync(false))
}

func TestBundleStream(t *testing.T) {
	bundle := NewMemBundle(map[string][]byte{
		"settings.txt": []byte("a=0 b=3 c=5"),
	})

	s := OpenStream(bundle, "settings.txt", ReadOnly, true)
	defer s.Close()
	assert.True(t, s.IsOpen())
	assert.True(t, s.IsBundle())
	assert.Equal(t, ReadOnly, s.Mode())

	buf := make([]byte, 3)
	assert.Equal(t, 3, s.Read(buf))
	assert.Equal(t, "a=0", string(buf))
	assert.Equal(t, int64(3), s.Tell())

	assert.Equal(t, int64(11), s.FileSize(true))
	assert.Equal(t, int64(3), s.Tell())
	assert.Equal(t, int64(11), s.FileSize(false))
}

func TestBundleSeek(t *testing.T) {
	bundle := NewMemBundle(map[string][]byte{"digits": []byte("0123456789")})

	s := OpenStream(bundle, "digits", ReadOnly, true)
	defer s.Close()
	assertSeekContract(t, s, 10)
}

func TestBundleShortReadSetsEOF(t *testing.T) {
	bundle := NewMemBundle(map[string][]byte{"short": []byte("abcde")})

	s := OpenStream(bundle, "short", ReadOnly, true)
	defer s.Close()

	buf := make([]byte, 8)
	assert.Equal(t, 5, s.Read(buf))
	assert.Equal(t, "abcde", string(buf[:5]))
	assert.True(t, s.IsEOF())
	assert.Equal(t, StatusBits(0), s.Status()&Fail)
	assert.True(t, s.Good())

	assert.Equal(t, 0, s.Read(buf))
	assert.True(t, s.Good())
}

func TestBundleFromEnd(t *testing.T) {
	bundle := NewMemBundle(map[string][]byte{"data": []byte("abcdef")})

	s := OpenStream(bundle, "data", ReadOnlyFromEnd, true)
	defer s.Close()
	assert.Equal(t, int64(6), s.Tell())
	assert.True(t, s.IsEOF())

	s.Seek(-2, End)
	buf := make([]byte, 2)
	assert.Equal(t, 2, s.Read(buf))
	assert.Equal(t, "ef", string(buf))
}

func TestBundleRejectsWrites(t *testing.T) {
	bundle := NewMemBundle(map[string][]byte{"data": []byte("abc")})

	s := OpenStream(bundle, "data", ReadOnly, true)
	defer s.Close()
	assert.Equal(t, 0, s.Write([]byte("x")))
	assert.Equal(t, Fail, s.Status()&Fail)
	assert.Equal(t, ErrReadOnly, s.Flush())

	s.Seek(1, Begin)
	assert.True(t, s.Good())
	assert.Equal(t, int64(1), s.Tell())
}

func TestBundleMissingEntry(t *testing.T) {
	bundle := NewMemBundle(map[string][]byte{"data": []byte("abc")})

	s := OpenStream(bundle, "missing", ReadOnly, true)
	assert.False(t, s.IsOpen())
	assert.False(t, s.IsBundle())
	assert.Equal(t, StatusBits(0), s.Status())

	s = OpenStream(nil, "data", ReadOnly, true)
	assert.False(t, s.IsOpen())
}

func TestClosedStream(t *testing.T) {
	s := NewStream(nil)

	buf := make([]byte, 4)
	assert.Equal(t, 0, s.Read(buf))
	assert.Equal(t, 0, s.Write(buf))
	s.Seek(0, Begin)
	assert.Equal(t, BadOffset, s.Tell())
	assert.Equal(t, BadOffset, s.FileSize(true))
	assert.Equal(t, ErrClosed, s.Flush())
	assert.NotNil(t, s.Fsync(true))
	assert.False(t, s.Good())
	assert.Nil(t, s.Close())
	assert.Equal(t, StatusBits(0), s.Status())
}

func TestReopenResetsStatus(t *testing.T) {
	bundle := NewMemBundle(map[string][]byte{"a": []byte("abc"), "b": []byte("xyz")})

	s := OpenStream(bundle, "a", ReadOnly, true)
	s.Seek(10, Begin)
	assert.False(t, s.Good())

	assert.True(t, s.Open("b", ReadOnly, true))
	assert.True(t, s.Good())
	assert.Equal(t, int64(0), s.Tell())
	s.Close()
}

func TestWriteModeFallsBackToFile(t *testing.T) {
	bundle := NewMemBundle(map[string][]byte{})
	direct := tempPath(t, "direct.bin")
	fallback := tempPath(t, "fallback.bin")
	for _, path := range []string{direct, fallback} {
		assert.Nil(t, os.WriteFile(path, []byte("0123456789"), 0644))
	}

	for _, mode := range []OpenMode{WriteKeep, WriteKeepFromEnd, WriteTruncate, ReadWriteKeep, ReadWriteFromEnd} {
		d := OpenStream(nil, direct, mode, false)
		f := OpenStream(bundle, fallback, mode, true)
		assert.True(t, f.IsOpen(), mode.String())
		assert.False(t, f.IsBundle(), mode.String())

		assert.Equal(t, d.Tell(), f.Tell())
		assert.Equal(t, d.Write([]byte("ab")), f.Write([]byte("ab")))
		assert.Equal(t, d.FileSize(true), f.FileSize(true))

		d.Seek(1, Begin)
		f.Seek(1, Begin)
		assert.Equal(t, d.Tell(), f.Tell())

		dbuf, fbuf := make([]byte, 4), make([]byte, 4)
		assert.Equal(t, d.Read(dbuf), f.Read(fbuf))
		assert.Equal(t, dbuf, fbuf)
		assert.Equal(t, d.Status(), f.Status())

		d.Seek(100, Begin)
		f.Seek(100, Begin)
		assert.Equal(t, d.Status(), f.Status())
		assert.Equal(t, d.Tell(), f.Tell())

		assert.Nil(t, d.Close())
		assert.Nil(t, f.Close())
	}

	d, err := os.ReadFile(direct)
	assert.Nil(t, err)
	f, err := os.ReadFile(fallback)
	assert.Nil(t, err)
	assert.Equal(t, d, f)
}

// assertSeekContract checks seek bounds on an open, good stream of the
// given size.
func assertSeekContract(t *testing.T, s *Stream, size int64) {
	for k := int64(0); k <= size; k++ {
		s.Seek(k, Begin)
		assert.True(t, s.Good())
		assert.Equal(t, k, s.Tell())
		assert.Equal(t, k == size, s.IsEOF())
	}

	var seekTests = []struct {
		offset   int64
		whence   Whence
		expected int64
	}{
		{-1, Begin, BadOffset},
		{size + 1, Begin, BadOffset},
		{0, End, size},
		{-size, End, 0},
		{1, End, BadOffset},
		{-size - 1, End, BadOffset},
		{3, Begin, 3},
		{2, Current, 5},
		{-5, Current, 0},
		{-1, Current, BadOffset},
	}

	s.Seek(0, Begin)
	for _, test := range seekTests {
		before := s.Tell()
		s.Seek(test.offset, test.whence)
		assert.Equal(t, test.expected, s.Tell(), "seek(%d, %s)", test.offset, test.whence)
		if test.expected == BadOffset {
			assert.Equal(t, Fail, s.Status()&Fail)
			// a successful seek clears Fail and leaves the cursor usable
			s.Seek(before, Begin)
			assert.True(t, s.Good())
			assert.Equal(t, before, s.Tell())
		}
	}

	s.Seek(0, Whence(7))
	assert.False(t, s.Good())
	s.Seek(0, Begin)
}

package bundlefs

import (
	"io"
	"io/fs"
	"path/filepath"
	"strings"
)

// BundleType is an identifier for supported Bundles
type BundleType int

// Identifiers for supported BundleTypes
const (
	Dir BundleType = iota
	Zip
	S3
	Mem
)

// Bundle is a read-only package of application resources, resolved by
// entry name rather than by filesystem path.
// Implementations must be safe for concurrent Open/Stat/ListEntries calls
// once Init has returned.
type Bundle interface {
	Open(name string) (Asset, error)
	Stat(name string) (EntryInfo, error)
	ListEntries(pattern string) ([]EntryInfo, error)
	Init() error
}

// Writer is implemented by bundles whose backing store accepts new entries.
type Writer interface {
	OpenWriter(name string) (io.WriteCloser, error)
}

// Asset is a resolved bundle entry held in memory.
// The slice returned by Bytes must not be modified.
type Asset interface {
	Bytes() []byte
	Size() int64
	Close() error
}

// EntryInfo provides information about a bundle entry
type EntryInfo struct {
	Name string // entry name, slash separated
	Size int64  // entry size in bytes
}

// InitBundle initializes a bundle of the given type at the
// specified location.
func InitBundle(bundleType BundleType, location string) (Bundle, error) {
	var b Bundle
	switch bundleType {
	case Dir:
		b = &DirBundle{root: location}
	case Zip:
		b = &ZipBundle{path: location}
	case S3:
		b = &S3Bundle{location: location}
	default:
		b = NewMemBundle(nil)
	}

	if err := b.Init(); err != nil {
		return nil, err
	}
	return b, nil
}

// InferBundleType infers the type of bundle stored at location.
func InferBundleType(location string) BundleType {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "s3://"):
		return S3
	case strings.HasSuffix(lower, ".zip"), strings.HasSuffix(lower, ".apk"):
		return Zip
	}
	return Dir
}

// InferBundle initializes the bundle that location points to.
func InferBundle(location string) (Bundle, error) {
	return InitBundle(InferBundleType(location), location)
}

// cleanName normalizes an entry name and rejects names that escape the bundle.
func cleanName(op, name string) (string, error) {
	cleaned := strings.TrimPrefix(filepath.ToSlash(name), "/")
	if cleaned == "" || !fs.ValidPath(cleaned) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return cleaned, nil
}

func notExist(op, name string) error {
	return &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
}

// byteAsset is an Asset over an in-memory slice.
type byteAsset struct {
	data []byte
}

func (a *byteAsset) Bytes() []byte { return a.data }

func (a *byteAsset) Size() int64 { return int64(len(a.data)) }

func (a *byteAsset) Close() error {
	a.data = nil
	return nil
}

package sds

import (
	"github.com/artofthestate/sds/internal/pkg/bundlefs"
)

// Bundle resolves named entries of a read-only package of resources, such
// as an asset directory, a zip or apk archive, or an S3 prefix. A Bundle is
// shared read-only state: it is set up once, handed to every Stream that
// reads from it, and may be used from several goroutines.
type Bundle = bundlefs.Bundle

// Asset is a bundle entry resolved into memory.
type Asset = bundlefs.Asset

// EntryInfo describes a bundle entry.
type EntryInfo = bundlefs.EntryInfo

// BundleWriter is implemented by bundles that accept new entries.
type BundleWriter = bundlefs.Writer

// NewMemBundle returns a Bundle serving a copy of entries from memory.
func NewMemBundle(entries map[string][]byte) Bundle {
	return bundlefs.NewMemBundle(entries)
}

// NewDirBundle returns a Bundle serving the files under root.
func NewDirBundle(root string) (Bundle, error) {
	b, err := bundlefs.NewDirBundle(root)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// NewZipBundle returns a Bundle serving the entries of a zip archive.
// Android packages (.apk) resolve names under their assets/ directory.
func NewZipBundle(path string) (Bundle, error) {
	b, err := bundlefs.NewZipBundle(path)
	if err != nil {
		return nil, err
	}
	return b, nil
}

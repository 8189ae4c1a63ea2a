package bundlefs

import (
	"archive/zip"
	"fmt"
	"io"
	"math"
	"path"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// apkAssetPrefix is where Android packages keep the entries an asset
// manager resolves by name.
const apkAssetPrefix = "assets/"

// ZipBundle serves entries out of a zip archive. Android packages (.apk)
// are zip archives whose assets live under "assets/"; names are resolved
// relative to that directory for them.
//
// The archive file stays open until Close. Bundles built by InitBundle are
// usually kept for the life of the process; callers that drop one earlier
// should close it.
type ZipBundle struct {
	path   string
	prefix string

	archive *zip.ReadCloser
	files   map[string]*zip.File
	names   []string
}

// NewZipBundle opens the archive at path.
func NewZipBundle(path string) (*ZipBundle, error) {
	b := &ZipBundle{path: path}
	return b, b.Init()
}

// Init opens the archive and indexes its entries.
func (z *ZipBundle) Init() error {
	archive, err := zip.OpenReader(z.path)
	if err != nil {
		return err
	}

	if strings.HasSuffix(strings.ToLower(z.path), ".apk") {
		z.prefix = apkAssetPrefix
	}

	z.archive = archive
	z.files = make(map[string]*zip.File, len(archive.File))
	z.names = make([]string, 0, len(archive.File))
	for _, f := range archive.File {
		if f.FileInfo().IsDir() || !strings.HasPrefix(f.Name, z.prefix) {
			continue
		}
		name := strings.TrimPrefix(f.Name, z.prefix)
		z.files[name] = f
		z.names = append(z.names, name)
	}
	sort.Strings(z.names)

	log.Debugf("Indexed %d entries in %s", len(z.names), z.path)
	return nil
}

// Open decompresses the named entry into memory.
func (z *ZipBundle) Open(name string) (Asset, error) {
	cleaned, err := cleanName("open", name)
	if err != nil {
		return nil, err
	}

	f, ok := z.files[cleaned]
	if !ok {
		return nil, notExist("open", name)
	}

	if f.UncompressedSize64 >= math.MaxInt64 {
		return nil, fmt.Errorf("open %s: declared size %d too large", name, f.UncompressedSize64)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// The header size is not trusted: read at most one byte past it.
	declared := int64(f.UncompressedSize64)
	data, err := io.ReadAll(io.LimitReader(rc, declared+1))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if int64(len(data)) != declared {
		return nil, fmt.Errorf("open %s: read %d bytes, header declares %d", name, len(data), declared)
	}
	return &byteAsset{data: data}, nil
}

// Stat returns the uncompressed size of the named entry.
func (z *ZipBundle) Stat(name string) (EntryInfo, error) {
	cleaned, err := cleanName("stat", name)
	if err != nil {
		return EntryInfo{}, err
	}

	f, ok := z.files[cleaned]
	if !ok {
		return EntryInfo{}, notExist("stat", name)
	}
	return EntryInfo{Name: cleaned, Size: int64(f.UncompressedSize64)}, nil
}

// ListEntries returns entries whose name matches pattern (path.Match
// syntax) or lives under a directory that matches it.
func (z *ZipBundle) ListEntries(pattern string) ([]EntryInfo, error) {
	pattern = strings.TrimSuffix(pattern, "/")
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}

	entries := make([]EntryInfo, 0)
	for _, name := range z.names {
		if pattern != "" && !matchEntry(pattern, name) {
			continue
		}
		entries = append(entries, EntryInfo{
			Name: name,
			Size: int64(z.files[name].UncompressedSize64),
		})
	}
	return entries, nil
}

// Close releases the archive.
func (z *ZipBundle) Close() error {
	if z.archive == nil {
		return nil
	}
	err := z.archive.Close()
	z.archive = nil
	return err
}

// matchEntry reports whether name, or one of its parent directories,
// matches pattern.
func matchEntry(pattern, name string) bool {
	for p := name; p != "." && p != "/"; p = path.Dir(p) {
		if ok, _ := path.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

package bundlefs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// DirBundle serves entries out of a directory on the local filesystem.
type DirBundle struct {
	root string
}

// NewDirBundle returns an initialized DirBundle rooted at root.
func NewDirBundle(root string) (*DirBundle, error) {
	b := &DirBundle{root: root}
	return b, b.Init()
}

func walkDir(root, dir string) ([]EntryInfo, error) {
	entries := make([]EntryInfo, 0)
	err := filepath.Walk(dir, func(p string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		entries = append(entries, EntryInfo{
			Name: filepath.ToSlash(rel),
			Size: f.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	return entries, nil
}

// ListEntries returns the entries matching pattern. Directories that match
// are expanded recursively. An empty pattern lists the whole bundle.
func (d *DirBundle) ListEntries(pattern string) ([]EntryInfo, error) {
	if pattern == "" {
		return walkDir(d.root, d.root)
	}

	globbed, err := filepath.Glob(filepath.Join(d.root, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, err
	}

	entries := make([]EntryInfo, 0)
	for _, fileName := range globbed {
		fInfo, err := os.Stat(fileName)
		if err != nil {
			log.Error(err)
			continue
		}
		if fInfo.IsDir() {
			dirEntries, err := walkDir(d.root, fileName)
			if err != nil {
				return nil, err
			}
			entries = append(entries, dirEntries...)
			continue
		}
		rel, err := filepath.Rel(d.root, fileName)
		if err != nil {
			return nil, err
		}
		entries = append(entries, EntryInfo{
			Name: filepath.ToSlash(rel),
			Size: fInfo.Size(),
		})
	}

	return entries, nil
}

func (d *DirBundle) fullPath(op, name string) (string, string, error) {
	cleaned, err := cleanName(op, name)
	if err != nil {
		return "", "", err
	}
	return cleaned, filepath.Join(d.root, filepath.FromSlash(cleaned)), nil
}

// Open reads the named entry into memory.
func (d *DirBundle) Open(name string) (Asset, error) {
	_, p, err := d.fullPath("open", name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notExist("open", name)
		}
		return nil, err
	}
	return &byteAsset{data: data}, nil
}

// Stat returns the size of the named entry.
func (d *DirBundle) Stat(name string) (EntryInfo, error) {
	cleaned, p, err := d.fullPath("stat", name)
	if err != nil {
		return EntryInfo{}, err
	}

	fInfo, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return EntryInfo{}, notExist("stat", name)
		}
		return EntryInfo{}, err
	}
	if fInfo.IsDir() {
		return EntryInfo{}, &fs.PathError{Op: "stat", Path: name, Err: fmt.Errorf("is a directory")}
	}
	return EntryInfo{
		Name: cleaned,
		Size: fInfo.Size(),
	}, nil
}

// OpenWriter creates (or truncates) the named entry, creating
// intermediate directories as needed.
func (d *DirBundle) OpenWriter(name string) (io.WriteCloser, error) {
	_, p, err := d.fullPath("create", name)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

// Init checks that the bundle root is a directory.
func (d *DirBundle) Init() error {
	if d.root == "" {
		d.root = "."
	}
	fInfo, err := os.Stat(d.root)
	if err != nil {
		return err
	}
	if !fInfo.IsDir() {
		return fmt.Errorf("bundle root %s is not a directory", d.root)
	}
	return nil
}

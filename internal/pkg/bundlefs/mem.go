package bundlefs

import (
	"bytes"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// MemBundle is a Bundle held entirely in memory. It is mostly useful for
// tests and for programs that embed their resources.
type MemBundle struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemBundle returns a MemBundle serving a copy of entries. Names are
// normalized the way Open resolves them; invalid names are dropped.
func NewMemBundle(entries map[string][]byte) *MemBundle {
	m := &MemBundle{entries: make(map[string][]byte, len(entries))}
	for name, data := range entries {
		cleaned, err := cleanName("create", name)
		if err != nil {
			log.Warnf("Skipping bundle entry: %s", err)
			continue
		}
		m.entries[cleaned] = bytes.Clone(data)
	}
	return m
}

func (m *MemBundle) Init() error { return nil }

func (m *MemBundle) Open(name string) (Asset, error) {
	cleaned, err := cleanName("open", name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.entries[cleaned]
	if !ok {
		return nil, notExist("open", name)
	}
	return &byteAsset{data: data}, nil
}

func (m *MemBundle) Stat(name string) (EntryInfo, error) {
	cleaned, err := cleanName("stat", name)
	if err != nil {
		return EntryInfo{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.entries[cleaned]
	if !ok {
		return EntryInfo{}, notExist("stat", name)
	}
	return EntryInfo{Name: cleaned, Size: int64(len(data))}, nil
}

func (m *MemBundle) ListEntries(pattern string) ([]EntryInfo, error) {
	pattern = strings.TrimSuffix(pattern, "/")

	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]EntryInfo, 0, len(m.entries))
	for name, data := range m.entries {
		if pattern != "" && !matchEntry(pattern, name) {
			continue
		}
		entries = append(entries, EntryInfo{Name: name, Size: int64(len(data))})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// OpenWriter stores the written bytes under name on Close.
func (m *MemBundle) OpenWriter(name string) (io.WriteCloser, error) {
	cleaned, err := cleanName("create", name)
	if err != nil {
		return nil, err
	}
	return &memWriter{bundle: m, name: cleaned}, nil
}

type memWriter struct {
	bundle *MemBundle
	name   string
	buf    bytes.Buffer
	closed bool
}

func (w *memWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, &fs.PathError{Op: "write", Path: w.name, Err: fs.ErrClosed}
	}
	return w.buf.Write(p)
}

func (w *memWriter) Close() error {
	if w.closed {
		return &fs.PathError{Op: "close", Path: w.name, Err: fs.ErrClosed}
	}
	w.closed = true

	w.bundle.mu.Lock()
	defer w.bundle.mu.Unlock()
	w.bundle.entries[w.name] = bytes.Clone(w.buf.Bytes())
	return nil
}

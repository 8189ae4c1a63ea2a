package sds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	pb "gopkg.in/cheggaaa/pb.v1"
)

// Extractor copies bundle entries out to the filesystem.
type Extractor struct {
	bundle Bundle
	config *config

	// Progress controls whether a progress bar is drawn on stderr
	Progress bool
}

// NewExtractor creates an Extractor reading from bundle. When bundle is nil
// the bundle is built from the configuration, as OpenBundle does.
func NewExtractor(bundle Bundle, options ...Option) (*Extractor, error) {
	c := buildConfig(options)
	if bundle == nil {
		b, err := openBundle(c)
		if err != nil {
			return nil, err
		}
		bundle = b
	}
	log.Debugf("Loaded config: %#v", c)

	return &Extractor{
		bundle:   bundle,
		config:   c,
		Progress: true,
	}, nil
}

// Bundle returns the bundle entries are extracted from
func (e *Extractor) Bundle() Bundle {
	return e.bundle
}

// Extract writes each named entry to outDir, keeping the entry's relative
// path. Entries are extracted concurrently; every failure is reported in
// the returned error.
func (e *Extractor) Extract(ctx context.Context, names []string, outDir string) error {
	if len(names) == 0 {
		log.Warn("No entries to extract")
		return nil
	}

	bar := pb.New(len(names)).Prefix("Extract")
	bar.Output = os.Stderr
	bar.NotPrint = !e.Progress
	bar.Start()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	sem := semaphore.NewWeighted(int64(e.config.MaxConcurrency))
	for _, name := range names {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer sem.Release(1)
			defer bar.Increment()
			if err := e.extractEntry(name, outDir); err != nil {
				log.Errorf("Error when extracting %s: %s", name, err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(name)
	}
	wg.Wait()
	bar.Finish()

	return errors.Join(errs...)
}

func (e *Extractor) extractEntry(name, outDir string) error {
	in := OpenStream(e.bundle, name, ReadOnly, true)
	if !in.IsOpen() {
		return &fs.PathError{Op: "extract", Path: name, Err: fs.ErrNotExist}
	}
	defer in.Close()

	target := filepath.Join(outDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("extract %s: %w", name, err)
	}

	out := OpenStream(nil, target, WriteTruncate, false)
	if !out.IsOpen() {
		return fmt.Errorf("extract %s: cannot create %s", name, target)
	}
	if _, err := io.Copy(out.ReadWriteSeeker(), in.ReadWriteSeeker()); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", name, err)
	}
	if err := out.Fsync(true); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", name, err)
	}
	return out.Close()
}

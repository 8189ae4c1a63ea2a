//go:build !linux

package sds

import "os"

func fdatasync(f *os.File) error {
	return f.Sync()
}

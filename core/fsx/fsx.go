// Package fsx holds the file-system primitives working files are built
// on. Writes are atomic: a reader never observes a partially written
// working copy.
package fsx

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// WriteFileAtomic writes content to path through a sibling temp file and
// rename, syncing both the file and its parent directory.
func WriteFileAtomic(path string, content []byte, mode os.FileMode) error {
	parent := filepath.Dir(path)
	base := filepath.Base(path)

	staging, err := os.CreateTemp(parent, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}
	stagingPath := staging.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(stagingPath)
		}
	}()

	if err := writeAndClose(staging, content, mode); err != nil {
		return err
	}
	if err := os.Rename(stagingPath, path); err != nil {
		// Windows refuses to rename over an existing destination.
		if runtime.GOOS != "windows" {
			return fmt.Errorf("rename staging file: %w", err)
		}
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("remove destination before rename: %w", removeErr)
		}
		if renameErr := os.Rename(stagingPath, path); renameErr != nil {
			return fmt.Errorf("rename staging file after remove: %w", renameErr)
		}
	}
	committed = true

	// #nosec G304 -- parent is derived from the caller-provided destination.
	if dirHandle, err := os.Open(parent); err == nil {
		_ = dirHandle.Sync()
		_ = dirHandle.Close()
	}
	return nil
}

func writeAndClose(staging *os.File, content []byte, mode os.FileMode) error {
	if _, err := staging.Write(content); err != nil {
		_ = staging.Close()
		return fmt.Errorf("write staging file: %w", err)
	}
	if err := staging.Sync(); err != nil {
		_ = staging.Close()
		return fmt.Errorf("sync staging file: %w", err)
	}
	if err := staging.Chmod(mode); err != nil {
		_ = staging.Close()
		return fmt.Errorf("chmod staging file: %w", err)
	}
	if err := staging.Close(); err != nil {
		return fmt.Errorf("close staging file: %w", err)
	}
	return nil
}

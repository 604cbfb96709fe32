// SPDX-License-Identifier: MIT

package image

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const stagingDirMode = 0o755

// CopyIfNewer copies source to destination unless destination already exists
// and is at least as fresh as source. It reports whether a copy took place.
//
// Missing ancestor directories of destination are created. The copy is
// written to a temporary file next to destination and renamed into place, so
// an interrupted copy never leaves a truncated destination behind.
func CopyIfNewer(source, destination string) (bool, error) {
	srcStat, err := os.Stat(source)
	if errors.Is(err, fs.ErrNotExist) {
		return false, &MissingArtifactError{Path: source}
	}

	if err != nil {
		return false, fmt.Errorf("stat source: %w", err)
	}

	dstStat, err := os.Stat(destination)
	if err == nil && !srcStat.ModTime().After(dstStat.ModTime()) {
		return false, nil
	}

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat destination: %w", err)
	}

	if err := copyFile(source, destination, srcStat.Mode()); err != nil {
		return false, err
	}

	return true, nil
}

func copyFile(source, destination string, mode fs.FileMode) error {
	src, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dir := filepath.Dir(destination)
	if err := os.MkdirAll(dir, stagingDirMode); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".bootrun-stage-*")
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}

	_, err = io.Copy(tmp, src)
	if err == nil {
		err = tmp.Chmod(mode.Perm())
	}

	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err == nil {
		err = os.Rename(tmp.Name(), destination)
	}

	if err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("stage %s: %w", destination, err)
	}

	return nil
}

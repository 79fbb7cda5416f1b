package ioutils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// TempSuffix marks files that are still being written.
const TempSuffix = ".part"

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// TempPath returns a unique temporary sibling of path,
// e.g. "aurora.mp3" -> "aurora.mp3.<uuid>.part".
func TempPath(path string) string {
	return path + "." + uuid.NewString() + TempSuffix
}

// IsTemp reports whether name is a temporary file created by TempPath, or a
// sibling derived from one such as the "<tmp>-id3v2" file id3v2 saves through.
func IsTemp(name string) bool {
	return strings.HasSuffix(name, TempSuffix) || strings.Contains(name, TempSuffix+"-")
}

// WriteFileAtomic writes data to a temporary file next to path, calls
// prepare on it (if non-nil), syncs it and renames it onto path.
//
// On any error, or if ctx is cancelled before the rename, the temporary
// file is removed and path is left untouched.
func WriteFileAtomic(ctx context.Context, path string, data []byte, prepare func(tmpPath string) error) (err error) {
	tmp := TempPath(path)

	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err = f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if prepare != nil {
		if err = prepare(tmp); err != nil {
			return fmt.Errorf("prepare temp file: %w", err)
		}
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// RemoveTemps deletes leftover temporary files in dir and returns how many
// were removed.
func RemoveTemps(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !IsTemp(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

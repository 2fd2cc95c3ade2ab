// Package fsutil holds the file safety primitives used when gorblint rewrites
// Ruby sources: hashed reads, concurrent modification checks, sidecar
// backups, and atomic writes.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrNilFileInfo is returned when a nil FileInfo is passed.
	ErrNilFileInfo = errors.New("nil FileInfo")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// FileInfo records what a source file looked like when it was read.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64

	// Hash is the SHA-256 of the content that was read.
	Hash [32]byte
}

func (fi *FileInfo) sameStat(stat os.FileInfo) bool {
	return stat.ModTime().Equal(fi.ModTime) && stat.Size() == fi.Size
}

// ReadFile reads a source file together with the FileInfo needed to detect
// later modification.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

// CheckModified reports whether the file changed since info was captured.
// A changed stat is enough; otherwise the content is re-hashed. A deleted
// file counts as modified.
func CheckModified(ctx context.Context, info *FileInfo) (bool, error) {
	stat, changed, err := statChanged(ctx, info)
	if err != nil || changed || stat == nil {
		return changed, err
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}
	return sha256.Sum256(content) != info.Hash, nil
}

// CheckModifiedQuick compares only modification time and size.
func CheckModifiedQuick(ctx context.Context, info *FileInfo) (bool, error) {
	_, changed, err := statChanged(ctx, info)
	return changed, err
}

func statChanged(ctx context.Context, info *FileInfo) (os.FileInfo, bool, error) {
	if info == nil {
		return nil, false, ErrNilFileInfo
	}
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("check modified: %w", err)
	}

	stat, err := os.Stat(info.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("stat %s: %w", info.Path, err)
	}
	return stat, !info.sameStat(stat), nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}

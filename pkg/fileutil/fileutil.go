package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/distcrawl/distcrawl/pkg/failure"
)

// GetFileExtension extracts the file extension from a path, or empty string if none
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	// Remove the leading dot
	return strings.TrimPrefix(ext, ".")
}

// EnsureDir check if a given directory plus the following path exist, then create one if not
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)

	assetsDir := filepath.Join(targetPath...)
	if err := os.MkdirAll(assetsDir, 0755); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
		}
	}
	return nil
}

// AtomicWriteFile writes data to path by writing to a sibling temp file
// and renaming over the destination, so concurrent readers never observe
// a partially written file. Used by the coordinator's metrics snapshot
// and the artifact store's local fallback.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) failure.ClassifiedError {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return classifyWriteErr(err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return classifyWriteErr(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return classifyWriteErr(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return classifyWriteErr(err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return classifyWriteErr(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return classifyWriteErr(err)
	}
	return nil
}

func classifyWriteErr(err error) *FileError {
	if os.IsNotExist(err) || isDiskFull(err) {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: isDiskFull(err),
			Cause:     ErrCauseDiskFull,
		}
	}
	return &FileError{
		Message:   fmt.Sprintf("%v", err),
		Retryable: false,
		Cause:     ErrCausePathError,
	}
}

func isDiskFull(err error) bool {
	return errors.Is(err, syscall.ENOSPC)
}

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir and its parents. A regular file already sitting at
// dir is reported instead of being silently reused.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("destination %s exists and is not a directory", dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// BaseName strips the directory and extension from path.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath places src's base name in destDir. An empty ext keeps the
// source extension.
func OutputPath(destDir, src, ext string) string {
	if ext == "" {
		ext = filepath.Ext(src)
	}
	return filepath.Join(destDir, BaseName(src)+ext)
}

package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/facette/natsort"

	"github.com/kpauljoseph/convtools/pkg/logger"
)

type DirectoryScanner struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *DirectoryScanner {
	return &DirectoryScanner{
		logger: logger,
	}
}

// FindFiles resolves source to the files a tool should process. A file is
// returned as is. A directory yields its direct regular-file entries whose
// extension is in exts (any extension when exts is empty), in natural order.
func (s *DirectoryScanner) FindFiles(ctx context.Context, source string, exts ...string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("source file or dir does not exist: %s", source)
		}
		return nil, fmt.Errorf("error accessing path %s: %w", source, err)
	}

	if !info.IsDir() {
		return []string{source}, nil
	}

	s.logger.Debug("Scanning directory: %s", source)
	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", source, err)
	}

	var files []string
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !entry.Type().IsRegular() {
			continue
		}
		if !matchesExt(entry.Name(), exts) {
			s.logger.Trace("Skipping %s", entry.Name())
			continue
		}
		files = append(files, filepath.Join(source, entry.Name()))
	}

	sort.SliceStable(files, func(i, j int) bool {
		return natsort.Compare(files[i], files[j])
	})

	s.logger.Debug("Found %d files in %s", len(files), source)
	return files, nil
}

func matchesExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

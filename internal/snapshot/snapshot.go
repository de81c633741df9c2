// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/csilog/csilog/internal/log"
)

// ErrNotEnoughSnapshots is returned when a root directory holds fewer than
// two candidate exports to compare.
var ErrNotEnoughSnapshots = errors.New("need at least two snapshot exports")

// DefaultExtensions are the export file extensions scanned when the
// extensions config value is unset.
var DefaultExtensions = []string{".$et", ".e2k", ".et", ".txt"}

// FileInfo is one candidate export file.
type FileInfo struct {
	Path    string
	Name    string
	ModTime time.Time
}

// List enumerates the root directory's export files, newest first with a
// filename-descending tie-break. Persisted report artifacts
// (*_summary.txt, *_stats.json) are never candidates.
func List(dir string, exts []string) ([]FileInfo, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot dir: %w", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, "_summary.txt") || strings.HasSuffix(name, "_stats.json") {
			continue
		}
		if !matchesExt(name, exts) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			log.Warnf("skipping %s: %v", name, err)
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Name > files[j].Name
	})

	log.Debugf("found %d snapshot files in %s", len(files), dir)

	return files, nil
}

// FindLatestPair returns the two most recently modified exports in dir: the
// newest as compared, the next as base.
func FindLatestPair(dir string, exts []string) (base, compared FileInfo, err error) {
	files, err := List(dir, exts)
	if err != nil {
		return FileInfo{}, FileInfo{}, err
	}
	if len(files) < 2 {
		return FileInfo{}, FileInfo{}, fmt.Errorf("%w in %s (found %d)", ErrNotEnoughSnapshots, dir, len(files))
	}
	return files[1], files[0], nil
}

// Load reads one export into memory, stripping a UTF-8 BOM if present. The
// returned name is the file's base name without its extension.
func Load(path string) (name, text string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read snapshot: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	base := filepath.Base(path)
	name = strings.TrimSuffix(base, filepath.Ext(base))

	return name, string(raw), nil
}

func matchesExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

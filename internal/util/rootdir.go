// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
)

// SummaryDirName is the subdirectory of a model root where persisted diff
// reports live.
const SummaryDirName = "Summary"

// ParseRootDir resolves a root directory spec to an absolute directory. It
// returns an error if the fs entry does not exist, is empty or is not a
// directory.
func ParseRootDir(rootDir string) (string, error) {

	if rootDir == "" {
		return "", os.ErrInvalid
	}

	// If the spec is relative, anchor it to the current working directory.
	dir := rootDir
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cwd, dir)
	}

	// If the rootDir is not a directory, return an error.
	if r, err := os.Stat(dir); err != nil {
		return "", err
	} else if !r.IsDir() {
		return "", os.ErrInvalid
	}

	return dir, nil
}

// SummaryDir returns the path of the Summary subdirectory beneath root. The
// directory is not required to exist; callers decide whether absence is an
// error (history) or a cue to create it (store).
func SummaryDir(root string) string {
	return filepath.Join(root, SummaryDirName)
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/csilog/csilog/internal/log"
	"github.com/csilog/csilog/internal/report"
	"github.com/csilog/csilog/internal/util"
)

// EnsureSummaryDir creates the root's Summary directory if needed and
// returns its path.
func EnsureSummaryDir(root string) (string, error) {
	dir := util.SummaryDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create summary dir: %w", err)
	}
	return dir, nil
}

// Write persists the report as <compared>_summary.txt plus its machine
// counters as <compared>_stats.json, returning both paths.
func Write(root string, r *report.Report) (summaryPath, statsPath string, err error) {
	dir, err := EnsureSummaryDir(root)
	if err != nil {
		return "", "", err
	}

	summaryPath = filepath.Join(dir, r.ComparedModel+"_summary.txt")
	if err := os.WriteFile(summaryPath, []byte(r.Markdown()), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write summary: %w", err)
	}

	stats, err := json.MarshalIndent(r.MachineSummary, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal stats: %w", err)
	}
	statsPath = filepath.Join(dir, r.ComparedModel+"_stats.json")
	if err := os.WriteFile(statsPath, append(stats, '\n'), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write stats: %w", err)
	}

	log.Infof("wrote %s", summaryPath)

	return summaryPath, statsPath, nil
}

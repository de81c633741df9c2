// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/csilog/csilog/internal/differ"
	"github.com/csilog/csilog/internal/history"
	"github.com/csilog/csilog/internal/parser"
	"github.com/csilog/csilog/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderSample(t *testing.T) *report.Report {
	t.Helper()
	base := parser.Parse("TowerV2", "$ LINE ASSIGNS\nLINEASSIGN \"B1\" \"L3\" SECTION \"ConcBm\"\n")
	compared := parser.Parse("TowerV3", "$ LINE ASSIGNS\nLINEASSIGN \"B1\" \"L3\" SECTION \"W27X84\"\n")
	return report.Render(differ.Diff(base, compared))
}

func TestWrite(t *testing.T) {
	root := t.TempDir()

	summaryPath, statsPath, err := Write(root, renderSample(t))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "Summary", "TowerV3_summary.txt"), summaryPath)
	assert.Equal(t, filepath.Join(root, "Summary", "TowerV3_stats.json"), statsPath)

	md, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Compared Model: TowerV3")

	stats, err := os.ReadFile(statsPath)
	require.NoError(t, err)
	assert.Contains(t, string(stats), `"sections_modified": 1`)
}

func TestWriteThenAggregate(t *testing.T) {
	root := t.TempDir()

	_, _, err := Write(root, renderSample(t))
	require.NoError(t, err)

	entries, diags, err := history.Aggregate(root)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, entries, 1)
	assert.Equal(t, "TowerV3", entries[0].ComparedModel)
	assert.True(t, entries[0].IsCurrent)
	assert.Equal(t, 1, entries[0].Stats["sections_modified"])
}

func TestEnsureSummaryDirIdempotent(t *testing.T) {
	root := t.TempDir()

	dir, err := EnsureSummaryDir(root)
	require.NoError(t, err)
	again, err := EnsureSummaryDir(root)
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/csilog/csilog/internal/differ"
	"github.com/csilog/csilog/internal/model"
	"github.com/csilog/csilog/internal/parser"
	"github.com/csilog/csilog/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReport(t *testing.T, root, name, content string, mtime time.Time) {
	t.Helper()
	dir := filepath.Join(root, "Summary")
	require.NoError(t, os.MkdirAll(dir, 0700))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

const wellFormed = `## Compared Model: TowerV3
## Base Model: TowerV2

## Key Changes (high-level)
- Line assignments: "B1/L3" SECTION "ConcBm" -> "W27X84"

### Detailed Changes

#### Line assignments
- Modified B1/L3
  - SECTION: "ConcBm" -> "W27X84"

## Machine Summary
` + "```json\n" + `{
  "materials_added": 0,
  "sections_modified": 1,
  "loads_removed": 0
}
` + "```\n"

func TestAggregate(t *testing.T) {
	root := t.TempDir()
	writeReport(t, root, "TowerV3_summary.txt", wellFormed, time.Now())

	entries, diags, err := Aggregate(root)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, entries, 1)

	ve := entries[0]
	assert.Equal(t, "TowerV3_summary.txt", ve.VersionFileName)
	assert.Equal(t, "TowerV3", ve.ComparedModel)
	assert.Equal(t, "TowerV2", ve.ComparedAgainst)
	assert.True(t, ve.IsCurrent)
	assert.Contains(t, ve.HighLevelSummary, `SECTION "ConcBm" -> "W27X84"`)
	assert.Contains(t, ve.FullDetails, "#### Line assignments")
	assert.Equal(t, 1, ve.Stats["sections_modified"])
	assert.Equal(t, 0, ve.Stats["materials_added"])
}

func TestAggregateRoundTripsRenderedReport(t *testing.T) {
	base := parser.Parse("TowerV2", "$ LINE ASSIGNS\nLINEASSIGN \"B1\" \"L3\" SECTION \"ConcBm\"\n")
	compared := parser.Parse("TowerV3", "$ LINE ASSIGNS\nLINEASSIGN \"B1\" \"L3\" SECTION \"W27X84\"\n")
	md := report.Render(differ.Diff(base, compared)).Markdown()

	root := t.TempDir()
	writeReport(t, root, "TowerV3_summary.txt", md, time.Now())

	entries, diags, err := Aggregate(root)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, entries, 1)
	assert.Equal(t, "TowerV3", entries[0].ComparedModel)
	assert.Equal(t, "TowerV2", entries[0].ComparedAgainst)
	assert.Equal(t, 1, entries[0].Stats["sections_modified"])
	assert.NotEmpty(t, entries[0].HighLevelSummary)
	assert.NotEmpty(t, entries[0].FullDetails)
}

func TestAggregateOrdersNewestFirst(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	writeReport(t, root, "V1_summary.txt", wellFormed, now.Add(-2*time.Hour))
	writeReport(t, root, "V2_summary.txt", wellFormed, now.Add(-1*time.Hour))
	writeReport(t, root, "V3_summary.txt", wellFormed, now)

	entries, _, err := Aggregate(root)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "V3_summary.txt", entries[0].VersionFileName)
	assert.Equal(t, "V2_summary.txt", entries[1].VersionFileName)
	assert.Equal(t, "V1_summary.txt", entries[2].VersionFileName)

	var currents int
	for _, e := range entries {
		if e.IsCurrent {
			currents++
		}
	}
	assert.Equal(t, 1, currents)
	assert.True(t, entries[0].IsCurrent)
}

func TestAggregateTieBreaksByFilenameDescending(t *testing.T) {
	root := t.TempDir()
	stamp := time.Now().Truncate(time.Second)
	writeReport(t, root, "ModelA_summary.txt", wellFormed, stamp)
	writeReport(t, root, "ModelB_summary.txt", wellFormed, stamp)

	entries, _, err := Aggregate(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ModelB_summary.txt", entries[0].VersionFileName)
	assert.True(t, entries[0].IsCurrent)
	assert.False(t, entries[1].IsCurrent)
}

func TestAggregateRejectsMalformedReports(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	writeReport(t, root, "good_summary.txt", wellFormed, now)
	writeReport(t, root, "junk_summary.txt", "not a report at all\n", now)
	writeReport(t, root, "nameless_summary.txt", "## Compared Model:\n## Key Changes (high-level)\n", now)

	entries, diags, err := Aggregate(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "good_summary.txt", entries[0].VersionFileName)

	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, model.ReportMetadataError, d.Code)
	}
}

func TestAggregateIgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	writeReport(t, root, "V1_summary.txt", wellFormed, time.Now())
	writeReport(t, root, "V1_stats.json", `{"sections_modified": 1}`, time.Now())
	writeReport(t, root, "readme.md", "notes", time.Now())

	entries, diags, err := Aggregate(root)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Len(t, entries, 1)
}

func TestAggregateMissingDetailsMarkerStillAccepted(t *testing.T) {
	root := t.TempDir()
	writeReport(t, root, "V1_summary.txt",
		"## Compared Model: V1\n## Base Model: V0\n## Key Changes (high-level)\n- Stories: added \"L9\"\n", time.Now())

	entries, _, err := Aggregate(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].FullDetails)
	assert.Contains(t, entries[0].HighLevelSummary, `added "L9"`)
}

func TestAggregateEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Summary"), 0700))

	entries, diags, err := Aggregate(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, diags)
}

func TestAggregateMissingSummaryDir(t *testing.T) {
	_, _, err := Aggregate(t.TempDir())
	assert.ErrorIs(t, err, ErrNoSummaryDir)
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/csilog/csilog/internal/differ"
	"github.com/csilog/csilog/internal/model"
	"github.com/csilog/csilog/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSectionReassignment(t *testing.T) {
	base := parser.Parse("TowerV2", "$ LINE ASSIGNS\nLINEASSIGN \"B1\" \"L3\" SECTION \"ConcBm\"\n")
	compared := parser.Parse("TowerV3", "$ LINE ASSIGNS\nLINEASSIGN \"B1\" \"L3\" SECTION \"W27X84\"\n")

	r := Render(differ.Diff(base, compared))

	assert.Equal(t, "TowerV3", r.ComparedModel)
	assert.Equal(t, "TowerV2", r.BaseModel)

	assert.Equal(t, 1, r.MachineSummary["sections_modified"])
	for key, count := range r.MachineSummary {
		if key != "sections_modified" {
			assert.Zero(t, count, key)
		}
	}

	require.Len(t, r.HighLevel, 1)
	assert.Contains(t, r.HighLevel[0], `"B1/L3"`)
	assert.Contains(t, r.HighLevel[0], `"ConcBm" -> "W27X84"`)
}

func TestRenderAddedAreasMentionAllLabels(t *testing.T) {
	base := parser.Parse("V1", "$ AREA ASSIGNS\nAREAASSIGN \"F1\" \"L1\" SECTION \"Slab8\"\n")
	compared := parser.Parse("V2", `$ AREA ASSIGNS
AREAASSIGN "F1" "L1" SECTION "Slab8"
AREAASSIGN "F2" "L1" SECTION "Slab8"
AREAASSIGN "F3" "L2" SECTION "Slab8"
AREAASSIGN "F4" "L2" SECTION "Slab8"
AREAASSIGN "F5" "L3" SECTION "Slab8"
`)

	r := Render(differ.Diff(base, compared))

	assert.Equal(t, 4, r.MachineSummary["sections_added"])
	require.Len(t, r.HighLevel, 1)
	for _, label := range []string{"F2/L1", "F3/L2", "F4/L2", "F5/L3"} {
		assert.Contains(t, r.HighLevel[0], label)
	}
}

func TestRenderCapsHighLevelLabels(t *testing.T) {
	var b strings.Builder
	b.WriteString("$ POINT COORDINATES\n")
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "POINT \"%02d\" %d 0\n", i, i)
	}

	base := parser.Parse("V1", "$ POINT COORDINATES\n")
	compared := parser.Parse("V2", b.String())

	r := Render(differ.Diff(base, compared))

	require.Len(t, r.HighLevel, 1)
	assert.Contains(t, r.HighLevel[0], "and 4 more")
}

func TestRenderInformationalNotCounted(t *testing.T) {
	base := parser.Parse("V1", "$ File saved 1/1/2026 08:00:00\n$ PROGRAM INFORMATION\nPROGRAM \"ETABS\" VERSION \"21.0.0\"\n")
	compared := parser.Parse("V2", "$ File saved 2/2/2026 09:00:00\n$ PROGRAM INFORMATION\nPROGRAM \"ETABS\" VERSION \"21.2.0\"\n")

	r := Render(differ.Diff(base, compared))

	for key, count := range r.MachineSummary {
		assert.Zero(t, count, key)
	}
	// Still reported for humans.
	assert.NotEmpty(t, r.HighLevel)
}

func TestMarkdownLayout(t *testing.T) {
	base := parser.Parse("TowerV2", "$ LINE ASSIGNS\nLINEASSIGN \"B1\" \"L3\" SECTION \"ConcBm\"\n")
	compared := parser.Parse("TowerV3", "$ LINE ASSIGNS\nLINEASSIGN \"B1\" \"L3\" SECTION \"W27X84\"\n")

	md := Render(differ.Diff(base, compared)).Markdown()

	for _, marker := range []string{
		"## Compared Model: TowerV3",
		"## Base Model: TowerV2",
		"## Key Changes (high-level)",
		"### Detailed Changes",
		"#### Line assignments",
		`- SECTION: "ConcBm" -> "W27X84"`,
		"## Machine Summary",
		"```json",
		`"sections_modified": 1,`,
		`"loads_removed": 0`,
	} {
		assert.Contains(t, md, marker)
	}

	// The fence closes and nothing trails it.
	assert.True(t, strings.HasSuffix(md, "```\n"), "machine block must end the report")
}

func TestMarkdownAbsentMarker(t *testing.T) {
	base := parser.Parse("V1", "$ LINE ASSIGNS\nLINEASSIGN \"B1\" \"L3\" SECTION \"W27X84\"\n")
	compared := parser.Parse("V2", "$ LINE ASSIGNS\nLINEASSIGN \"B1\" \"L3\" SECTION \"W27X84\" RELEASE \"PINNED\"\n")

	md := Render(differ.Diff(base, compared)).Markdown()

	assert.Contains(t, md, `- RELEASE: <absent> -> "PINNED"`)
}

func TestMarkdownRawSectionLineDiff(t *testing.T) {
	base := parser.Parse("V1", "$ MYSTERY TABLE\nROW \"a\" 1\nROW \"b\" 2\n")
	compared := parser.Parse("V2", "$ MYSTERY TABLE\nROW \"a\" 1\nROW \"b\" 3\n")

	md := Render(differ.Diff(base, compared)).Markdown()

	assert.Contains(t, md, "#### Other sections")
	assert.Contains(t, md, `- ROW "b" 2`)
	assert.Contains(t, md, `+ ROW "b" 3`)
}

func TestMarkdownNoChanges(t *testing.T) {
	snap := parser.Parse("V1", "$ STORIES\nSTORY \"L1\"\n")

	md := Render(differ.Diff(snap, snap)).Markdown()

	assert.Contains(t, md, "- No substantive changes detected.")
	assert.Contains(t, md, `"materials_added": 0`)
}

func TestRenderCountsPerCategory(t *testing.T) {
	base := parser.Parse("V1", `$ MATERIAL PROPERTIES
MATERIAL "CONC4000" FC 4000
$ LOAD PATTERNS
LOADPATTERN "DEAD" TYPE "Dead" SELFWEIGHT 1
LOADPATTERN "WIND" TYPE "Wind" SELFWEIGHT 0
`)
	compared := parser.Parse("V2", `$ MATERIAL PROPERTIES
MATERIAL "CONC4000" FC 5000
MATERIAL "A992Fy50" FY 50000
$ LOAD PATTERNS
LOADPATTERN "DEAD" TYPE "Dead" SELFWEIGHT 1
`)

	r := Render(differ.Diff(base, compared))

	assert.Equal(t, 1, r.MachineSummary["materials_added"])
	assert.Equal(t, 1, r.MachineSummary["materials_modified"])
	assert.Equal(t, 0, r.MachineSummary["materials_removed"])
	assert.Equal(t, 1, r.MachineSummary["loads_removed"])
	assert.Equal(t, 0, r.MachineSummary["sections_modified"])
}

func TestGroupChangedPreservesOrder(t *testing.T) {
	cs := &model.ChangeSet{
		Records: []model.ChangeRecord{
			{Kind: model.Material, Key: model.MakeKey("A"), Type: model.Added},
			{Kind: model.Material, Key: model.MakeKey("B"), Type: model.Unchanged},
			{Kind: model.FrameSection, Key: model.MakeKey("C"), Type: model.Removed},
		},
	}

	groups := groupChanged(cs)

	require.Len(t, groups, 2)
	assert.Equal(t, model.Material, groups[0].Kind)
	require.Len(t, groups[0].Records, 1)
	assert.Equal(t, model.FrameSection, groups[1].Kind)
}

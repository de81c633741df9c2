// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/csilog/csilog/internal/model"
)

// AbsentMarker is the literal used in rendered deltas for a field present
// on only one side.
const AbsentMarker = "<absent>"

// highLevelLabelCap bounds how many identities one high-level bullet
// names before eliding the rest.
const highLevelLabelCap = 8

// KindGroup is the detailed breakdown of one kind's non-Unchanged records.
type KindGroup struct {
	Kind    model.Kind
	Records []model.ChangeRecord
}

// Report is the rendered artifact for one change-set. Rendering is pure;
// persistence belongs to the store package.
type Report struct {
	ComparedModel  string
	BaseModel      string
	HighLevel      []string
	Detailed       []KindGroup
	MachineSummary map[string]int
}

// machineCategories maps counted kinds to their counter category.
// Assignment-level changes count toward sections: a member whose section
// reference changed is a section change to the engineer reading the
// summary.
var machineCategories = map[model.Kind]string{
	model.Material:       "materials",
	model.FrameSection:   "sections",
	model.ShellProperty:  "sections",
	model.LineAssignment: "sections",
	model.AreaAssignment: "sections",
	model.LoadPattern:    "loads",
	model.LoadCase:       "loads",
	model.LoadCombo:      "loads",
}

// categoryOrder fixes the machine block's key order.
var categoryOrder = []string{"materials", "sections", "loads"}

// Render turns a change-set into a Report. Informational kinds appear in
// the high-level and detailed sections but never in the machine counters.
func Render(cs *model.ChangeSet) *Report {
	r := &Report{
		ComparedModel:  cs.ComparedModel,
		BaseModel:      cs.BaseModel,
		MachineSummary: emptyCounters(),
	}

	for _, group := range groupChanged(cs) {
		r.Detailed = append(r.Detailed, group)
		r.HighLevel = append(r.HighLevel, highLevelBullet(group))

		if group.Kind.Informational() {
			continue
		}
		category, counted := machineCategories[group.Kind]
		if !counted {
			continue
		}
		for _, rec := range group.Records {
			switch rec.Type {
			case model.Added:
				r.MachineSummary[category+"_added"]++
			case model.Removed:
				r.MachineSummary[category+"_removed"]++
			case model.Modified:
				r.MachineSummary[category+"_modified"]++
			}
		}
	}

	return r
}

// Markdown serializes the report into the persisted format consumed by the
// history aggregator.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Compared Model: %s\n", r.ComparedModel)
	fmt.Fprintf(&b, "## Base Model: %s\n\n", r.BaseModel)

	b.WriteString("## Key Changes (high-level)\n")
	if len(r.HighLevel) == 0 {
		b.WriteString("- No substantive changes detected.\n")
	}
	for _, bullet := range r.HighLevel {
		fmt.Fprintf(&b, "- %s\n", bullet)
	}
	b.WriteString("\n### Detailed Changes\n")

	for _, group := range r.Detailed {
		fmt.Fprintf(&b, "\n#### %s\n", kindLabel(group.Kind))
		for _, rec := range group.Records {
			fmt.Fprintf(&b, "- %s %s\n", rec.Type, rec.Key.Display())
			for _, field := range rec.DeltaFields() {
				d := rec.FieldDeltas[field]
				if group.Kind == model.RawSection && field == "TEXT" {
					writeLineDiff(&b, d)
					continue
				}
				fmt.Fprintf(&b, "  - %s: %s -> %s\n", field, deltaSide(d.Before, d.BeforeAbsent), deltaSide(d.After, d.AfterAbsent))
			}
		}
	}

	b.WriteString("\n## Machine Summary\n```json\n{\n")
	for i, category := range categoryOrder {
		for j, suffix := range []string{"added", "modified", "removed"} {
			key := category + "_" + suffix
			comma := ","
			if i == len(categoryOrder)-1 && j == 2 {
				comma = ""
			}
			fmt.Fprintf(&b, "  %q: %d%s\n", key, r.MachineSummary[key], comma)
		}
	}
	b.WriteString("}\n```\n")

	return b.String()
}

// groupChanged collects non-Unchanged records per kind, preserving the
// change-set's deterministic order.
func groupChanged(cs *model.ChangeSet) []KindGroup {
	var groups []KindGroup
	for _, rec := range cs.Records {
		if rec.Type == model.Unchanged {
			continue
		}
		if len(groups) == 0 || groups[len(groups)-1].Kind != rec.Kind {
			groups = append(groups, KindGroup{Kind: rec.Kind})
		}
		groups[len(groups)-1].Records = append(groups[len(groups)-1].Records, rec)
	}
	return groups
}

// highLevelBullet phrases one kind's changes as a short factual statement.
// Modified records surface their single most salient field.
func highLevelBullet(group KindGroup) string {
	var added, removed, modified []string
	for _, rec := range group.Records {
		switch rec.Type {
		case model.Added:
			added = append(added, quoteKey(rec.Key))
		case model.Removed:
			removed = append(removed, quoteKey(rec.Key))
		case model.Modified:
			modified = append(modified, modifiedPhrase(rec))
		}
	}

	var parts []string
	if len(added) > 0 {
		parts = append(parts, "added "+joinLabels(added))
	}
	if len(removed) > 0 {
		parts = append(parts, "removed "+joinLabels(removed))
	}
	if len(modified) > 0 {
		parts = append(parts, joinLabels(modified))
	}

	return fmt.Sprintf("%s: %s", kindLabel(group.Kind), strings.Join(parts, "; "))
}

// modifiedPhrase picks the most salient field delta for the high-level
// line: a section/property reference first, otherwise the first field in
// sorted order.
func modifiedPhrase(rec model.ChangeRecord) string {
	fields := rec.DeltaFields()
	salient := fields[0]
	for _, candidate := range []string{"SECTION", "PROPERTY", "MATERIAL", "SHAPE"} {
		if _, ok := rec.FieldDeltas[candidate]; ok {
			salient = candidate
			break
		}
	}
	d := rec.FieldDeltas[salient]
	return fmt.Sprintf("%s %s %s -> %s", quoteKey(rec.Key), salient,
		deltaSide(d.Before, d.BeforeAbsent), deltaSide(d.After, d.AfterAbsent))
}

func joinLabels(labels []string) string {
	if len(labels) > highLevelLabelCap {
		kept := labels[:highLevelLabelCap]
		return fmt.Sprintf("%s and %d more", strings.Join(kept, ", "), len(labels)-highLevelLabelCap)
	}
	return strings.Join(labels, ", ")
}

func quoteKey(key model.Key) string {
	return fmt.Sprintf("%q", key.Display())
}

func deltaSide(value string, absent bool) string {
	if absent {
		return AbsentMarker
	}
	return fmt.Sprintf("%q", value)
}

// writeLineDiff renders a raw-section TEXT delta as +/- lines.
func writeLineDiff(b *strings.Builder, d model.FieldDelta) {
	dmp := diffmatchpatch.New()
	c1, c2, lines := dmp.DiffLinesToChars(d.Before, d.After)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lines)

	for _, diff := range diffs {
		prefix := " "
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.Split(strings.TrimRight(diff.Text, "\n"), "\n") {
			fmt.Fprintf(b, "  %s %s\n", prefix, line)
		}
	}
}

// kindLabel is the human heading for a kind.
func kindLabel(kind model.Kind) string {
	switch kind {
	case model.Material:
		return "Materials"
	case model.FrameSection:
		return "Frame sections"
	case model.ShellProperty:
		return "Shell properties"
	case model.LoadPattern:
		return "Load patterns"
	case model.LoadCase:
		return "Load cases"
	case model.LoadCombo:
		return "Load combinations"
	case model.Story:
		return "Stories"
	case model.Grid:
		return "Grids"
	case model.Point:
		return "Points"
	case model.LineConnectivity:
		return "Line connectivities"
	case model.AreaConnectivity:
		return "Area connectivities"
	case model.LineAssignment:
		return "Line assignments"
	case model.AreaAssignment:
		return "Area assignments"
	case model.Group:
		return "Groups"
	case model.PierOrSpandrelName:
		return "Pier/spandrel names"
	case model.DesignOverwrite:
		return "Design overwrites"
	case model.Restraint:
		return "Restraints"
	case model.ProgramInfo:
		return "Program information"
	case model.Log:
		return "Save log"
	case model.RawSection:
		return "Other sections"
	}
	return string(kind)
}

func emptyCounters() map[string]int {
	counters := map[string]int{}
	for _, category := range categoryOrder {
		for _, suffix := range []string{"added", "modified", "removed"} {
			counters[category+"_"+suffix] = 0
		}
	}
	return counters
}

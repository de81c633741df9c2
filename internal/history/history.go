// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/csilog/csilog/internal/log"
	"github.com/csilog/csilog/internal/model"
	"github.com/csilog/csilog/internal/util"
)

// ErrNoSummaryDir is returned when the root has no Summary subdirectory.
// Directory-level failure is the only fatal outcome of an aggregate call.
var ErrNoSummaryDir = errors.New("summary directory not found")

// ReportSuffix selects the files the aggregator consumes; everything else
// in the directory is ignored.
const ReportSuffix = "_summary.txt"

// Report markers. Metadata extraction slices the text between them.
const (
	comparedMarker = "## Compared Model:"
	baseMarker     = "## Base Model:"
	keyChangesMark = "## Key Changes"
	detailsMarker  = "### Detailed Changes"
)

// Aggregate scans <root>/Summary for persisted reports and returns the
// reconstructed history, newest first, with IsCurrent set on exactly the
// first entry. Rejected files are skipped with a Diagnostic; one bad
// report never aborts the scan.
func Aggregate(root string) ([]model.VersionEntry, []model.Diagnostic, error) {
	dir := util.SummaryDir(root)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoSummaryDir, dir)
		}
		return nil, nil, fmt.Errorf("failed to read summary dir: %w", err)
	}

	var history []model.VersionEntry
	var diags []model.Diagnostic

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ReportSuffix) {
			continue
		}

		ve, err := readReport(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Warnf("rejected report %s: %v", entry.Name(), err)
			diags = append(diags, model.Diagnostic{
				Code:    model.ReportMetadataError,
				Raw:     entry.Name(),
				Message: err.Error(),
			})
			continue
		}

		info, err := entry.Info()
		if err != nil {
			diags = append(diags, model.Diagnostic{
				Code:    model.ReportMetadataError,
				Raw:     entry.Name(),
				Message: err.Error(),
			})
			continue
		}
		ve.FileTime = info.ModTime()
		ve.VersionFileName = entry.Name()

		history = append(history, ve)
	}

	// Modification time descending; filename descending breaks ties so the
	// current choice is deterministic on coarse-resolution filesystems.
	sort.Slice(history, func(i, j int) bool {
		if !history[i].FileTime.Equal(history[j].FileTime) {
			return history[i].FileTime.After(history[j].FileTime)
		}
		return history[i].VersionFileName > history[j].VersionFileName
	})

	if len(history) > 0 {
		history[0].IsCurrent = true
	}

	log.Debugf("aggregated %d reports from %s (%d rejected)", len(history), dir, len(diags))

	return history, diags, nil
}

// readReport extracts one report's metadata, or fails if the required tag
// markers are missing.
func readReport(path string) (model.VersionEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.VersionEntry{}, fmt.Errorf("failed to read report: %w", err)
	}
	text := string(raw)

	compared := taggedValue(text, comparedMarker)
	if compared == "" {
		return model.VersionEntry{}, fmt.Errorf("missing or empty %q tag", comparedMarker)
	}

	keyIdx := strings.Index(text, keyChangesMark)
	if keyIdx < 0 {
		return model.VersionEntry{}, fmt.Errorf("missing %q section", keyChangesMark)
	}

	ve := model.VersionEntry{
		ComparedModel:   compared,
		ComparedAgainst: taggedValue(text, baseMarker),
		Stats:           machineStats(text),
	}

	// High-level summary is the verbatim text between the Key Changes
	// header line and the Detailed Changes marker (or end of text).
	summary := text[keyIdx:]
	if nl := strings.Index(summary, "\n"); nl >= 0 {
		summary = summary[nl+1:]
	} else {
		summary = ""
	}
	if idx := strings.Index(summary, detailsMarker); idx >= 0 {
		ve.FullDetails = strings.TrimLeft(summary[idx+len(detailsMarker):], " \t\r\n")
		summary = summary[:idx]
	}
	ve.HighLevelSummary = strings.TrimSpace(summary)

	return ve, nil
}

// taggedValue returns the trimmed remainder of the first line starting
// with the marker.
func taggedValue(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}
	rest := text[idx+len(marker):]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest)
}

// machineStats parses the trailing fenced machine-summary block. A missing
// or malformed block yields nil; the entry is still accepted.
func machineStats(text string) map[string]int {
	idx := strings.LastIndex(text, "```json")
	if idx < 0 {
		return nil
	}
	block := text[idx+len("```json"):]
	end := strings.Index(block, "```")
	if end < 0 {
		return nil
	}
	block = block[:end]

	parsed := gjson.Parse(block)
	if !parsed.IsObject() {
		return nil
	}

	stats := map[string]int{}
	parsed.ForEach(func(key, value gjson.Result) bool {
		stats[key.String()] = int(value.Int())
		return true
	})
	return stats
}

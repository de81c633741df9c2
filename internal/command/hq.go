// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/csilog/csilog/internal/history"
	"github.com/csilog/csilog/internal/log"
	"github.com/csilog/csilog/internal/meta"
	"github.com/csilog/csilog/internal/output"
)

func hqCommandBuilder(m meta.Meta) *cli.Command {
	flags := NewGlobalFlags("hq")
	flags = append(flags,
		&cli.BoolFlag{
			Name:        "details",
			Aliases:     []string{"d"},
			Usage:       "include the full detailed-changes text for each version",
			HideDefault: true,
		},
	)

	return &cli.Command{
		Name:      "hq",
		Usage:     "history query - list the version history of a model directory",
		ArgsUsage: "[rootDir]",
		Flags:     flags,
		Metadata:  map[string]interface{}{"meta": m},
		Action:    hqCommandAction,
	}
}

// hqCommandAction aggregates <rootDir>/Summary and presents the ordered
// version timeline, newest first.
func hqCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := cmd.Metadata["meta"].(meta.Meta)
	log.Debugf("Executing action for %v", meta.Args[1:])

	entries, diags, err := history.Aggregate(meta.RootDir)
	if err != nil {
		return err
	}
	for _, d := range diags {
		log.Warnf("%s: %s", d.Raw, d.Message)
	}

	header := fmt.Sprintf("\nVersion history for %s", meta.RootDir)
	if cmd.String("filter") != "" {
		header += " (filtered)"
	}
	header += ":"
	cmd.Metadata["header"] = header

	cols := []output.Column{
		{Key: "fileTime", Title: "TIME", IsTime: true},
		{Key: "file", Title: "FILE"},
		{Key: "model", Title: "MODEL"},
		{Key: "against", Title: "AGAINST"},
		{Key: "current", Title: "CURRENT"},
		{Key: "summary", Title: "SUMMARY"},
	}
	if cmd.Bool("details") {
		cols = append(cols, output.Column{Key: "details", Title: "DETAILS"})
	}
	if cmd.String("output") != "text" {
		cols = append(cols, output.Column{Key: "stats", Title: "STATS"})
	}

	//nolint:prealloc
	var rows []map[string]interface{}
	for _, ve := range entries {
		row := map[string]interface{}{
			"fileTime": ve.FileTime.Format(time.RFC3339),
			"file":     ve.VersionFileName,
			"model":    ve.ComparedModel,
			"against":  ve.ComparedAgainst,
			"current":  ve.IsCurrent,
			"summary":  collapseSummary(ve.HighLevelSummary),
		}
		if cmd.Bool("details") {
			row["details"] = ve.FullDetails
		}
		if ve.Stats != nil {
			row["stats"] = ve.Stats
		}
		rows = append(rows, row)
	}

	jsonData, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	output.SliceDiceSpit(*bytes.NewBuffer(jsonData), cols, cmd, os.Stdout, nil)

	return nil
}

// collapseSummary flattens the multi-line high-level summary into one
// table-friendly line.
func collapseSummary(summary string) string {
	collapsed := strings.Join(strings.Fields(summary), " ")
	const max = 96
	if len(collapsed) > max {
		return collapsed[:max-3] + "..."
	}
	return collapsed
}

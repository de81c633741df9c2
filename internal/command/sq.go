// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/csilog/csilog/internal/log"
	"github.com/csilog/csilog/internal/meta"
	"github.com/csilog/csilog/internal/model"
	"github.com/csilog/csilog/internal/output"
	"github.com/csilog/csilog/internal/parser"
	"github.com/csilog/csilog/internal/snapshot"
)

var sqColumns = []output.Column{
	{Key: "kind", Title: "KIND"},
	{Key: "key", Title: "KEY"},
	{Key: "attrs", Title: "ATTRS"},
}

var sqWarningColumns = []output.Column{
	{Key: "code", Title: "CODE"},
	{Key: "line", Title: "LINE"},
	{Key: "message", Title: "MESSAGE"},
	{Key: "raw", Title: "RAW"},
}

func sqCommandBuilder(m meta.Meta) *cli.Command {
	flags := NewGlobalFlags("sq")
	flags = append(flags,
		&cli.StringFlag{
			Name:    "kind",
			Aliases: []string{"k"},
			Usage:   "limit results to one entity kind",
			Validator: func(value string) error {
				return FlagValidators(value, KindValidator)
			},
		},
		&cli.BoolFlag{
			Name:        "warnings",
			Usage:       "show parse diagnostics instead of entities",
			HideDefault: true,
		},
	)

	return &cli.Command{
		Name:      "sq",
		Usage:     "snapshot query - inspect the entities of one export",
		ArgsUsage: "<snapshotFile>",
		Flags:     flags,
		Metadata:  map[string]interface{}{"meta": m},
		Action:    sqCommandAction,
	}
}

// sqCommandAction parses a single export and lists its normalized entities
// (or, with --warnings, the diagnostics collected while parsing it).
func sqCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := cmd.Metadata["meta"].(meta.Meta)
	log.Debugf("Executing action for %v", meta.Args[1:])

	file := cmd.Args().First()
	if file == "" {
		return fmt.Errorf("snapshot file required")
	}

	name, text, err := snapshot.Load(file)
	if err != nil {
		return err
	}
	snap := parser.Parse(name, text)

	header := fmt.Sprintf("\nSnapshot %s (%d entities", name, snap.Len())
	if len(snap.Diagnostics) > 0 {
		header += fmt.Sprintf(", %d warnings", len(snap.Diagnostics))
	}
	header += "):"
	cmd.Metadata["header"] = header

	if cmd.Bool("warnings") {
		return spitRows(cmd, sqWarningColumns, warningRows(snap))
	}

	return spitRows(cmd, sqColumns, entityRows(snap, model.Kind(cmd.String("kind"))))
}

func entityRows(snap *model.Snapshot, only model.Kind) []map[string]interface{} {
	//nolint:prealloc
	var rows []map[string]interface{}
	for _, kind := range snap.Kinds() {
		if only != "" && kind != only {
			continue
		}
		for _, key := range snap.SortedKeys(kind) {
			e, _ := snap.Get(kind, key)
			rows = append(rows, map[string]interface{}{
				"kind":  string(kind),
				"key":   key.Display(),
				"attrs": e.Attrs,
			})
		}
	}
	return rows
}

func warningRows(snap *model.Snapshot) []map[string]interface{} {
	//nolint:prealloc
	var rows []map[string]interface{}
	for _, d := range snap.Diagnostics {
		rows = append(rows, map[string]interface{}{
			"code":    string(d.Code),
			"line":    d.Line,
			"message": d.Message,
			"raw":     d.Raw,
		})
	}
	return rows
}

func spitRows(cmd *cli.Command, cols []output.Column, rows []map[string]interface{}) error {
	jsonData, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	output.SliceDiceSpit(*bytes.NewBuffer(jsonData), cols, cmd, os.Stdout, nil)
	return nil
}

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

	"github.com/urfave/cli/v3"

	"github.com/csilog/csilog/internal/config"
	"github.com/csilog/csilog/internal/differ"
	"github.com/csilog/csilog/internal/log"
	"github.com/csilog/csilog/internal/meta"
	"github.com/csilog/csilog/internal/model"
	"github.com/csilog/csilog/internal/output"
	"github.com/csilog/csilog/internal/parser"
	"github.com/csilog/csilog/internal/report"
	"github.com/csilog/csilog/internal/snapshot"
	"github.com/csilog/csilog/internal/store"
)

// dqColumns are the dataset columns for non-text dq output.
var dqColumns = []output.Column{
	{Key: "kind", Title: "KIND"},
	{Key: "key", Title: "KEY"},
	{Key: "type", Title: "TYPE"},
	{Key: "fields", Title: "FIELDS"},
}

func dqCommandBuilder(m meta.Meta) *cli.Command {
	flags := NewGlobalFlags("dq")
	flags = append(flags,
		&cli.BoolFlag{
			Name:        "pick",
			Aliases:     []string{"p"},
			Usage:       "interactively pick the two exports to compare",
			HideDefault: true,
		},
		&cli.BoolFlag{
			Name:        "raw",
			Aliases:     []string{"r"},
			Usage:       "show the raw structural delta of the normalized snapshots",
			HideDefault: true,
		},
		&cli.BoolFlag{
			Name:        "write",
			Aliases:     []string{"w"},
			Usage:       "persist the report and stats under <rootDir>/Summary",
			HideDefault: true,
		},
	)

	return &cli.Command{
		Name:      "dq",
		Usage:     "diff query - compare two model snapshot exports",
		ArgsUsage: "[rootDir [base compared]]",
		Flags:     flags,
		Metadata:  map[string]interface{}{"meta": m},
		Action:    dqCommandAction,
	}
}

// dqCommandAction compares two exports: an explicit pair, an interactive
// pick, or by default the two most recent exports in the root directory.
func dqCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := cmd.Metadata["meta"].(meta.Meta)
	log.Debugf("Executing action for %v", meta.Args[1:])

	basePath, comparedPath, err := resolvePair(cmd, meta)
	if err != nil {
		return err
	}
	if basePath == "" {
		// Picker quit without a pair.
		return nil
	}

	base, err := loadSnapshot(basePath)
	if err != nil {
		return err
	}
	compared, err := loadSnapshot(comparedPath)
	if err != nil {
		return err
	}

	if cmd.Bool("raw") {
		return differ.RawDiff(os.Stdout, base, compared, cmd.Bool("color"))
	}

	cs := differ.Diff(base, compared)
	rep := report.Render(cs)

	if cmd.Bool("write") {
		if _, _, err := store.Write(meta.RootDir, rep); err != nil {
			return err
		}
	}

	if cmd.String("output") == "text" {
		fmt.Fprint(os.Stdout, rep.Markdown())
		return nil
	}

	// Non-text outputs get the change records as a filterable dataset.
	//nolint:prealloc
	var rows []map[string]interface{}
	for _, rec := range cs.Records {
		if rec.Type == model.Unchanged {
			continue
		}
		rows = append(rows, map[string]interface{}{
			"kind":   string(rec.Kind),
			"key":    rec.Key.Display(),
			"type":   string(rec.Type),
			"fields": strings.Join(rec.DeltaFields(), " "),
		})
	}

	jsonData, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	output.SliceDiceSpit(*bytes.NewBuffer(jsonData), dqColumns, cmd, os.Stdout, nil)

	return nil
}

// resolvePair determines the base and compared export paths. An empty base
// with nil error means the interactive picker was dismissed.
func resolvePair(cmd *cli.Command, meta meta.Meta) (basePath, comparedPath string, err error) {
	exts, _ := config.GetStringSlice("extensions", snapshot.DefaultExtensions)

	if cmd.Bool("pick") {
		files, err := snapshot.List(meta.RootDir, exts)
		if err != nil {
			return "", "", err
		}
		if len(files) < 2 {
			return "", "", fmt.Errorf("%w in %s", snapshot.ErrNotEnoughSnapshots, meta.RootDir)
		}
		selected := differ.SelectSnapshotFiles(files)
		if len(selected) != 2 {
			return "", "", nil
		}
		// Older export is the base.
		if selected[0].ModTime.After(selected[1].ModTime) {
			selected[0], selected[1] = selected[1], selected[0]
		}
		return selected[0].Path, selected[1].Path, nil
	}

	// Positional form: rootDir base compared.
	if args := cmd.Args().Slice(); len(args) >= 3 {
		return args[1], args[2], nil
	}

	base, compared, err := snapshot.FindLatestPair(meta.RootDir, exts)
	if err != nil {
		return "", "", err
	}
	return base.Path, compared.Path, nil
}

// loadSnapshot reads and normalizes one export, logging its diagnostics.
func loadSnapshot(path string) (*model.Snapshot, error) {
	name, text, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	snap := parser.Parse(name, text)
	for _, d := range snap.Diagnostics {
		log.Warnf("%s: %s L%d: %s", name, d.Code, d.Line, d.Message)
	}
	return snap, nil
}

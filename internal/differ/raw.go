// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/csilog/csilog/internal/log"
	"github.com/csilog/csilog/internal/model"
)

// RawDiff renders a structural JSON delta of the two normalized snapshots,
// bypassing the change classification entirely. Useful for inspecting what
// the normalizer itself saw.
func RawDiff(w io.Writer, base, compared *model.Snapshot, color bool) error {
	log.Debugf(">> rawDiff()")

	baseDoc, err := json.Marshal(base)
	if err != nil {
		return fmt.Errorf("failed to marshal base snapshot: %w", err)
	}
	comparedDoc, err := json.Marshal(compared)
	if err != nil {
		return fmt.Errorf("failed to marshal compared snapshot: %w", err)
	}

	delta, err := gojsondiff.New().Compare(baseDoc, comparedDoc)
	if err != nil {
		return fmt.Errorf("failed to compare snapshots: %w", err)
	}

	if !delta.Modified() {
		fmt.Fprintln(w, "The snapshots are identical.")
		return nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(baseDoc, &jdoc); err != nil {
		return fmt.Errorf("failed to unmarshal base snapshot: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       color,
	}

	formatter := formatter.NewAsciiFormatter(jdoc, config)
	diffString, err := formatter.Format(delta)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, diffString)
	return nil
}

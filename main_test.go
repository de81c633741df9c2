// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"reflect"
	"testing"
)

func TestDeduplicateFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "empty args",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "only program and command",
			args:     []string{"csilog", "hq"},
			expected: []string{"csilog", "hq"},
		},
		{
			name:     "no duplicates",
			args:     []string{"csilog", "hq", "--output", "text", "--titles"},
			expected: []string{"csilog", "hq", "--output", "text", "--titles"},
		},
		{
			name:     "duplicate flag with value - last wins",
			args:     []string{"csilog", "hq", "--output", "json", "--titles", "--output", "text"},
			expected: []string{"csilog", "hq", "--titles", "--output", "text"},
		},
		{
			name:     "duplicate boolean flag",
			args:     []string{"csilog", "hq", "--titles", "--details", "--titles"},
			expected: []string{"csilog", "hq", "--details", "--titles"},
		},
		{
			name:     "duplicate flag with equals syntax",
			args:     []string{"csilog", "hq", "--output=json", "--titles", "--output=text"},
			expected: []string{"csilog", "hq", "--titles", "--output=text"},
		},
		{
			name:     "mixed equals and space syntax - same flag",
			args:     []string{"csilog", "hq", "--output=json", "--output", "text"},
			expected: []string{"csilog", "hq", "--output", "text"},
		},
		{
			name:     "multiple different flags with duplicates",
			args:     []string{"csilog", "dq", "--filter", "kind=Material", "--sort", "key", "--filter", "kind=Point", "--sort", "kind"},
			expected: []string{"csilog", "dq", "--filter", "kind=Point", "--sort", "kind"},
		},
		{
			name:     "positional args preserved",
			args:     []string{"csilog", "hq", "/path/to/model", "--output", "json", "--output", "text"},
			expected: []string{"csilog", "hq", "/path/to/model", "--output", "text"},
		},
		{
			name:     "short flags deduplicated",
			args:     []string{"csilog", "hq", "-o", "json", "-o", "text"},
			expected: []string{"csilog", "hq", "-o", "text"},
		},
		{
			name:     "different flags not affected",
			args:     []string{"csilog", "hq", "--color", "--no-color"},
			expected: []string{"csilog", "hq", "--color", "--no-color"},
		},
		{
			name:     "triple duplicate",
			args:     []string{"csilog", "hq", "--output", "a", "--output", "b", "--output", "c"},
			expected: []string{"csilog", "hq", "--output", "c"},
		},
		{
			name:     "flag at end with no value treated as boolean",
			args:     []string{"csilog", "hq", "--titles", "--details", "--titles"},
			expected: []string{"csilog", "hq", "--details", "--titles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := deduplicateFlags(tt.args)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("deduplicateFlags(%v) = %v, want %v", tt.args, result, tt.expected)
			}
		})
	}
}

func TestDeduplicateFlagsPreservesOrder(t *testing.T) {
	// Ensure non-duplicate flags maintain their relative order.
	args := []string{"csilog", "hq", "--alpha", "--beta", "--gamma"}
	result := deduplicateFlags(args)
	expected := []string{"csilog", "hq", "--alpha", "--beta", "--gamma"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Order not preserved: got %v, want %v", result, expected)
	}
}

func TestDeduplicateFlagsWithPositionalAfterFlags(t *testing.T) {
	// Positional args after flags should be preserved.
	args := []string{"csilog", "hq", "--output", "json", "/path", "--output", "text"}
	result := deduplicateFlags(args)
	expected := []string{"csilog", "hq", "/path", "--output", "text"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("got %v, want %v", result, expected)
	}
}

func TestInjectConfigSet(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		key       string
		insertIdx int
		configVal []string
		expected  []string
	}{
		{
			name:      "empty config returns args unchanged",
			args:      []string{"csilog", "hq", "--titles"},
			key:       "defaults",
			insertIdx: 2,
			configVal: nil,
			expected:  []string{"csilog", "hq", "--titles"},
		},
		{
			name:      "single entry injected",
			args:      []string{"csilog", "hq", "--titles"},
			key:       "defaults",
			insertIdx: 2,
			configVal: []string{"--details"},
			expected:  []string{"csilog", "hq", "--details", "--titles"},
		},
		{
			name:      "multi-word entry split",
			args:      []string{"csilog", "hq", "--titles"},
			key:       "defaults",
			insertIdx: 2,
			configVal: []string{"--output text"},
			expected:  []string{"csilog", "hq", "--output", "text", "--titles"},
		},
		{
			name:      "multiple entries",
			args:      []string{"csilog", "hq"},
			key:       "defaults",
			insertIdx: 2,
			configVal: []string{"--details", "--output json"},
			expected:  []string{"csilog", "hq", "--details", "--output", "json"},
		},
		{
			name:      "insert at index 3",
			args:      []string{"csilog", "hq", "/path/to/model", "--titles"},
			key:       "defaults",
			insertIdx: 3,
			configVal: []string{"--details"},
			expected:  []string{"csilog", "hq", "/path/to/model", "--details", "--titles"},
		},
		{
			name:      "complex multi-word entries",
			args:      []string{"csilog", "dq", "--raw"},
			key:       "dq.defaults",
			insertIdx: 2,
			configVal: []string{"--output text", "--filter kind=Material"},
			expected:  []string{"csilog", "dq", "--output", "text", "--filter", "kind=Material", "--raw"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := injectConfigSetTestable(tt.args, tt.configVal, tt.insertIdx)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("injectConfigSet() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// injectConfigSetTestable is a test-friendly version that accepts config values
// directly instead of reading from global config.
func injectConfigSetTestable(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, splitFields(entry)...)
	}

	return append(args[:insertIdx], append(expanded, args[insertIdx:]...)...)
}

// splitFields splits a string by whitespace, matching strings.Fields behavior.
func splitFields(s string) []string {
	var result []string
	start := -1

	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if start >= 0 {
				result = append(result, s[start:i])
				start = -1
			}
		} else {
			if start < 0 {
				start = i
			}
		}
	}

	if start >= 0 {
		result = append(result, s[start:])
	}

	return result
}

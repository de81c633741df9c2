// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []Filter
	}{
		{
			name: "empty_spec",
			spec: "",
			want: nil,
		},
		{
			name: "exact_match",
			spec: "kind=Material",
			want: []Filter{{Key: "kind", Operand: "=", Value: "Material"}},
		},
		{
			name: "negated_exact",
			spec: "type!=Unchanged",
			want: []Filter{{Key: "type", Negate: true, Operand: "=", Value: "Unchanged"}},
		},
		{
			name: "prefix",
			spec: "key^B1",
			want: []Filter{{Key: "key", Operand: "^", Value: "B1"}},
		},
		{
			name: "regex",
			spec: "key/^B[0-9]+$",
			want: []Filter{{Key: "key", Operand: "/", Value: "^B[0-9]+$"}},
		},
		{
			name: "multiple",
			spec: "kind=Material, type!=Unchanged",
			want: []Filter{
				{Key: "kind", Operand: "=", Value: "Material"},
				{Key: "type", Negate: true, Operand: "=", Value: "Unchanged"},
			},
		},
		{
			name: "key_only_presence",
			spec: "stats",
			want: []Filter{{Key: "stats"}},
		},
		{
			name: "empty_entries_skipped",
			spec: "kind=Material,,  ,",
			want: []Filter{{Key: "kind", Operand: "=", Value: "Material"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFilters(tt.spec))
		})
	}
}

func TestBuildFiltersCustomDelimiter(t *testing.T) {
	t.Setenv("CSILOG_FILTER_DELIM", "|")

	got := BuildFilters("kind=Material|key@B1,B2")
	assert.Equal(t, []Filter{
		{Key: "kind", Operand: "=", Value: "Material"},
		{Key: "key", Operand: "@", Value: "B1,B2"},
	}, got)
}

const rowsJSON = `[
  {"kind": "Material", "key": "CONC4000", "type": "Modified", "count": 3},
  {"kind": "LineAssignment", "key": "B1/L3", "type": "Modified", "count": 1},
  {"kind": "LineAssignment", "key": "B2/L3", "type": "Unchanged", "count": 0},
  {"kind": "Story", "key": "L9", "type": "Added", "stats": {"sections_added": 2}}
]`

func TestFilterDataset(t *testing.T) {
	rows := gjson.Parse(rowsJSON)

	tests := []struct {
		name     string
		spec     string
		wantKeys []string
	}{
		{
			name:     "no_filters_keeps_all",
			spec:     "",
			wantKeys: []string{"CONC4000", "B1/L3", "B2/L3", "L9"},
		},
		{
			name:     "exact_kind",
			spec:     "kind=LineAssignment",
			wantKeys: []string{"B1/L3", "B2/L3"},
		},
		{
			name:     "negated_type",
			spec:     "type!=Unchanged",
			wantKeys: []string{"CONC4000", "B1/L3", "L9"},
		},
		{
			name:     "prefix_and_type",
			spec:     "key^B,type=Modified",
			wantKeys: []string{"B1/L3"},
		},
		{
			name:     "numeric_greater",
			spec:     "count>0",
			wantKeys: []string{"CONC4000", "B1/L3"},
		},
		{
			name:     "nested_path",
			spec:     "stats.sections_added=2",
			wantKeys: []string{"L9"},
		},
		{
			name:     "presence_check",
			spec:     "stats",
			wantKeys: []string{"L9"},
		},
		{
			name:     "regex",
			spec:     "key/^B[0-9]/",
			wantKeys: []string{"B1/L3", "B2/L3"},
		},
		{
			name:     "case_insensitive",
			spec:     "kind~material",
			wantKeys: []string{"CONC4000"},
		},
		{
			name:     "no_match",
			spec:     "kind=Grid",
			wantKeys: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDataset(rows, tt.spec)
			var keys []string
			for _, row := range got {
				keys = append(keys, row.Get("key").String())
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestApplyFiltersMissingKeyFails(t *testing.T) {
	row := gjson.Parse(`{"kind": "Material"}`)
	assert.False(t, applyFilters(row, BuildFilters("nope=1")))
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"sort"
	"strings"

	"github.com/csilog/csilog/internal/log"
	"github.com/csilog/csilog/internal/model"
)

// Diff compares two normalized snapshots and returns the classified
// change-set. It is deterministic: records are ordered by the declared
// kind order and then by identity key, independent of map iteration.
func Diff(base, compared *model.Snapshot) *model.ChangeSet {
	log.Debugf(">> differ() %s vs %s", compared.Name, base.Name)

	cs := &model.ChangeSet{
		BaseModel:     base.Name,
		ComparedModel: compared.Name,
	}

	for _, kind := range unionKinds(base, compared) {
		baseKeys := base.Entities[kind]
		comparedKeys := compared.Entities[kind]

		for _, key := range unionKeys(baseKeys, comparedKeys) {
			b, inBase := baseKeys[key]
			c, inCompared := comparedKeys[key]

			switch {
			case inCompared && !inBase:
				cs.Records = append(cs.Records, model.ChangeRecord{
					Kind: kind, Key: key, Type: model.Added,
				})
			case inBase && !inCompared:
				cs.Records = append(cs.Records, model.ChangeRecord{
					Kind: kind, Key: key, Type: model.Removed,
				})
			default:
				deltas := compareAttrs(b.Attrs, c.Attrs)
				ct := model.Unchanged
				if len(deltas) > 0 {
					ct = model.Modified
				}
				cs.Records = append(cs.Records, model.ChangeRecord{
					Kind: kind, Key: key, Type: ct, FieldDeltas: deltas,
				})
			}
		}
	}

	return cs
}

// compareAttrs produces the field deltas between two attribute maps.
// Comparison is exact on the whitespace-normalized value; engineering
// quantities carry no implicit tolerance. Deltas keep the raw values so
// reports show what the files actually said.
func compareAttrs(base, compared map[string]string) map[string]model.FieldDelta {
	var deltas map[string]model.FieldDelta
	put := func(field string, d model.FieldDelta) {
		if deltas == nil {
			deltas = map[string]model.FieldDelta{}
		}
		deltas[field] = d
	}

	for field, bv := range base {
		cv, ok := compared[field]
		if !ok {
			put(field, model.FieldDelta{Before: bv, AfterAbsent: true})
			continue
		}
		if normalize(bv) != normalize(cv) {
			put(field, model.FieldDelta{Before: bv, After: cv})
		}
	}
	for field, cv := range compared {
		if _, ok := base[field]; !ok {
			put(field, model.FieldDelta{After: cv, BeforeAbsent: true})
		}
	}

	return deltas
}

// normalize collapses insignificant whitespace before comparison.
func normalize(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

func unionKinds(a, b *model.Snapshot) []model.Kind {
	seen := map[model.Kind]bool{}
	var kinds []model.Kind
	for _, s := range []*model.Snapshot{a, b} {
		for k := range s.Entities {
			if !seen[k] {
				seen[k] = true
				kinds = append(kinds, k)
			}
		}
	}
	sort.Slice(kinds, func(i, j int) bool {
		if kinds[i].Rank() != kinds[j].Rank() {
			return kinds[i].Rank() < kinds[j].Rank()
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

func unionKeys(a, b map[model.Key]model.Entity) []model.Key {
	seen := map[model.Key]bool{}
	var keys []model.Key
	for k := range a {
		seen[k] = true
		keys = append(keys, k)
	}
	for k := range b {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

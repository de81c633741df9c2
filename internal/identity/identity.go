// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"sort"
	"strings"

	"github.com/csilog/csilog/internal/model"
)

// Attribute names the resolver keys on. The parser normalizes its label
// slots to these names regardless of the keyword that introduced them.
const (
	AttrName   = "NAME"
	AttrStory  = "STORY"
	AttrMember = "MEMBER"
)

// Key derives the composite identity key for an entity. It is pure and
// total: kinds with no registered policy, and records missing a policy
// field, fall back to a key built from every attribute present. The
// fallback guarantees uniqueness for unknown record shapes at the cost of
// coarser matching.
func Key(kind model.Kind, attrs map[string]string) model.Key {
	switch kind {
	case model.Material, model.FrameSection, model.ShellProperty,
		model.LoadPattern, model.LoadCase, model.LoadCombo,
		model.Story, model.Grid, model.Point,
		model.LineConnectivity, model.AreaConnectivity,
		model.PierOrSpandrelName:
		if k, ok := pick(attrs, AttrName); ok {
			return k
		}
	case model.LineAssignment, model.AreaAssignment,
		model.DesignOverwrite, model.Restraint:
		if k, ok := pick(attrs, AttrName, AttrStory); ok {
			return k
		}
	case model.Group:
		if k, ok := pick(attrs, AttrName, AttrMember, AttrStory); ok {
			return k
		}
	case model.ProgramInfo:
		// Singleton record per snapshot.
		return model.MakeKey(string(model.ProgramInfo))
	case model.Log:
		if k, ok := pick(attrs, AttrName); ok {
			return k
		}
	case model.RawSection:
		if k, ok := pick(attrs, AttrName); ok {
			return k
		}
	}
	return fallback(attrs)
}

// pick builds a key from the named attributes, in order, failing if any is
// absent or empty.
func pick(attrs map[string]string, names ...string) (model.Key, bool) {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		v, ok := attrs[n]
		if !ok || v == "" {
			return "", false
		}
		parts = append(parts, v)
	}
	return model.MakeKey(parts...), true
}

// fallback keys a record by every attribute it carries, sorted by name.
func fallback(attrs map[string]string) model.Key {
	if len(attrs) == 0 {
		return model.MakeKey("")
	}
	names := make([]string, 0, len(attrs))
	for n := range attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, n+"="+strings.TrimSpace(attrs[n]))
	}
	return model.MakeKey(parts...)
}

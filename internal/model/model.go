// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"sort"
	"strings"
	"time"
)

// Kind is the closed vocabulary of entity types a snapshot can carry.
type Kind string

const (
	Material           Kind = "Material"
	FrameSection       Kind = "FrameSection"
	ShellProperty      Kind = "ShellProperty"
	LoadPattern        Kind = "LoadPattern"
	LoadCase           Kind = "LoadCase"
	LoadCombo          Kind = "LoadCombo"
	Story              Kind = "Story"
	Grid               Kind = "Grid"
	Point              Kind = "Point"
	LineConnectivity   Kind = "LineConnectivity"
	LineAssignment     Kind = "LineAssignment"
	AreaConnectivity   Kind = "AreaConnectivity"
	AreaAssignment     Kind = "AreaAssignment"
	Group              Kind = "Group"
	PierOrSpandrelName Kind = "PierOrSpandrelName"
	DesignOverwrite    Kind = "DesignOverwrite"
	Restraint          Kind = "Restraint"
	ProgramInfo        Kind = "ProgramInfo"
	Log                Kind = "Log"
	RawSection         Kind = "RawSection"
)

// KindOrder is the declared rendering/diff order: materials, sections, loads,
// geometry, assignments, groups, design, then informational kinds last.
var KindOrder = []Kind{
	Material,
	FrameSection,
	ShellProperty,
	LoadPattern,
	LoadCase,
	LoadCombo,
	Story,
	Grid,
	Point,
	LineConnectivity,
	AreaConnectivity,
	LineAssignment,
	AreaAssignment,
	Group,
	PierOrSpandrelName,
	DesignOverwrite,
	Restraint,
	ProgramInfo,
	Log,
	RawSection,
}

var kindRank = func() map[Kind]int {
	m := make(map[Kind]int, len(KindOrder))
	for i, k := range KindOrder {
		m[k] = i
	}
	return m
}()

// Rank returns the kind's position in KindOrder. Unknown kinds sort last.
func (k Kind) Rank() int {
	if r, ok := kindRank[k]; ok {
		return r
	}
	return len(KindOrder)
}

// Informational reports whether changes to this kind are reported but never
// counted. Save-log records and program metadata churn on every export;
// opaque raw sections have no per-field semantics to count.
func (k Kind) Informational() bool {
	return k == Log || k == ProgramInfo || k == RawSection
}

// keySep joins key parts. A unit separator cannot appear in the export text,
// so joined keys never collide across part boundaries.
const keySep = "\x1f"

// Key is the stable composite identity of an entity within its kind. It is a
// flat string so it can index maps and sort lexicographically; use MakeKey
// and Parts to move between forms.
type Key string

func MakeKey(parts ...string) Key {
	return Key(strings.Join(parts, keySep))
}

func (k Key) Parts() []string {
	return strings.Split(string(k), keySep)
}

// Display renders the key for humans, joining parts with "/".
func (k Key) Display() string {
	return strings.Join(k.Parts(), "/")
}

// MarshalText emits the display form so JSON output never carries the raw
// separator byte. Keys are write-only on the wire; nothing unmarshals them.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.Display()), nil
}

// Entity is the normalized unit of comparison.
type Entity struct {
	Kind       Kind              `json:"kind"`
	Key        Key               `json:"key"`
	Attrs      map[string]string `json:"attrs,omitempty"`
	SourceLine int               `json:"-"`
}

// DiagnosticCode classifies a recoverable problem found during parsing or
// aggregation.
type DiagnosticCode string

const (
	ParseError             DiagnosticCode = "ParseError"
	IdentityCollisionError DiagnosticCode = "IdentityCollisionError"
	ReportMetadataError    DiagnosticCode = "ReportMetadataError"
)

// Diagnostic is one accumulated warning. Line is zero when the problem is
// file-scoped rather than line-scoped.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Line    int            `json:"line,omitempty"`
	Raw     string         `json:"raw,omitempty"`
	Message string         `json:"message"`
}

// Snapshot is one normalized model export: per-kind keyed entity sets plus
// the diagnostics accumulated while producing them.
type Snapshot struct {
	Name        string                  `json:"name"`
	Entities    map[Kind]map[Key]Entity `json:"entities"`
	Diagnostics []Diagnostic            `json:"-"`
}

func NewSnapshot(name string) *Snapshot {
	return &Snapshot{
		Name:     name,
		Entities: map[Kind]map[Key]Entity{},
	}
}

// Put inserts e, reporting false on an identity collision. The first record
// wins; the caller surfaces the duplicate as a Diagnostic.
func (s *Snapshot) Put(e Entity) bool {
	byKey, ok := s.Entities[e.Kind]
	if !ok {
		byKey = map[Key]Entity{}
		s.Entities[e.Kind] = byKey
	}
	if _, exists := byKey[e.Key]; exists {
		return false
	}
	byKey[e.Key] = e
	return true
}

// Get returns the entity for (kind, key) if present.
func (s *Snapshot) Get(kind Kind, key Key) (Entity, bool) {
	e, ok := s.Entities[kind][key]
	return e, ok
}

// Kinds returns the snapshot's populated kinds in KindOrder.
func (s *Snapshot) Kinds() []Kind {
	kinds := make([]Kind, 0, len(s.Entities))
	for k := range s.Entities {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if kinds[i].Rank() != kinds[j].Rank() {
			return kinds[i].Rank() < kinds[j].Rank()
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

// SortedKeys returns the kind's identity keys in lexicographic order.
func (s *Snapshot) SortedKeys(kind Kind) []Key {
	keys := make([]Key, 0, len(s.Entities[kind]))
	for k := range s.Entities[kind] {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the total entity count across kinds.
func (s *Snapshot) Len() int {
	n := 0
	for _, byKey := range s.Entities {
		n += len(byKey)
	}
	return n
}

// ChangeType classifies one ChangeRecord.
type ChangeType string

const (
	Added     ChangeType = "Added"
	Removed   ChangeType = "Removed"
	Modified  ChangeType = "Modified"
	Unchanged ChangeType = "Unchanged"
)

// FieldDelta is one attribute-level difference. An absent side keeps its
// zero value with the matching flag set.
type FieldDelta struct {
	Before       string `json:"before"`
	After        string `json:"after"`
	BeforeAbsent bool   `json:"beforeAbsent,omitempty"`
	AfterAbsent  bool   `json:"afterAbsent,omitempty"`
}

// ChangeRecord is one classified per-entity outcome of a comparison.
// FieldDeltas is populated only when Type is Modified.
type ChangeRecord struct {
	Kind        Kind                  `json:"kind"`
	Key         Key                   `json:"key"`
	Type        ChangeType            `json:"type"`
	FieldDeltas map[string]FieldDelta `json:"fieldDeltas,omitempty"`
}

// DeltaFields returns the record's changed attribute names sorted.
func (r ChangeRecord) DeltaFields() []string {
	fields := make([]string, 0, len(r.FieldDeltas))
	for f := range r.FieldDeltas {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// ChangeSet is the full classified diff of one snapshot pair. Records are
// ordered by KindOrder then key.
type ChangeSet struct {
	BaseModel     string         `json:"baseModel"`
	ComparedModel string         `json:"comparedModel"`
	Records       []ChangeRecord `json:"records"`
}

// ByType returns the kind's records of the given type, preserving order.
func (cs *ChangeSet) ByType(kind Kind, ct ChangeType) []ChangeRecord {
	var out []ChangeRecord
	for _, r := range cs.Records {
		if r.Kind == kind && r.Type == ct {
			out = append(out, r)
		}
	}
	return out
}

// Changed reports whether any record outside the informational kinds is
// non-Unchanged.
func (cs *ChangeSet) Changed() bool {
	for _, r := range cs.Records {
		if r.Type != Unchanged && !r.Kind.Informational() {
			return true
		}
	}
	return false
}

// VersionEntry is one reconstructed node of report history. Entries are
// rebuilt on every scan; only IsCurrent is ever set after construction.
type VersionEntry struct {
	FileTime         time.Time      `json:"fileTime"`
	VersionFileName  string         `json:"versionFileName"`
	ComparedModel    string         `json:"comparedModel"`
	ComparedAgainst  string         `json:"comparedAgainst"`
	HighLevelSummary string         `json:"highLevelSummary"`
	FullDetails      string         `json:"fullDetails,omitempty"`
	IsCurrent        bool           `json:"isCurrent"`
	Stats            map[string]int `json:"stats,omitempty"`
}

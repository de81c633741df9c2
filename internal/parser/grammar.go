// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/csilog/csilog/internal/model"
)

// token is one lexical unit of a record line. Quoted tokens are labels or
// values; bare tokens are keywords, positional values, or KEY names.
type token struct {
	text   string
	quoted bool
}

var tokenRE = regexp.MustCompile(`"[^"]*"|\S+`)

// tokenize splits a record line. It reports ok=false on malformed quoting
// (an unterminated quote), in which case the caller records a ParseError
// and keeps the raw line.
func tokenize(line string) ([]token, bool) {
	if strings.Count(line, `"`)%2 != 0 {
		return nil, false
	}
	raw := tokenRE.FindAllString(line, -1)
	tokens := make([]token, 0, len(raw))
	for _, t := range raw {
		if strings.HasPrefix(t, `"`) {
			tokens = append(tokens, token{text: strings.Trim(t, `"`), quoted: true})
		} else {
			tokens = append(tokens, token{text: t, quoted: false})
		}
	}
	return tokens, true
}

// lineGrammar describes how one record keyword's tokens map to attributes:
// quoted tokens fill labels in order, bare tokens fill positional slots in
// order, and once both are exhausted bare tokens act as KEY names that
// consume the following token as their value. Surplus quoted tokens are
// collected under collect1, collect2, ... when collect is set.
type lineGrammar struct {
	labels     []string
	positional []string
	collect    string
}

// apply maps a tokenized record (keyword already stripped) to attributes.
func (g lineGrammar) apply(tokens []token) map[string]string {
	attrs := map[string]string{}
	label, pos, coll := 0, 0, 0

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.quoted {
			switch {
			case label < len(g.labels):
				attrs[g.labels[label]] = t.text
				label++
			case g.collect != "":
				coll++
				attrs[g.collect+strconv.Itoa(coll)] = t.text
			default:
				attrs[t.text] = ""
			}
			continue
		}
		if pos < len(g.positional) {
			attrs[g.positional[pos]] = t.text
			pos++
			continue
		}
		// Bare token in KEY position consumes the next token as its value.
		if i+1 < len(tokens) {
			attrs[t.text] = tokens[i+1].text
			i++
		} else {
			attrs[t.text] = ""
		}
	}
	return attrs
}

// sectionSpec binds a registered section marker to an entity kind and the
// grammars of the record keywords it contains.
type sectionSpec struct {
	kind model.Kind
	// accumulate merges records sharing an identity key into one entity
	// (multi-line material and load-case definitions).
	accumulate bool
	// wholeLine keeps each record line verbatim as the NAME attribute.
	wholeLine bool
	grammars  map[string]lineGrammar
}

// grammar looks up the record keyword's grammar. ok=false means the
// keyword is unrecognized within this section.
func (s sectionSpec) grammar(keyword string) (lineGrammar, bool) {
	g, ok := s.grammars[strings.ToUpper(keyword)]
	return g, ok
}

var nameOnly = lineGrammar{labels: []string{"NAME"}}
var nameAndStory = lineGrammar{labels: []string{"NAME", "STORY"}}

// sectionRegistry maps normalized section markers to their specs. Marker
// lookup is case-insensitive and whitespace-normalized.
var sectionRegistry = map[string]sectionSpec{
	"PROGRAM INFORMATION": {
		kind:       model.ProgramInfo,
		accumulate: true,
		grammars: map[string]lineGrammar{
			"PROGRAM": {labels: []string{"PROGRAM"}},
		},
	},
	"CONTROLS": {
		kind:       model.ProgramInfo,
		accumulate: true,
		grammars: map[string]lineGrammar{
			"UNITS": {labels: []string{"FORCE", "LENGTH"}},
			"TITLE": {labels: []string{"TITLE"}},
		},
	},
	"STORIES": {
		kind:     model.Story,
		grammars: map[string]lineGrammar{"STORY": nameOnly},
	},
	"STORY DATA": {
		kind:     model.Story,
		grammars: map[string]lineGrammar{"STORY": nameOnly},
	},
	"GRIDS": {
		kind:     model.Grid,
		grammars: map[string]lineGrammar{"GRID": nameOnly},
	},
	"POINT COORDINATES": {
		kind: model.Point,
		grammars: map[string]lineGrammar{
			"POINT": {labels: []string{"NAME"}, positional: []string{"X", "Y", "Z"}},
		},
	},
	"JOINT COORDINATES": {
		kind: model.Point,
		grammars: map[string]lineGrammar{
			"JOINT": {labels: []string{"NAME"}, positional: []string{"X", "Y", "Z"}},
			"POINT": {labels: []string{"NAME"}, positional: []string{"X", "Y", "Z"}},
		},
	},
	"LINE CONNECTIVITIES": {
		kind: model.LineConnectivity,
		grammars: map[string]lineGrammar{
			"LINE": {labels: []string{"NAME"}, positional: []string{"TYPE", "FLAG"}, collect: "PT"},
		},
	},
	"AREA CONNECTIVITIES": {
		kind: model.AreaConnectivity,
		grammars: map[string]lineGrammar{
			"AREA": {labels: []string{"NAME"}, positional: []string{"TYPE", "NUMPTS"}, collect: "PT"},
		},
	},
	"MATERIAL PROPERTIES": {
		kind:       model.Material,
		accumulate: true,
		grammars:   map[string]lineGrammar{"MATERIAL": nameOnly},
	},
	"FRAME SECTIONS": {
		kind:     model.FrameSection,
		grammars: map[string]lineGrammar{"FRAMESECTION": nameOnly},
	},
	"SHELL PROPERTIES": {
		kind:       model.ShellProperty,
		accumulate: true,
		grammars: map[string]lineGrammar{
			"SHELLPROP": nameOnly,
			"WALLPROP":  nameOnly,
			"SLABPROP":  nameOnly,
			"DECKPROP":  nameOnly,
		},
	},
	"WALL/SLAB/DECK PROPERTIES": {
		kind:       model.ShellProperty,
		accumulate: true,
		grammars: map[string]lineGrammar{
			"SHELLPROP": nameOnly,
			"WALLPROP":  nameOnly,
			"SLABPROP":  nameOnly,
			"DECKPROP":  nameOnly,
		},
	},
	"LOAD PATTERNS": {
		kind: model.LoadPattern,
		grammars: map[string]lineGrammar{
			"LOADPATTERN": nameOnly,
			"LOADPAT":     nameOnly,
		},
	},
	"STATIC LOADS": {
		kind: model.LoadPattern,
		grammars: map[string]lineGrammar{
			"LOADCASE": nameOnly,
			"LOADPAT":  nameOnly,
		},
	},
	"LOAD CASES": {
		kind:       model.LoadCase,
		accumulate: true,
		grammars:   map[string]lineGrammar{"LOADCASE": nameOnly},
	},
	"LOAD COMBINATIONS": {
		kind:       model.LoadCombo,
		accumulate: true,
		grammars: map[string]lineGrammar{
			"COMBO":     nameOnly,
			"LOADCOMBO": nameOnly,
		},
	},
	"LINE ASSIGNS": {
		kind:     model.LineAssignment,
		grammars: map[string]lineGrammar{"LINEASSIGN": nameAndStory},
	},
	"FRAME ASSIGNS": {
		kind:     model.LineAssignment,
		grammars: map[string]lineGrammar{"FRAMEASSIGN": nameAndStory, "LINEASSIGN": nameAndStory},
	},
	"AREA ASSIGNS": {
		kind:     model.AreaAssignment,
		grammars: map[string]lineGrammar{"AREAASSIGN": nameAndStory},
	},
	"POINT ASSIGNS": {
		kind: model.Restraint,
		grammars: map[string]lineGrammar{
			"POINTASSIGN": nameAndStory,
			"RESTRAINT":   nameAndStory,
		},
	},
	"GROUPS": {
		kind: model.Group,
		grammars: map[string]lineGrammar{
			"GROUP": {labels: []string{"NAME", "MEMBER", "STORY"}},
		},
	},
	"PIER/SPANDREL NAMES": {
		kind: model.PierOrSpandrelName,
		grammars: map[string]lineGrammar{
			"PIERNAME":     nameOnly,
			"SPANDRELNAME": nameOnly,
			"PIER":         nameOnly,
			"SPANDREL":     nameOnly,
		},
	},
	"STEEL DESIGN OVERWRITES": {
		kind:       model.DesignOverwrite,
		accumulate: true,
		grammars:   map[string]lineGrammar{"STEELDESIGN": nameAndStory, "OVERWRITE": nameAndStory},
	},
	"CONCRETE DESIGN OVERWRITES": {
		kind:       model.DesignOverwrite,
		accumulate: true,
		grammars:   map[string]lineGrammar{"CONCRETEDESIGN": nameAndStory, "OVERWRITE": nameAndStory},
	},
	"LOG": {
		kind:      model.Log,
		wholeLine: true,
	},
	"FILE": {
		kind:      model.Log,
		wholeLine: true,
	},
}

// lookupSection resolves a marker to its spec. Markers are matched
// case-insensitively with runs of whitespace collapsed.
func lookupSection(marker string) (sectionSpec, bool) {
	key := strings.ToUpper(strings.Join(strings.Fields(marker), " "))
	s, ok := sectionRegistry[key]
	return s, ok
}

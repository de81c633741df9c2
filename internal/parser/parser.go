// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"
	"strings"

	"github.com/csilog/csilog/internal/identity"
	"github.com/csilog/csilog/internal/log"
	"github.com/csilog/csilog/internal/model"
)

// Parse normalizes one raw export into a Snapshot. It never fails outright:
// recoverable problems (malformed quoting, unregistered sections, identity
// collisions) accumulate on Snapshot.Diagnostics and parsing continues.
func Parse(name, text string) *model.Snapshot {
	p := &parseState{snap: model.NewSnapshot(name)}

	lineNo := 0
	for _, raw := range strings.Split(text, "\n") {
		lineNo++
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "$") {
			p.startSection(strings.TrimSpace(line[1:]), lineNo)
			continue
		}
		p.record(line, lineNo)
	}
	p.flushRaw()

	log.Debugf("parsed %s: %d entities, %d diagnostics",
		name, p.snap.Len(), len(p.snap.Diagnostics))

	return p.snap
}

type parseState struct {
	snap *model.Snapshot

	section   sectionSpec
	inSection bool

	// Pending unregistered-section block, kept whole as one RawSection.
	rawName  string
	rawLines []string
}

func (p *parseState) startSection(marker string, lineNo int) {
	p.flushRaw()

	// "$ File ..." is a save-time metadata line, not a section of records.
	if marker == "File" || strings.HasPrefix(marker, "File ") {
		p.section, _ = lookupSection("FILE")
		p.inSection = true
		p.putLog(marker, lineNo)
		return
	}

	if s, ok := lookupSection(marker); ok {
		p.section = s
		p.inSection = true
		return
	}

	p.inSection = false
	p.rawName = strings.Join(strings.Fields(marker), " ")
	p.rawLines = nil
	p.diag(model.ParseError, lineNo, "$ "+marker,
		fmt.Sprintf("no registered grammar for section %q", p.rawName))
}

func (p *parseState) record(line string, lineNo int) {
	if p.rawName != "" {
		p.rawLines = append(p.rawLines, line)
		return
	}
	if !p.inSection {
		p.diag(model.ParseError, lineNo, line, "record line before any section marker")
		return
	}
	if p.section.wholeLine {
		p.putLog(line, lineNo)
		return
	}

	tokens, ok := tokenize(line)
	if !ok {
		p.diag(model.ParseError, lineNo, line, "malformed quoting (unterminated quote)")
		p.putOpaque(line, lineNo)
		return
	}
	if len(tokens) == 0 {
		return
	}

	grammar, known := p.section.grammar(tokens[0].text)
	if !known || tokens[0].quoted {
		// Unrecognized keyword within a known section: keep, never drop.
		p.putOpaque(line, lineNo)
		return
	}

	attrs := grammar.apply(tokens[1:])
	if p.section.kind == model.LoadCombo {
		foldComboTerm(attrs)
	}

	e := model.Entity{
		Kind:       p.section.kind,
		Key:        identity.Key(p.section.kind, attrs),
		Attrs:      attrs,
		SourceLine: lineNo,
	}

	if p.section.accumulate {
		if existing, ok := p.snap.Get(e.Kind, e.Key); ok {
			mergeAttrs(existing.Attrs, attrs)
			return
		}
	}
	if !p.snap.Put(e) {
		p.diag(model.IdentityCollisionError, lineNo, line,
			fmt.Sprintf("duplicate %s key %q, first record kept", e.Kind, e.Key.Display()))
	}
}

// putLog stores a save-log line as an informational Log entity. Duplicate
// identical lines are ignored.
func (p *parseState) putLog(line string, lineNo int) {
	attrs := map[string]string{identity.AttrName: strings.Join(strings.Fields(line), " ")}
	p.snap.Put(model.Entity{
		Kind:       model.Log,
		Key:        identity.Key(model.Log, attrs),
		Attrs:      attrs,
		SourceLine: lineNo,
	})
}

// putOpaque preserves an uninterpretable line under a synthetic raw key.
func (p *parseState) putOpaque(line string, lineNo int) {
	attrs := map[string]string{"raw": line}
	p.snap.Put(model.Entity{
		Kind:       p.section.kind,
		Key:        identity.Key(p.section.kind, attrs),
		Attrs:      attrs,
		SourceLine: lineNo,
	})
}

// flushRaw turns a pending unregistered section into one opaque RawSection
// entity so its line-level changes still surface in diffs. Repeated blocks
// with the same marker append.
func (p *parseState) flushRaw() {
	if p.rawName == "" {
		return
	}
	attrs := map[string]string{
		identity.AttrName: p.rawName,
		"TEXT":            strings.Join(p.rawLines, "\n"),
	}
	e := model.Entity{
		Kind:  model.RawSection,
		Key:   identity.Key(model.RawSection, attrs),
		Attrs: attrs,
	}
	if !p.snap.Put(e) {
		if existing, ok := p.snap.Get(model.RawSection, e.Key); ok && attrs["TEXT"] != "" {
			if existing.Attrs["TEXT"] != "" {
				existing.Attrs["TEXT"] += "\n"
			}
			existing.Attrs["TEXT"] += attrs["TEXT"]
		}
	}
	p.rawName = ""
	p.rawLines = nil
}

func (p *parseState) diag(code model.DiagnosticCode, lineNo int, raw, msg string) {
	log.Tracef("%s L%d: %s", code, lineNo, msg)
	p.snap.Diagnostics = append(p.snap.Diagnostics, model.Diagnostic{
		Code:    code,
		Line:    lineNo,
		Raw:     raw,
		Message: msg,
	})
}

// comboRefKeys are the KEY names a combination term uses to reference the
// case it scales.
var comboRefKeys = []string{"LOADCASE", "LOADPAT", "LOADPATTERN", "COMBO", "SPEC"}

// foldComboTerm rewrites a combination term line ({LOADCASE "D", SF 1.2})
// into a single "TERM:D"=1.2 attribute so terms of one combo accumulate
// without clobbering each other's scale factors.
func foldComboTerm(attrs map[string]string) {
	for _, ref := range comboRefKeys {
		target, ok := attrs[ref]
		if !ok || target == "" {
			continue
		}
		sf, hasSF := attrs["SF"]
		if !hasSF {
			continue
		}
		delete(attrs, ref)
		delete(attrs, "SF")
		attrs["TERM:"+target] = sf
		return
	}
}

// mergeAttrs folds later-line attributes into an accumulating entity.
// Existing values win, matching the first-record-wins collision rule.
func mergeAttrs(dst, src map[string]string) {
	for k, v := range src {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package parser normalizes a raw model text export into a model.Snapshot.
//
// The export is line-oriented: sections are introduced by "$ SECTION NAME"
// marker lines, and records are keyword lines of quoted labels and bare
// KEY value pairs. Section names select a registered per-kind grammar.
// Parsing is resilient: malformed lines and unregistered sections are
// recorded as Diagnostics and preserved rather than dropped, and a single
// bad line never aborts the snapshot.
package parser

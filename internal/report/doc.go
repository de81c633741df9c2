// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package report renders a change-set into the persisted dual-format
// report: a high-level prose summary, a detailed per-kind breakdown, and a
// fenced machine-summary block of fixed counters that downstream
// aggregation parses.
package report

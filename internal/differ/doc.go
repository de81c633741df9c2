// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes the classified change-set between two normalized
// snapshots, plus a raw structural JSON delta and an interactive picker for
// choosing which exports to compare.
package differ

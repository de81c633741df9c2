// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package history reconstructs an ordered version timeline from the
// persisted reports under a root's Summary directory. Each scan rebuilds
// the whole sequence from scratch; rescanning is the only synchronization
// primitive.
package history

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package model defines the shared vocabulary of the engine: entity kinds,
// identity keys, normalized snapshots, change records, and version history
// entries. All other packages depend on it; it depends on nothing but the
// standard library.
package model

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package store persists rendered reports into a root's Summary directory,
// creating it on demand. The persisted files are the system of record the
// history aggregator later consumes.
package store

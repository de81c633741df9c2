// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package snapshot locates and loads raw model exports from a root
// directory: enumerating candidate files, picking the latest pair by
// modification time, and reading file content into memory.
package snapshot

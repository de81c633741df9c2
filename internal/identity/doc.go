// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package identity derives the stable composite key that names an entity
// across snapshots. The export format carries no persistent IDs, so matching
// relies entirely on these keys.
package identity

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config loads and provides access to csilog configuration values
// from csilog.yaml, with namespaced lookups per command.
package config

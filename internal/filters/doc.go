// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters provides filtering of result datasets.
//
// The package parses filter expressions to select subsets of rows based on
// field values. Filters are specified as key-operator-target expressions and
// can be combined using a configurable delimiter (default: comma, override
// with CSILOG_FILTER_DELIM).
//
// Operators include:
//
//   - = : exact match (supports negation with !=)
//   - ^ : prefix match (supports negation with !^)
//   - ~ : case-insensitive match (supports negation with !~)
//   - < : less than
//   - > : greater than
//   - @ : contains (substring, array member, or object key)
//   - / : regex match (supports negation with !/)
//
// Examples:
//
//   - "kind=Material" : rows whose kind equals "Material"
//   - "key^B1" : rows whose key starts with "B1"
//   - "type!=Unchanged" : rows whose change type is not "Unchanged"
//   - "stats.sections_modified>0" : rows with at least one section change
//
// Filter keys are gjson dot paths evaluated against each candidate row, so
// nested fields are reachable directly.
//
// The BuildFilters function parses a delimited filter specification string.
// Invalid specifications (unsupported operands or malformed expressions) are
// logged as warnings and skipped, allowing partial filter sets to be
// processed.
package filters

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package parse interprets raw assistant output.
//
// The assistant answers in markdown-flavored prose and may append one fenced
// ```json block carrying chart data, comparison state names and follow-up
// suggestions. Parse extracts that payload into typed values and strips the
// fence from the display text.
//
// Parsing is fail-open: a malformed payload never blocks the textual answer.
// When the fenced JSON does not parse, the failure is logged at debug level,
// the fence is left embedded in the display text, and no structured fields
// are returned.
//
// Fragments is the companion rich-text splitter that turns the display text
// into typed runs (plain, bold, code) and bullet-list blocks for rendering.
// Both transforms are pure and idempotent.
package parse

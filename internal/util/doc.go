// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared across the NeerAI application.
//
// It contains string helpers that are safe for the multilingual text the
// assistant produces (eleven Indic scripts plus English), and a crash-safe
// file writer used by the config and credential stores.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: display-width aware truncation (wide glyphs count as 2)
//   - PadWidth: display-width aware right padding
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util

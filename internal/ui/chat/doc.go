// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat view: the message
// viewport, the input line, suggestion chips, and the language,
// state, and history overlays. All conversation state lives in the
// session; this package only drives it and renders what it holds.
package chat

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable view pieces of the neerai
// TUI: message bubbles, the inline groundwater chart, suggestion
// chips, and the header. Components are pure render functions over
// the model types; they hold no state of their own.
package components

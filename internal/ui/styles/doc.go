// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the neerai TUI.
//
// The palette is water themed: blue for the user and the brand, teal
// for the assistant and chart lines. All colors adapt to light and
// dark terminal backgrounds via lipgloss.AdaptiveColor.
package styles

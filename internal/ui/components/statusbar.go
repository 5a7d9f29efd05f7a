// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/neerai/neerai-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the session state shown in the bottom bar.
type Status int

const (
	StatusConnecting Status = iota
	StatusReady
	StatusThinking
	StatusFailed
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "Connecting..."
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusFailed:
		return "Connection failed"
	default:
		return "Unknown"
	}
}

// Shortcut is one key hint shown at the right of the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar: status on the left, key hints on
// the right.
type StatusBar struct {
	Status    Status
	Detail    string // optional, e.g. the failure message
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar with the default shortcuts.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: StatusConnecting,
		Shortcuts: []Shortcut{
			{Key: "tab", Desc: "suggestions"},
			{Key: "ctrl+l", Desc: "language"},
			{Key: "ctrl+s", Desc: "states"},
			{Key: "ctrl+c", Desc: "quit"},
		},
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the available render width.
func (b *StatusBar) SetWidth(width int) {
	b.Width = width
}

// View renders the status bar.
func (b *StatusBar) View() string {
	var statusStyle lipgloss.Style
	switch b.Status {
	case StatusReady:
		statusStyle = b.theme.StatusReady
	case StatusThinking:
		statusStyle = b.theme.StatusBusy
	case StatusFailed:
		statusStyle = b.theme.StatusFailed
	default:
		statusStyle = b.theme.StatusBusy
	}

	left := statusStyle.Render(b.Status.String())
	if b.Detail != "" {
		left += " " + b.theme.ShortcutDesc.Render(b.Detail)
	}

	hints := make([]string, 0, len(b.Shortcuts))
	for _, sc := range b.Shortcuts {
		hints = append(hints, b.theme.ShortcutKey.Render(sc.Key)+" "+b.theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := b.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + right
	return b.theme.StatusBar.Width(b.Width).Render(bar)
}

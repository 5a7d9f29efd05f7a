// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/neerai/neerai-tui/internal/ui/styles"
)

// =============================================================================
// STATE BROWSER COMPONENT
// =============================================================================

// StateList is the overlay for picking a state or union territory to
// ask about. Typed text filters the list case-insensitively.
type StateList struct {
	items    []string
	filter   string
	Selected int
	Height   int
	theme    *styles.Theme
}

// NewStateList creates a browser over the given names.
func NewStateList(items []string, theme *styles.Theme) *StateList {
	return &StateList{
		items:  items,
		Height: 12,
		theme:  theme,
	}
}

// SetFilter replaces the filter text and resets the selection.
func (l *StateList) SetFilter(filter string) {
	l.filter = filter
	l.Selected = 0
}

// Filter returns the current filter text.
func (l *StateList) Filter() string {
	return l.filter
}

// Visible returns the items matching the current filter.
func (l *StateList) Visible() []string {
	if l.filter == "" {
		return l.items
	}
	needle := strings.ToLower(l.filter)
	var out []string
	for _, item := range l.items {
		if strings.Contains(strings.ToLower(item), needle) {
			out = append(out, item)
		}
	}
	return out
}

// Next moves the selection down, clamping at the end.
func (l *StateList) Next() {
	if l.Selected < len(l.Visible())-1 {
		l.Selected++
	}
}

// Prev moves the selection up, clamping at the start.
func (l *StateList) Prev() {
	if l.Selected > 0 {
		l.Selected--
	}
}

// Current returns the selected name, or "" when the filter matches
// nothing.
func (l *StateList) Current() string {
	visible := l.Visible()
	if l.Selected < 0 || l.Selected >= len(visible) {
		return ""
	}
	return visible[l.Selected]
}

// View renders the browser box.
func (l *StateList) View() string {
	visible := l.Visible()

	var lines []string
	lines = append(lines, l.theme.HeaderSubtitle.Render("Select a state  ("+l.filter+"▌)"))

	// Keep the selection on screen.
	start := 0
	if l.Selected >= l.Height {
		start = l.Selected - l.Height + 1
	}
	end := minInt(start+l.Height, len(visible))

	if len(visible) == 0 {
		lines = append(lines, l.theme.ListItem.Render("no matches"))
	}
	for i := start; i < end; i++ {
		if i == l.Selected {
			lines = append(lines, l.theme.ListItemSelected.Render("▸ "+visible[i]))
		} else {
			lines = append(lines, l.theme.ListItem.Render("  "+visible[i]))
		}
	}

	return l.theme.ListBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

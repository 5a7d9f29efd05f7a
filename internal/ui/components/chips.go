// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/neerai/neerai-tui/internal/ui/styles"
	"github.com/neerai/neerai-tui/internal/util"
)

// =============================================================================
// SUGGESTION CHIPS COMPONENT
// =============================================================================

// SuggestionChips renders the follow-up questions offered after a bot
// reply as a row of selectable chips. Selection wraps at both ends;
// Selected -1 means no chip is focused.
type SuggestionChips struct {
	Items    []string
	Selected int
	Width    int
	theme    *styles.Theme
}

// NewSuggestionChips creates a chip row with nothing selected.
func NewSuggestionChips(items []string, theme *styles.Theme) *SuggestionChips {
	return &SuggestionChips{
		Items:    items,
		Selected: -1,
		Width:    80,
		theme:    theme,
	}
}

// Next moves the selection right, wrapping to the first chip.
func (s *SuggestionChips) Next() {
	if len(s.Items) == 0 {
		return
	}
	s.Selected = (s.Selected + 1) % len(s.Items)
}

// Prev moves the selection left, wrapping to the last chip.
func (s *SuggestionChips) Prev() {
	if len(s.Items) == 0 {
		return
	}
	if s.Selected <= 0 {
		s.Selected = len(s.Items) - 1
		return
	}
	s.Selected--
}

// Current returns the focused suggestion text, or "" when none is
// focused.
func (s *SuggestionChips) Current() string {
	if s.Selected < 0 || s.Selected >= len(s.Items) {
		return ""
	}
	return s.Items[s.Selected]
}

// Clear drops all chips and the selection.
func (s *SuggestionChips) Clear() {
	s.Items = nil
	s.Selected = -1
}

// View renders the chip row, or "" when there are no suggestions.
func (s *SuggestionChips) View() string {
	if len(s.Items) == 0 {
		return ""
	}

	maxChip := maxInt(s.Width/len(s.Items)-4, 12)

	chips := make([]string, 0, len(s.Items))
	for i, item := range s.Items {
		text := util.TruncateWidth(item, maxChip)
		style := s.theme.Chip
		if i == s.Selected {
			style = s.theme.ChipSelected
		}
		chips = append(chips, style.Render(text))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, chips...)
}

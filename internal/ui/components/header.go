// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/neerai/neerai-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header renders the title bar: app name and tagline on the left,
// active language and model on the right.
type Header struct {
	Title     string
	Subtitle  string
	Language  string
	ModelName string
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a header with the neerai branding.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    "NeerAI",
		Subtitle: "India's groundwater, in your language",
		Width:    80,
		theme:    theme,
	}
}

// SetWidth sets the available render width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header bar.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render("💧 " + h.Title)
	subtitle := h.theme.HeaderSubtitle.Render(h.Subtitle)
	left := title + "  " + subtitle

	var right string
	if h.Language != "" {
		right = h.theme.HeaderSubtitle.Render(h.Language)
	}
	if h.ModelName != "" {
		if right != "" {
			right += h.theme.HeaderSubtitle.Render(" · ")
		}
		right += h.theme.HeaderSubtitle.Render(h.ModelName)
	}

	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	bar := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return h.theme.Header.Width(h.Width).Render(bar)
}

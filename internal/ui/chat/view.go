// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/neerai/neerai-tui/internal/prompt"
	"github.com/neerai/neerai-tui/internal/session"
	"github.com/neerai/neerai-tui/internal/ui/components"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the full chat screen.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.header.View())

	if m.overlay != overlayNone {
		sections = append(sections, m.renderOverlay())
	} else {
		sections = append(sections, m.viewport.View())
	}

	if chips := m.chips.View(); chips != "" {
		sections = append(sections, chips)
	}

	if m.session.Busy() {
		thinking := m.spinner.View() + " " + m.theme.ThinkingText.Render("NeerAI is thinking...")
		sections = append(sections, thinking)
	}

	sections = append(sections, m.theme.InputContainer.Width(maxInt(m.width-2, 20)).Render(m.input.View()))

	m.syncStatusBar()
	sections = append(sections, m.statusBar.View())

	return m.theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// syncStatusBar mirrors the session state into the status bar.
func (m *Model) syncStatusBar() {
	switch {
	case m.session.Busy():
		m.statusBar.Status = components.StatusThinking
	case m.session.State() == session.StateReady:
		m.statusBar.Status = components.StatusReady
	case m.session.State() == session.StateFailed:
		m.statusBar.Status = components.StatusFailed
	default:
		m.statusBar.Status = components.StatusConnecting
	}
	m.statusBar.Detail = m.statusDetail
}

// renderOverlay draws whichever picker is open in place of the
// transcript.
func (m *Model) renderOverlay() string {
	var box string
	switch m.overlay {
	case overlayLanguage:
		box = m.renderLanguagePicker()
	case overlayStates:
		box = m.stateList.View()
	case overlayHistory:
		box = m.renderHistoryPicker()
	}

	return lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderLanguagePicker() string {
	lines := []string{m.theme.HeaderSubtitle.Render("Select a language")}
	for i, lang := range prompt.Supported {
		label := lang.Name
		if lang.EnglishName != lang.Name {
			label += "  (" + lang.EnglishName + ")"
		}
		if i == m.langIndex {
			lines = append(lines, m.theme.ListItemSelected.Render("▸ "+label))
		} else {
			lines = append(lines, m.theme.ListItem.Render("  "+label))
		}
	}
	return m.theme.ListBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderHistoryPicker() string {
	lines := []string{m.theme.HeaderSubtitle.Render("Resume a conversation")}
	if len(m.history) == 0 {
		lines = append(lines, m.theme.ListItem.Render("no saved conversations"))
	}
	for i, meta := range m.history {
		label := meta.Summary + "  " + m.theme.Timestamp.Render(meta.UpdatedAt.Format("Jan 2 15:04"))
		if i == m.histIndex {
			lines = append(lines, m.theme.ListItemSelected.Render("▸ "+label))
		} else {
			lines = append(lines, m.theme.ListItem.Render("  "+label))
		}
	}
	return m.theme.ListBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

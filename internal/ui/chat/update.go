// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/neerai/neerai-tui/internal/genai"
	"github.com/neerai/neerai-tui/internal/model"
	"github.com/neerai/neerai-tui/internal/session"
	"github.com/neerai/neerai-tui/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles all Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		// Sends run in the background; ticking while busy keeps the
		// optimistic user echo and spinner frames current.
		if m.session.Busy() || m.session.State() == session.StateInitializing {
			m.refreshViewport()
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionReadyMsg:
		if msg.err != nil {
			m.statusDetail = friendlyError(msg.err)
		} else {
			m.statusDetail = ""
		}
		m.header.Language = m.session.Language().Name
		m.chips.Clear()
		m.refreshViewport()
		return m, nil

	case replyMsg:
		if msg.err != nil {
			m.statusDetail = friendlyError(msg.err)
		} else {
			m.statusDetail = ""
			m.updateChips()
		}
		m.refreshViewport()
		return m, m.saveCmd()

	case savedMsg:
		if msg.err != nil {
			m.statusDetail = "could not save conversation"
		}
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.statusDetail = "could not load history"
			m.overlay = overlayNone
			return m, nil
		}
		m.history = msg.metas
		m.histIndex = 0
		return m, nil

	case resumedMsg:
		if msg.err != nil {
			m.statusDetail = friendlyError(msg.err)
			return m, nil
		}
		m.statusDetail = ""
		m.chips.Clear()
		m.header.Language = m.session.Language().Name
		m.refreshViewport()
		return m, m.initSessionCmd()
	}

	return m, nil
}

// handleKey routes key presses, overlays first.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		m.saveOnExit()
		return m, tea.Quit
	}
	if key.Matches(msg, m.keyMap.Logout) {
		m.saveOnExit()
		m.LoggedOut = true
		return m, tea.Quit
	}

	switch m.overlay {
	case overlayLanguage:
		return m.handleLanguageKey(msg)
	case overlayStates:
		return m.handleStatesKey(msg)
	case overlayHistory:
		return m.handleHistoryKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.NextChip):
		m.chips.Next()
		return m, nil

	case key.Matches(msg, m.keyMap.PrevChip):
		m.chips.Prev()
		return m, nil

	case key.Matches(msg, m.keyMap.Language):
		m.overlay = overlayLanguage
		m.langIndex = 0
		return m, nil

	case key.Matches(msg, m.keyMap.States):
		m.overlay = overlayStates
		m.stateList.SetFilter("")
		return m, nil

	case key.Matches(msg, m.keyMap.History):
		if m.store == nil {
			m.statusDetail = "history is disabled"
			return m, nil
		}
		m.overlay = overlayHistory
		m.history = nil
		return m, m.loadHistoryCmd()

	case key.Matches(msg, m.keyMap.NewChat):
		return m, m.resetCmd()

	case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the focused suggestion chip if one is selected,
// otherwise the typed input.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := m.chips.Current()
	if text == "" {
		text = strings.TrimSpace(m.input.Value())
	}
	if text == "" {
		return m, nil
	}
	if m.session.Busy() {
		m.statusDetail = "still thinking, please wait"
		return m, nil
	}

	m.input.Reset()
	m.chips.Clear()
	return m, m.sendCmd(text)
}

// ==========================================================================
// OVERLAY KEY HANDLERS
// ==========================================================================

func (m *Model) handleLanguageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.overlay = overlayNone
	case key.Matches(msg, m.keyMap.Up):
		if m.langIndex > 0 {
			m.langIndex--
		}
	case key.Matches(msg, m.keyMap.Down):
		if m.langIndex < languageCount()-1 {
			m.langIndex++
		}
	case key.Matches(msg, m.keyMap.Submit):
		m.overlay = overlayNone
		return m, m.changeLanguageCmd(languageAt(m.langIndex))
	}
	return m, nil
}

func (m *Model) handleStatesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.overlay = overlayNone
	case key.Matches(msg, m.keyMap.Up):
		m.stateList.Prev()
	case key.Matches(msg, m.keyMap.Down):
		m.stateList.Next()
	case key.Matches(msg, m.keyMap.Submit):
		state := m.stateList.Current()
		m.overlay = overlayNone
		if state == "" {
			return m, nil
		}
		m.chips.Clear()
		return m, m.sendStateCmd(state)
	case msg.Type == tea.KeyBackspace:
		filter := m.stateList.Filter()
		if filter != "" {
			m.stateList.SetFilter(filter[:len(filter)-1])
		}
	case msg.Type == tea.KeyRunes:
		m.stateList.SetFilter(m.stateList.Filter() + string(msg.Runes))
	}
	return m, nil
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.overlay = overlayNone
	case key.Matches(msg, m.keyMap.Up):
		if m.histIndex > 0 {
			m.histIndex--
		}
	case key.Matches(msg, m.keyMap.Down):
		if m.histIndex < len(m.history)-1 {
			m.histIndex++
		}
	case key.Matches(msg, m.keyMap.Submit):
		m.overlay = overlayNone
		if m.histIndex >= 0 && m.histIndex < len(m.history) {
			return m, m.resumeCmd(m.history[m.histIndex].ID)
		}
	}
	return m, nil
}

// ==========================================================================
// VIEW STATE HELPERS
// ==========================================================================

// resize propagates the terminal size to every component.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.chips.Width = width
	m.input.Width = width - 6

	// Header, chips, input, and status bar each take a slice.
	m.viewport.Width = width
	m.viewport.Height = maxInt(height-7, 3)
	m.refreshViewport()
}

// refreshViewport rebuilds the transcript from the session log and
// scrolls to the newest message.
func (m *Model) refreshViewport() {
	msgs := m.session.Messages()

	bubbles := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(maxInt(m.viewport.Width, 40))
		bubble.ShowChart = m.cfg.UI.ShowCharts
		bubble.ChartHeight = m.cfg.UI.ChartHeight
		bubbles = append(bubbles, bubble.View())
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, bubbles...))
	m.viewport.GotoBottom()
}

// saveOnExit persists the conversation before the program stops.
// Failures are ignored: a lost history write must not block quitting.
func (m *Model) saveOnExit() {
	if m.store == nil {
		return
	}
	conv := m.session.Conversation()
	if conv == nil || conv.Len() <= 1 {
		return
	}
	_ = m.store.Save(conv)
}

// updateChips replaces the chip row with the newest bot suggestions.
func (m *Model) updateChips() {
	m.chips.Clear()
	if !m.cfg.UI.ShowSuggestions {
		return
	}
	msgs := m.session.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == model.SenderBot {
			m.chips.Items = append([]string(nil), msgs[i].Suggestions...)
			m.chips.Selected = -1
			return
		}
	}
}

// friendlyError maps session and client errors to short status text.
func friendlyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrBusy):
		return "still thinking, please wait"
	case errors.Is(err, session.ErrNotReady):
		return "not connected yet"
	case genai.IsAuth(err):
		return "authentication failed, check your API key"
	case genai.IsRateLimited(err):
		return "rate limited, try again shortly"
	case genai.IsTimeout(err):
		return "request timed out"
	case genai.IsConnection(err):
		return "network error, check your connection"
	default:
		return "something went wrong, please retry"
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neerai/neerai-tui/internal/prompt"
)

// =============================================================================
// ASYNC COMMANDS
// =============================================================================
//
// Every blocking session call runs inside a tea.Cmd so the event loop
// stays responsive. The session serializes sends itself; commands
// only report outcomes back as messages.

// initSessionCmd connects the session to the model service.
func (m *Model) initSessionCmd() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		return sessionReadyMsg{err: sess.Initialize()}
	}
}

// sendCmd dispatches one user message.
func (m *Model) sendCmd(text string) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		_, err := sess.Send(context.Background(), text)
		return replyMsg{err: err}
	}
}

// sendStateCmd asks the canned summary question for a state.
func (m *Model) sendStateCmd(state string) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		_, err := sess.SendAboutState(context.Background(), state)
		return replyMsg{err: err}
	}
}

// changeLanguageCmd restarts the session in a new language.
func (m *Model) changeLanguageCmd(language prompt.Language) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		if err := sess.ChangeLanguage(language); err != nil {
			return sessionReadyMsg{err: err}
		}
		return sessionReadyMsg{}
	}
}

// resetCmd starts a fresh conversation in the current language.
func (m *Model) resetCmd() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		return sessionReadyMsg{err: sess.Reset()}
	}
}

// saveCmd persists the current conversation, when history is enabled.
func (m *Model) saveCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, sess := m.store, m.session
	return func() tea.Msg {
		return savedMsg{err: store.Save(sess.Conversation())}
	}
}

// loadHistoryCmd fetches the saved conversation list.
func (m *Model) loadHistoryCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		metas, err := store.List()
		return historyMsg{metas: metas, err: err}
	}
}

// resumeCmd loads a saved conversation into the session.
func (m *Model) resumeCmd(id string) tea.Cmd {
	store, sess := m.store, m.session
	return func() tea.Msg {
		conv, err := store.Load(id)
		if err != nil {
			return resumedMsg{err: err}
		}
		return resumedMsg{err: sess.Resume(conv)}
	}
}

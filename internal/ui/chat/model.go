// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neerai/neerai-tui/internal/config"
	"github.com/neerai/neerai-tui/internal/prompt"
	"github.com/neerai/neerai-tui/internal/session"
	"github.com/neerai/neerai-tui/internal/storage"
	"github.com/neerai/neerai-tui/internal/ui/components"
	"github.com/neerai/neerai-tui/internal/ui/styles"
)

// =============================================================================
// OVERLAYS
// =============================================================================

// overlay identifies which picker, if any, covers the chat view.
type overlay int

const (
	overlayNone overlay = iota
	overlayLanguage
	overlayStates
	overlayHistory
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Wiring
	session *session.Session
	store   *storage.ConversationStore // nil when history is disabled
	cfg     *config.Config
	theme   *styles.Theme

	// Dimensions
	width  int
	height int

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model
	header    *components.Header
	statusBar *components.StatusBar
	chips     *components.SuggestionChips
	stateList *components.StateList

	// Overlay state
	overlay   overlay
	langIndex int
	history   []storage.ConversationMeta
	histIndex int

	// Key bindings
	keyMap KeyMap

	// Last transient error, shown in the status bar until the next
	// successful action.
	statusDetail string

	// LoggedOut is set when the user quit via the logout binding;
	// main re-runs the login gate instead of exiting.
	LoggedOut bool
}

// New creates the chat model. The store may be nil when conversation
// history is disabled in the config.
func New(sess *session.Session, store *storage.ConversationStore, cfg *config.Config, theme *styles.Theme) *Model {
	input := textinput.New()
	input.Placeholder = "Ask about groundwater in any Indian state..."
	input.Prompt = "❯ "
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	header := components.NewHeader(theme)
	header.Language = sess.Language().Name
	header.ModelName = cfg.API.Model

	m := &Model{
		session:   sess,
		store:     store,
		cfg:       cfg,
		theme:     theme,
		viewport:  viewport.New(80, 20),
		input:     input,
		spinner:   sp,
		header:    header,
		statusBar: components.NewStatusBar(theme),
		chips:     components.NewSuggestionChips(nil, theme),
		stateList: components.NewStateList(prompt.States, theme),
		keyMap:    DefaultKeyMap(),
	}
	m.refreshViewport()
	return m
}

// Init connects the session and starts the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.initSessionCmd(),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// languageCount returns the number of supported languages.
func languageCount() int {
	return len(prompt.Supported)
}

// languageAt returns the supported language at the picker index.
func languageAt(i int) prompt.Language {
	if i < 0 || i >= len(prompt.Supported) {
		return prompt.Default()
	}
	return prompt.Supported[i]
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/neerai/neerai-tui/internal/model"
	"github.com/neerai/neerai-tui/internal/parse"
	"github.com/neerai/neerai-tui/internal/prompt"
)

// =============================================================================
// CONNECTION ABSTRACTION
// =============================================================================

// Conn is one live conversation connection to the model.
type Conn interface {
	// Send submits one user turn and returns the raw model reply.
	Send(ctx context.Context, text string) (string, error)

	// Close releases the connection. Closing twice is a no-op.
	Close()
}

// Dialer opens a fresh connection for the given language.
type Dialer interface {
	Dial(language prompt.Language) (Conn, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(language prompt.Language) (Conn, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(language prompt.Language) (Conn, error) {
	return f(language)
}

// =============================================================================
// SESSION STATE
// =============================================================================

// State is the lifecycle state of a session.
type State int

const (
	// StateUninitialized means Initialize has not been called yet.
	StateUninitialized State = iota

	// StateInitializing means a connection attempt is in progress.
	StateInitializing

	// StateReady means the session can send messages.
	StateReady

	// StateFailed means the last connection attempt failed.
	// Initialize may be called again to retry.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sentinel errors for send and lifecycle failures.
var (
	// ErrBusy means a message is already in flight.
	ErrBusy = errors.New("a message is already being sent")

	// ErrNotReady means the session has no live connection.
	ErrNotReady = errors.New("session is not ready")

	// ErrInitializing means an initialization is already in progress.
	ErrInitializing = errors.New("session is already initializing")
)

// errorReplyText is shown in the log when a send fails.
const errorReplyText = "Sorry, I encountered an error. Please try again."

// initFailedText seeds the log when the connection cannot be opened.
const initFailedText = "Sorry, I could not connect to the service. Please check your configuration and try again."

// =============================================================================
// SESSION
// =============================================================================

// Session owns one conversation: its message log, language, and the
// single connection to the model.
type Session struct {
	mu sync.Mutex

	dialer   Dialer
	language prompt.Language

	state State
	err   error
	busy  bool

	conn         Conn
	conversation *model.Conversation
}

// New creates a session in the given language. The conversation log
// starts with the localized welcome message, so the log is never
// empty. The session starts Uninitialized; call Initialize before
// sending.
func New(dialer Dialer, language prompt.Language) *Session {
	return &Session{
		dialer:       dialer,
		language:     language,
		state:        StateUninitialized,
		conversation: seededConversation(language),
	}
}

// seededConversation builds a fresh log holding only the welcome
// message for the language.
func seededConversation(l prompt.Language) *model.Conversation {
	conv := model.NewConversation(l.EnglishName)
	conv.AppendBot(prompt.WelcomeMessage(l))
	return conv
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Initialize opens the connection. It may be called from
// Uninitialized or Failed; calling it while another initialization
// runs returns ErrInitializing, and calling it when Ready is a no-op.
func (s *Session) Initialize() error {
	s.mu.Lock()
	switch s.state {
	case StateReady:
		s.mu.Unlock()
		return nil
	case StateInitializing:
		s.mu.Unlock()
		return ErrInitializing
	}
	s.state = StateInitializing
	s.err = nil
	dialer := s.dialer
	language := s.language
	s.mu.Unlock()

	conn, err := dialer.Dial(language)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		s.err = err
		// A fresh log is reseeded with a failure notice; a resumed
		// conversation with real turns is left intact.
		if s.conversation.LastUser() == nil {
			conv := model.NewConversation(language.EnglishName)
			conv.AppendBot(initFailedText)
			s.conversation = conv
		}
		slog.Error("session initialization failed", "language", language.EnglishName, "error", err)
		return err
	}
	s.conn = conn
	s.state = StateReady
	// A retry after a failure swaps the failure notice back for the
	// greeting.
	if s.conversation.LastUser() == nil {
		s.conversation = seededConversation(language)
	}
	slog.Info("session ready", "language", language.EnglishName)
	return nil
}

// ChangeLanguage switches the session to a new language. The current
// connection is closed first, the log is replaced with the new
// language's welcome message, and a fresh connection is opened.
func (s *Session) ChangeLanguage(language prompt.Language) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.state == StateInitializing {
		s.mu.Unlock()
		return ErrInitializing
	}
	s.closeConnLocked()
	s.language = language
	s.conversation = seededConversation(language)
	s.state = StateUninitialized
	s.err = nil
	s.mu.Unlock()

	return s.Initialize()
}

// Reset discards the conversation and starts a new one in the same
// language, on a fresh connection.
func (s *Session) Reset() error {
	return s.ChangeLanguage(s.Language())
}

// Resume replaces the log with a previously saved conversation and
// opens a fresh connection in that conversation's language. The model
// does not see the old turns again; only the display log is restored.
func (s *Session) Resume(conv *model.Conversation) error {
	if conv == nil || conv.IsEmpty() {
		return errors.New("cannot resume an empty conversation")
	}
	language := prompt.ByName(conv.Language)

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.state == StateInitializing {
		s.mu.Unlock()
		return ErrInitializing
	}
	s.closeConnLocked()
	s.language = language
	s.conversation = conv
	s.state = StateUninitialized
	s.err = nil
	s.mu.Unlock()

	return s.Initialize()
}

// Close shuts the session down. Further sends fail with ErrNotReady.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeConnLocked()
	s.state = StateUninitialized
}

// closeConnLocked closes the live connection, if any. Callers hold mu.
func (s *Session) closeConnLocked() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

// =============================================================================
// MESSAGE DISPATCH
// =============================================================================

// Send submits one user message and appends the parsed reply to the
// log. The user message is appended before the network call, so it
// stays in the log even if the send fails; a failed send also appends
// an error reply so the log records what happened.
//
// Only one send may be in flight: concurrent calls fail with ErrBusy.
// The busy flag is released when the send finishes, whether it
// succeeded, failed, or panicked.
func (s *Session) Send(ctx context.Context, text string) (*model.Message, error) {
	// Blank input is dropped silently: no log append, no request.
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	s.mu.Lock()
	if s.state != StateReady || s.conn == nil {
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	conn := s.conn
	s.conversation.AppendUser(text)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	raw, err := conn.Send(ctx, text)
	if err != nil {
		slog.Warn("send failed", "error", err)
		s.mu.Lock()
		s.conversation.AppendBot(errorReplyText)
		s.mu.Unlock()
		return nil, err
	}

	reply := parse.Parse(raw)
	msg := model.NewBotMessageWithPayload(reply.DisplayText, reply.Chart, reply.Suggestions)

	s.mu.Lock()
	s.conversation.Append(msg)
	s.mu.Unlock()
	return msg, nil
}

// SendAboutState submits the canned query for a state picked from the
// browser.
func (s *Session) SendAboutState(ctx context.Context, stateName string) (*model.Message, error) {
	return s.Send(ctx, prompt.StateQuery(stateName))
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ready reports whether the session can send.
func (s *Session) Ready() bool {
	return s.State() == StateReady
}

// Busy reports whether a send is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Err returns the error from the last failed initialization, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Language returns the session language.
func (s *Session) Language() prompt.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// Conversation returns the live conversation log. The caller must not
// mutate it; use Messages for a stable snapshot.
func (s *Session) Conversation() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation
}

// Messages returns a snapshot of the message log.
func (s *Session) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Message, len(s.conversation.Messages))
	copy(out, s.conversation.Messages)
	return out
}

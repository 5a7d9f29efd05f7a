// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/neerai/neerai-tui/internal/util"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "NeerAI"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one turn of the conversation. Messages are created once at
// send/receive time and never mutated afterwards.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`

	// Display text, markdown-flavored (**bold**, `code`, leading-* bullets).
	Text string `json:"text"`

	// Structured payload, present only on bot messages whose reply embedded
	// chart data. Nil means the reply carried no chart.
	Chart *ChartSeries `json:"chart,omitempty"`

	// Follow-up query suggestions, present only on bot messages.
	Suggestions []string `json:"suggestions,omitempty"`
}

// NewUserMessage creates a user message.
func NewUserMessage(text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Sender:    SenderUser,
		Timestamp: time.Now(),
		Text:      text,
	}
}

// NewBotMessage creates a bot message with no structured payload.
func NewBotMessage(text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Sender:    SenderBot,
		Timestamp: time.Now(),
		Text:      text,
	}
}

// NewBotMessageWithPayload creates a bot message carrying parsed chart and
// suggestion data.
func NewBotMessageWithPayload(text string, chart *ChartSeries, suggestions []string) *Message {
	msg := NewBotMessage(text)
	msg.Chart = chart
	msg.Suggestions = suggestions
	return msg
}

// HasChart reports whether the message carries a non-nil chart series.
func (m *Message) HasChart() bool {
	return m.Chart != nil && len(m.Chart.Points) > 0
}

// Preview returns a one-line truncated preview of the message text.
func (m *Message) Preview(maxRunes int) string {
	return util.TruncateRunes(util.CollapseNewlines(m.Text), maxRunes)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the append-only message log of one chat session.
// Insertion order is chronological order; messages are never reordered or
// removed. A session reset replaces the whole conversation.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages
	Messages []*Message `json:"messages"`
}

// NewConversation creates an empty conversation for the given response
// language.
func NewConversation(language string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		Language:  language,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the end of the log.
func (c *Conversation) Append(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AppendUser creates and appends a user message, returning it.
func (c *Conversation) AppendUser(text string) *Message {
	msg := NewUserMessage(text)
	c.Append(msg)
	return msg
}

// AppendBot creates and appends a plain bot message, returning it.
func (c *Conversation) AppendBot(text string) *Message {
	msg := NewBotMessage(text)
	c.Append(msg)
	return msg
}

// Last returns the most recent message, or nil if the log is empty.
func (c *Conversation) Last() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastUser returns the most recent user message, or nil.
func (c *Conversation) LastUser() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Sender == SenderUser {
			return c.Messages[i]
		}
	}
	return nil
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// IsEmpty reports whether the log holds no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Preview returns a short one-line summary, taken from the first user
// message when one exists.
func (c *Conversation) Preview() string {
	for _, msg := range c.Messages {
		if msg.Sender == SenderUser {
			return msg.Preview(80)
		}
	}
	if len(c.Messages) > 0 {
		return c.Messages[0].Preview(80)
	}
	return "Empty conversation"
}

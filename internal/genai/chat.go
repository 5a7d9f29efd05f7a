// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"context"
	"sync"
)

// =============================================================================
// CHAT HANDLE
// =============================================================================

// Chat is a stateful conversation handle over a Client. It carries the
// system instruction and the wire-format history across turns.
//
// A failed Send leaves the history untouched, so the user can retry
// the same question without the model seeing a half-recorded turn.
type Chat struct {
	mu      sync.Mutex
	client  *Client
	model   string
	system  *Content
	history []Content
	closed  bool
}

// NewChat creates a conversation handle with the given system
// instruction. An empty model selects the client's default.
func (c *Client) NewChat(model, systemInstruction string) *Chat {
	chat := &Chat{
		client: c,
		model:  model,
	}
	if systemInstruction != "" {
		chat.system = &Content{Parts: []Part{{Text: systemInstruction}}}
	}
	return chat
}

// Send submits one user turn and returns the model's text reply.
// On success the user turn and the reply are appended to the history;
// on failure the history is unchanged.
func (ch *Chat) Send(ctx context.Context, text string) (string, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.closed {
		return "", &ClientError{Type: ErrTypeConnection, Message: "chat is closed"}
	}

	userTurn := NewUserContent(text)
	contents := make([]Content, 0, len(ch.history)+1)
	contents = append(contents, ch.history...)
	contents = append(contents, userTurn)

	resp, err := ch.client.Generate(ctx, ch.model, &GenerateRequest{
		SystemInstruction: ch.system,
		Contents:          contents,
	})
	if err != nil {
		return "", err
	}

	reply := resp.Text()
	ch.history = append(ch.history, userTurn, NewModelContent(reply))
	return reply, nil
}

// Close marks the handle unusable. Subsequent Sends fail. Closing an
// already closed chat is a no-op.
func (ch *Chat) Close() {
	ch.mu.Lock()
	ch.closed = true
	ch.mu.Unlock()
}

// Len returns the number of turns recorded in the history.
func (ch *Chat) Len() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.history)
}

// History returns a copy of the recorded conversation turns.
func (ch *Chat) History() []Content {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	out := make([]Content, len(ch.history))
	copy(out, ch.history)
	return out
}

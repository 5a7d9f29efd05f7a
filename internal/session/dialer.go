// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/neerai/neerai-tui/internal/genai"
	"github.com/neerai/neerai-tui/internal/prompt"
)

// GenaiDialer opens chat connections against the hosted model, with
// the system instruction locked to the requested language.
type GenaiDialer struct {
	Client *genai.Client
	// Model overrides the client default when non-empty.
	Model string
}

// Dial implements Dialer.
func (d *GenaiDialer) Dial(language prompt.Language) (Conn, error) {
	return d.Client.NewChat(d.Model, prompt.SystemInstruction(language)), nil
}

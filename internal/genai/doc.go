// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai provides the HTTP client for the hosted Gemini
// generateContent API.
//
// The package has two layers:
//
//   - Client: a thread-safe HTTP client with retry and a typed error
//     taxonomy (ClientError). It knows nothing about conversations.
//   - Chat: a stateful handle over one conversation. It carries the
//     system instruction and the wire-format history, and appends a
//     turn to the history only after the model answered it.
//
// Errors are categorized so callers can branch on the kind of failure
// without string matching:
//
//	resp, err := chat.Send(ctx, text)
//	if genai.IsAuth(err) {
//	    // bad or missing API key
//	}
package genai

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the state of one chat: the message log, the
// selected language, and the single connection to the model.
//
// A Session moves through four states:
//
//	Uninitialized -> Initializing -> Ready
//	                              \-> Failed
//
// Changing the language or resetting the chat closes the current
// connection before opening a new one, so at most one connection is
// live at any time. Send is single-flight: while one message is in
// flight the session reports Busy and rejects further sends, and the
// busy flag is always released when the send finishes, however it
// finishes.
package session

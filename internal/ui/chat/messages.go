// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/neerai/neerai-tui/internal/storage"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// sessionReadyMsg reports the outcome of connecting the session,
// either at startup or after a language change.
type sessionReadyMsg struct {
	err error
}

// replyMsg reports the outcome of one dispatched user message. The
// session has already appended both sides of the exchange (or the
// error reply) to its log by the time this arrives.
type replyMsg struct {
	err error
}

// savedMsg reports the outcome of persisting the conversation.
type savedMsg struct {
	err error
}

// historyMsg delivers the saved conversation list for the history
// overlay.
type historyMsg struct {
	metas []storage.ConversationMeta
	err   error
}

// resumedMsg reports the outcome of loading a saved conversation into
// the session.
type resumedMsg struct {
	err error
}

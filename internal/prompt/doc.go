// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt holds the NeerAI domain catalog: the supported response
// languages with their greetings, the Indian states and union territories
// the assistant can be asked about, and the system instruction sent to the
// model when a chat session is opened.
package prompt

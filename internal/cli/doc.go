// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the plain-terminal chat REPL used with the
// --plain flag: readline-style input with history, markdown rendering
// of replies, and slash commands for language, states, and saved
// conversations. The full-screen experience lives in ui/chat.
package cli

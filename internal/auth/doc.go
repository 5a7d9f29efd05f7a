// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the optional login gate in front of the chat.
//
// Authentication is pluggable through the Authenticator interface.
// Two implementations are provided:
//
//   - Local: verifies a username and password against a credentials
//     file holding bcrypt hashes, with per-user rate limiting and an
//     optional TOTP step for admin accounts.
//   - Federated: delegates verification of an externally issued token
//     to a caller-supplied verifier.
//
// Passwords are never stored in plain text. The credentials file
// holds only bcrypt hashes and is written with mode 0600.
package auth

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for neerai.
//
// Conversations live in a single SQLite database. Message text is
// stored as columns; chart payloads and suggestion lists are stored
// as JSON blobs so the schema does not need to change when the payload
// shape grows.
package storage

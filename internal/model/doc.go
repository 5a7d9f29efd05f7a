// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for NeerAI conversations.
//
// A Conversation is an append-only, chronologically ordered log of Message
// values. Bot messages may carry a ChartSeries (groundwater level data the
// assistant embedded in its reply) and follow-up suggestion strings; user
// messages carry text only. Messages are immutable once appended.
//
// ChartSeries is a tagged variant: a series is either a single-state trend
// (one level per point) or a multi-state comparison (one level per compared
// state per point). Renderers switch on the kind instead of probing an open
// map for numeric fields.
package model

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for neerai.
//
// Configuration is TOML with sensible defaults and environment
// variable overrides. Locations, in order of precedence:
//
//   - NEERAI_* / GEMINI_API_KEY environment variables
//   - ~/.neerai/config.toml
//   - Built-in defaults
//
// The config file is created and kept at mode 0600 because it can
// hold the API key.
package config

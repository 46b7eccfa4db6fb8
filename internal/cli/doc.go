// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the interactive terminal surface of the chat
// client: argument parsing, the liner-based REPL, lipgloss styling, glamour
// markdown rendering, and the typing animation.
//
// The package is presentation only. Conversation state lives in
// internal/model and transport in internal/ollama, so everything here can
// be swapped out without touching the core.
package cli

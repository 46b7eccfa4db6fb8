// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat loop.
//
// Input beginning with "/" is parsed and dispatched through a Registry of
// Command definitions; anything else is treated as a chat message. Handlers
// receive a Context carrying the client, session, and mutable chat state,
// and write their output through the Printer interface.
//
// # Key Types
//
//   - Registry: command lookup by name or alias
//   - Parser: splits input into command name and arguments
//   - Context: dependencies injected into handlers
//   - Completer: tab completion for commands and model names
//
// A handler returns ErrExit to end the chat loop; any other error is shown
// to the user and the loop continues.
package commands

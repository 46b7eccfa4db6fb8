// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// This package defines the core domain types used throughout the application
// for representing the conversation sent to the inference server.
//
// # Key Types
//
//   - Session: Ordered message history with a fixed leading system message
//   - Message: Single immutable message with role and content
//   - Role: Message role enumeration (system, user, assistant)
//
// # Usage
//
// Create a session and record a turn:
//
//	sess := model.NewSession("You are a helpful assistant.")
//	sess.AppendUser("Hello!")
//	sess.AppendAssistant("Hi, how can I help?")
//	req := sess.ToChatRequest("llama3.2", true)
package model

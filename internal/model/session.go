// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import "time"

// DefaultSystemPrompt is the instruction placed at the start of every session.
const DefaultSystemPrompt = "You are a helpful terminal assistant. " +
	"Provide clear, concise responses focused on programming and technical help."

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds the ordered conversation history sent to the inference
// server.
//
// Invariants maintained by this type:
//
//   - messages[0] is always a system message, present from construction and
//     restored by Reset.
//   - Messages are appended only at the end; they are never reordered or
//     removed individually (Truncate exists solely so a failed exchange can
//     roll back to a prior length).
type Session struct {
	messages     []Message
	systemPrompt string

	// StartedAt records session creation for the exit summary.
	StartedAt time.Time
}

// NewSession creates a session seeded with the given system prompt.
// An empty prompt falls back to DefaultSystemPrompt.
func NewSession(systemPrompt string) *Session {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Session{
		messages:     []Message{NewSystemMessage(systemPrompt)},
		systemPrompt: systemPrompt,
		StartedAt:    time.Now(),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AppendUser appends a user turn. Content is taken as-is; empty input is
// filtered by the caller, not here.
func (s *Session) AppendUser(content string) {
	s.messages = append(s.messages, NewUserMessage(content))
}

// AppendAssistant appends an assistant turn. Called only after a successful
// exchange; an empty reply is still recorded.
func (s *Session) AppendAssistant(content string) {
	s.messages = append(s.messages, NewAssistantMessage(content))
}

// Reset discards all turns and reinitializes the session with its single
// system message.
func (s *Session) Reset() {
	s.messages = []Message{NewSystemMessage(s.systemPrompt)}
}

// TurnCount returns the number of messages excluding the system message.
func (s *Session) TurnCount() int {
	return len(s.messages) - 1
}

// Len returns the total message count including the system message.
func (s *Session) Len() int {
	return len(s.messages)
}

// Truncate trims the session back to n messages. Used to roll back a user
// turn when the exchange fails, so errors leave the session unchanged.
// n is clamped to keep the system message.
func (s *Session) Truncate(n int) {
	if n < 1 {
		n = 1
	}
	if n < len(s.messages) {
		s.messages = s.messages[:n]
	}
}

// History returns the conversation turns excluding the system message.
// The returned slice is a copy; mutating it does not affect the session.
func (s *Session) History() []Message {
	out := make([]Message, len(s.messages)-1)
	copy(out, s.messages[1:])
	return out
}

// SystemPrompt returns the instruction text the session was seeded with.
func (s *Session) SystemPrompt() string {
	return s.systemPrompt
}

// =============================================================================
// WIRE PAYLOAD
// =============================================================================

// ChatRequest is the request body for the Ollama /api/chat endpoint.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// ToChatRequest produces the wire payload for one exchange: the configured
// model, the full ordered message list including the system message, and the
// streaming flag.
func (s *Session) ToChatRequest(model string, stream bool) ChatRequest {
	msgs := make([]Message, len(s.messages))
	copy(msgs, s.messages)
	return ChatRequest{
		Model:    model,
		Messages: msgs,
		Stream:   stream,
	}
}

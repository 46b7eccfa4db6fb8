// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for the Ollama REST API.
//
// The client speaks to a locally running server over two endpoints:
// GET /api/tags for model discovery and health checks, and POST /api/chat
// for exchanges in streaming or non-streaming mode.
//
// # Key Types
//
//   - Client: the API client, with per-operation timeouts
//   - ClientConfig: base URL, default model, timeout settings
//   - ClientError: categorized errors with user-facing hints
//   - StreamReader: line-by-line decoder for streaming responses
//
// # Usage
//
//	client, err := ollama.NewClient(nil)
//	if err != nil {
//	    return err
//	}
//	session := model.NewSession("")
//	reply, err := client.SendTurn(ctx, session, "llama3.2", "hello", true,
//	    func(fragment string) { fmt.Print(fragment) })
//
// SendTurn leaves the session unchanged when the exchange fails, so a
// retry sends the same history.
package ollama

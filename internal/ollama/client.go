// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with the Ollama API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/jeranaias/ollamachat/internal/model"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Ollama client.
type ClientConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434)
	BaseURL string

	// DefaultModel to use if none specified (default: "llama3.2")
	DefaultModel string

	// HealthTimeout bounds connectivity checks (default: 5s)
	HealthTimeout time.Duration

	// ListTimeout bounds model listing (default: 10s)
	ListTimeout time.Duration

	// ChatTimeout bounds a full chat exchange, streaming included (default: 60s)
	ChatTimeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       "http://localhost:11434",
		DefaultModel:  "llama3.2",
		HealthTimeout: 5 * time.Second,
		ListTimeout:   10 * time.Second,
		ChatTimeout:   60 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Ollama API.
// It provides methods for health checks, model listing, and chat exchanges.
//
// Example:
//
//	client, err := ollama.NewClient(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !client.CheckConnection(ctx) {
//	    fmt.Println("Ollama not available")
//	}
type Client struct {
	config     *ClientConfig
	httpClient *http.Client

	// Notify receives diagnostic messages the client considers non-fatal,
	// such as skipped malformed stream lines. Nil disables reporting.
	Notify func(msg string)
}

// NewClient creates a client, filling zero config values with defaults.
// Returns an error if the base URL does not parse; that is the only
// construction failure.
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.DefaultModel == "" {
		config.DefaultModel = "llama3.2"
	}
	if config.HealthTimeout == 0 {
		config.HealthTimeout = 5 * time.Second
	}
	if config.ListTimeout == 0 {
		config.ListTimeout = 10 * time.Second
	}
	if config.ChatTimeout == 0 {
		config.ChatTimeout = 60 * time.Second
	}

	u, err := url.Parse(config.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &ClientError{
			Type:    ErrTypeTransport,
			Message: "invalid server URL: " + config.BaseURL,
			Cause:   err,
		}
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config: config,
		// Per-request deadlines come from context, not the transport.
		httpClient: &http.Client{},
	}, nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckConnection reports whether the Ollama server is reachable.
// Any response at all counts as reachable; only transport failures
// return false.
func (c *Client) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.config.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// =============================================================================
// MODEL OPERATIONS
// =============================================================================

// ListModels retrieves the names of all installed models.
// A reachable server with an unexpected body yields an empty list, not an
// error; only transport failures and non-200 statuses are reported.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.ListTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeTransport, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp, "failed to list models")
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.notify("could not parse model list, treating as empty")
		return []string{}, nil
	}

	names := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// FragmentFunc receives each content fragment as it arrives during a
// streaming exchange.
type FragmentFunc func(fragment string)

// Chat sends a non-streaming chat request and returns the complete reply text.
func (c *Client) Chat(ctx context.Context, reqBody model.ChatRequest) (string, error) {
	resp, err := c.postChat(ctx, reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{
			Type:    ErrTypeDecode,
			Message: "failed to decode chat response",
			Hint:    hintCheckResponse,
			Cause:   err,
		}
	}
	return result.Message.Content, nil
}

// ChatStream sends a streaming chat request, invoking onFragment for each
// content fragment, and returns the full accumulated reply.
func (c *Client) ChatStream(ctx context.Context, reqBody model.ChatRequest, onFragment FragmentFunc) (string, error) {
	resp, err := c.postChat(ctx, reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	reader := NewStreamReader(resp.Body)
	err = reader.Process(ctx, onFragment)
	if n := reader.SkippedLines(); n > 0 {
		c.notify("skipped " + formatInt(n) + " malformed stream line(s)")
	}
	if err != nil {
		return "", err
	}
	return reader.Accumulated(), nil
}

// SendTurn runs one full exchange against the session: the user text is
// appended, the request is sent, and on success the assistant reply is
// appended and returned. On any failure the session is rolled back to its
// prior state.
//
// When stream is true, onFragment (if non-nil) receives reply fragments as
// they arrive.
func (c *Client) SendTurn(ctx context.Context, session *model.Session, modelName, userText string, stream bool, onFragment FragmentFunc) (string, error) {
	if modelName == "" {
		modelName = c.config.DefaultModel
	}

	mark := session.Len()
	session.AppendUser(userText)

	reqBody := session.ToChatRequest(modelName, stream)

	var reply string
	var err error
	if stream {
		reply, err = c.ChatStream(ctx, reqBody, onFragment)
	} else {
		reply, err = c.Chat(ctx, reqBody)
	}
	if err != nil {
		session.Truncate(mark)
		return "", err
	}

	session.AppendAssistant(reply)
	return reply, nil
}

// postChat issues the POST /api/chat request and maps failures onto the
// error taxonomy. The caller owns the response body on success.
func (c *Client) postChat(ctx context.Context, reqBody model.ChatRequest) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.ChatTimeout)
	resp, err := c.doPostChat(ctx, reqBody)
	if err != nil {
		cancel()
		return nil, err
	}
	// Tie the timeout to body consumption.
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *Client) doPostChat(ctx context.Context, reqBody model.ChatRequest) (*http.Response, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeDecode, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeTransport, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.apiError(resp, "chat request failed")
	}
	return resp, nil
}

// =============================================================================
// UTILITY METHODS
// =============================================================================

// Config returns the client configuration.
func (c *Client) Config() *ClientConfig {
	return c.config
}

// DefaultModel returns the configured default model.
func (c *Client) DefaultModel() string {
	return c.config.DefaultModel
}

func (c *Client) notify(msg string) {
	if c.Notify != nil {
		c.Notify(msg)
	}
}

// transportError maps a failed http.Client.Do onto the taxonomy.
func (c *Client) transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrNotRunning
	}
	return &ClientError{
		Type:    ErrTypeTransport,
		Message: "cannot reach Ollama server at " + c.config.BaseURL,
		Hint:    hintServerDown,
		Cause:   err,
	}
}

// maxErrorBodyBytes caps how much of a non-200 body is kept on the error.
const maxErrorBodyBytes = 4096

// apiError builds a ClientError from a non-200 response. The raw body is
// kept on the error; when it is the usual {"error": ...} JSON shape the
// server's message replaces the status line, otherwise the raw text is
// appended so nothing the server said is lost.
func (c *Client) apiError(resp *http.Response, prefix string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	body := strings.TrimSpace(string(raw))

	msg := prefix + ": " + resp.Status
	var ollamaErr OllamaError
	if err := json.Unmarshal(raw, &ollamaErr); err == nil && ollamaErr.Error != "" {
		msg = prefix + ": " + ollamaErr.Error
	} else if body != "" {
		msg += ": " + body
	}

	return &ClientError{
		Type:       ErrTypeAPI,
		Message:    msg,
		Hint:       hintModelMissing,
		StatusCode: resp.StatusCode,
		Body:       body,
	}
}

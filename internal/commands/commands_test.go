// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jeranaias/ollamachat/internal/config"
	"github.com/jeranaias/ollamachat/internal/model"
	"github.com/jeranaias/ollamachat/internal/ollama"
)

// recorder captures Printer output for assertions.
type recorder struct {
	lines []string
}

func (r *recorder) Print(text string)   { r.lines = append(r.lines, text) }
func (r *recorder) Success(text string) { r.lines = append(r.lines, text) }
func (r *recorder) Error(text string)   { r.lines = append(r.lines, "error: "+text) }
func (r *recorder) Hint(text string)    { r.lines = append(r.lines, "hint: "+text) }

func (r *recorder) joined() string {
	return strings.Join(r.lines, "\n")
}

func newTestContext(t *testing.T, handler http.Handler) (*Context, *recorder) {
	t.Helper()

	var client *ollama.Client
	var err error
	if handler != nil {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		client, err = ollama.NewClient(&ollama.ClientConfig{BaseURL: server.URL})
	} else {
		client, err = ollama.NewClient(nil)
	}
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	out := &recorder{}
	ctx := NewContext(
		config.Default(),
		client,
		model.NewSession(""),
		&State{Model: "llama3.2", Streaming: true},
		NewRegistry(),
		out,
	)
	return ctx, out
}

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestParserPlainInput(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("hello there")
	if result.IsCommand {
		t.Error("plain input should not be a command")
	}
	if result.RawInput != "hello there" {
		t.Errorf("RawInput = %q", result.RawInput)
	}
}

func TestParserKnownCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/model llama3.2")
	if !result.IsCommand {
		t.Fatal("should be a command")
	}
	if result.Command == nil || result.Command.Name != "/model" {
		t.Errorf("Command = %+v", result.Command)
	}
	if len(result.Args) != 1 || result.Args[0] != "llama3.2" {
		t.Errorf("Args = %v", result.Args)
	}
}

func TestParserUnknownCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/bogus")
	if !result.IsCommand {
		t.Fatal("should be a command")
	}
	if result.Command != nil {
		t.Errorf("Command = %+v, want nil", result.Command)
	}
	if result.CommandName != "/bogus" {
		t.Errorf("CommandName = %q", result.CommandName)
	}
}

func TestParserQuotedArgs(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse(`/model "my model"`)
	if len(result.Args) != 1 || result.Args[0] != "my model" {
		t.Errorf("Args = %v", result.Args)
	}
}

func TestParserAlias(t *testing.T) {
	aliases := map[string]string{
		"/h":    "/help",
		"/?":    "/help",
		"/q":    "/quit",
		"/exit": "/quit",
		"/c":    "/clear",
		"/m":    "/model",
	}
	p := NewParser(NewRegistry())

	for alias, want := range aliases {
		result := p.Parse(alias)
		if result.Command == nil || result.Command.Name != want {
			t.Errorf("Parse(%q).Command = %+v, want %s", alias, result.Command, want)
		}
	}
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"/help", "/quit", "/clear", "/history", "/model", "/models", "/status", "/stream"} {
		if r.Get(name) == nil {
			t.Errorf("builtin %s not registered", name)
		}
	}
}

func TestRegistryByCategory(t *testing.T) {
	r := NewRegistry()
	byCategory := r.ByCategory()

	if len(byCategory["Navigation"]) == 0 {
		t.Error("Navigation category empty")
	}
	if len(byCategory["Conversation"]) == 0 {
		t.Error("Conversation category empty")
	}
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

func TestHandleQuit(t *testing.T) {
	ctx, _ := newTestContext(t, nil)

	err := HandleQuit(ctx, nil)
	if !errors.Is(err, ErrExit) {
		t.Errorf("err = %v, want ErrExit", err)
	}
}

func TestHandleClear(t *testing.T) {
	ctx, out := newTestContext(t, nil)
	ctx.Session.AppendUser("hi")
	ctx.Session.AppendAssistant("hello")

	if err := HandleClear(ctx, nil); err != nil {
		t.Fatalf("HandleClear: %v", err)
	}
	if ctx.Session.TurnCount() != 0 {
		t.Errorf("TurnCount = %d, want 0", ctx.Session.TurnCount())
	}
	if !strings.Contains(out.joined(), "cleared") {
		t.Errorf("output = %q", out.joined())
	}
}

func TestHandleHistoryEmpty(t *testing.T) {
	ctx, out := newTestContext(t, nil)

	if err := HandleHistory(ctx, nil); err != nil {
		t.Fatalf("HandleHistory: %v", err)
	}
	if !strings.Contains(out.joined(), "No conversation history") {
		t.Errorf("output = %q", out.joined())
	}
}

func TestHandleHistoryShowsTurns(t *testing.T) {
	ctx, out := newTestContext(t, nil)
	ctx.Session.AppendUser("first question")
	ctx.Session.AppendAssistant("first answer")

	if err := HandleHistory(ctx, nil); err != nil {
		t.Fatalf("HandleHistory: %v", err)
	}
	got := out.joined()
	if !strings.Contains(got, "You: first question") {
		t.Errorf("output missing user turn: %q", got)
	}
	if !strings.Contains(got, "Ollama: first answer") {
		t.Errorf("output missing assistant turn: %q", got)
	}
}

func TestHandleModelShowsCurrent(t *testing.T) {
	ctx, out := newTestContext(t, nil)

	if err := HandleModel(ctx, nil); err != nil {
		t.Fatalf("HandleModel: %v", err)
	}
	if !strings.Contains(out.joined(), "llama3.2") {
		t.Errorf("output = %q", out.joined())
	}
}

func TestHandleModelSwitches(t *testing.T) {
	ctx, out := newTestContext(t, nil)

	if err := HandleModel(ctx, []string{"codellama:7b"}); err != nil {
		t.Fatalf("HandleModel: %v", err)
	}
	if ctx.State.Model != "codellama:7b" {
		t.Errorf("State.Model = %q", ctx.State.Model)
	}
	if !strings.Contains(out.joined(), "codellama:7b") {
		t.Errorf("output = %q", out.joined())
	}
}

func TestHandleModelPicker(t *testing.T) {
	ctx, out := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollama.ListModelsResponse{
			Models: []ollama.ModelInfo{
				{Name: "llama3.2:latest"},
				{Name: "mistral:7b"},
			},
		})
	}))
	ctx.ReadLine = func(prompt string) (string, error) { return "2", nil }

	if err := HandleModel(ctx, nil); err != nil {
		t.Fatalf("HandleModel: %v", err)
	}
	if ctx.State.Model != "mistral:7b" {
		t.Errorf("Model = %q, want mistral:7b", ctx.State.Model)
	}
	if !strings.Contains(out.joined(), "1. llama3.2:latest") {
		t.Errorf("picker listing missing: %q", out.joined())
	}
}

func TestHandleModelPickerInvalidChoice(t *testing.T) {
	ctx, out := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollama.ListModelsResponse{
			Models: []ollama.ModelInfo{{Name: "llama3.2:latest"}},
		})
	}))
	ctx.ReadLine = func(prompt string) (string, error) { return "9", nil }

	if err := HandleModel(ctx, nil); err != nil {
		t.Fatalf("HandleModel: %v", err)
	}
	if ctx.State.Model != "llama3.2" {
		t.Errorf("model changed on invalid choice: %q", ctx.State.Model)
	}
	if !strings.Contains(out.joined(), "Invalid choice.") {
		t.Errorf("missing invalid choice message: %q", out.joined())
	}
}

func TestHandleModels(t *testing.T) {
	ctx, out := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollama.ListModelsResponse{
			Models: []ollama.ModelInfo{
				{Name: "llama3.2:latest"},
				{Name: "mistral:7b"},
			},
		})
	}))

	if err := HandleModels(ctx, nil); err != nil {
		t.Fatalf("HandleModels: %v", err)
	}
	got := out.joined()
	if !strings.Contains(got, "llama3.2:latest") || !strings.Contains(got, "mistral:7b") {
		t.Errorf("output = %q", got)
	}
	// Current model is marked.
	if !strings.Contains(got, "* llama3.2:latest") {
		t.Errorf("current model not marked: %q", got)
	}
}

func TestHandleModelsEmpty(t *testing.T) {
	ctx, out := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))

	if err := HandleModels(ctx, nil); err != nil {
		t.Fatalf("HandleModels: %v", err)
	}
	if !strings.Contains(out.joined(), "No models installed") {
		t.Errorf("output = %q", out.joined())
	}
}

func TestHandleStream(t *testing.T) {
	ctx, out := newTestContext(t, nil)

	if err := HandleStream(ctx, nil); err != nil {
		t.Fatalf("HandleStream: %v", err)
	}
	if ctx.State.Streaming {
		t.Error("Streaming should be toggled off")
	}
	if !strings.Contains(out.joined(), "disabled") {
		t.Errorf("output = %q", out.joined())
	}

	if err := HandleStream(ctx, nil); err != nil {
		t.Fatalf("HandleStream: %v", err)
	}
	if !ctx.State.Streaming {
		t.Error("Streaming should be toggled back on")
	}
}

func TestHandleStatus(t *testing.T) {
	ctx, out := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	if err := HandleStatus(ctx, nil); err != nil {
		t.Fatalf("HandleStatus: %v", err)
	}
	got := out.joined()
	if !strings.Contains(got, "connected") {
		t.Errorf("output = %q", got)
	}
	if !strings.Contains(got, "llama3.2") {
		t.Errorf("output missing model: %q", got)
	}
}

func TestHandleHelpListsCommands(t *testing.T) {
	ctx, out := newTestContext(t, nil)

	if err := HandleHelp(ctx, nil); err != nil {
		t.Fatalf("HandleHelp: %v", err)
	}
	got := out.joined()
	for _, name := range []string{"/help", "/quit", "/clear", "/history", "/model", "/models", "/status", "/stream"} {
		if !strings.Contains(got, name) {
			t.Errorf("help output missing %s", name)
		}
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidateArgsRequired(t *testing.T) {
	cmd := &Command{
		Name: "/x",
		Args: []ArgDef{{Name: "target", Required: true}},
	}

	if err := ValidateArgs(cmd, nil); err == nil {
		t.Error("expected error for missing required argument")
	}
	if err := ValidateArgs(cmd, []string{"value"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateArgsEnum(t *testing.T) {
	cmd := &Command{
		Name: "/x",
		Args: []ArgDef{{Name: "mode", Type: ArgTypeEnum, Values: []string{"on", "off"}}},
	}

	if err := ValidateArgs(cmd, []string{"on"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateArgs(cmd, []string{"sideways"}); err == nil {
		t.Error("expected error for invalid enum value")
	}
}

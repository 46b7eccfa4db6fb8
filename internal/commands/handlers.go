// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jeranaias/ollamachat/internal/ollama"
)

// helpCategoryOrder fixes the display order of command categories.
var helpCategoryOrder = []string{"Navigation", "Conversation", "Model", "Settings", "General"}

// HandleHelp prints the command reference grouped by category.
func HandleHelp(ctx *Context, args []string) error {
	ctx.Out.Print("Available commands:")

	byCategory := ctx.Registry.ByCategory()
	for _, category := range helpCategoryOrder {
		cmds := byCategory[category]
		if len(cmds) == 0 {
			continue
		}
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		ctx.Out.Print("")
		ctx.Out.Print(category)
		for _, cmd := range cmds {
			name := cmd.Name
			if cmd.Usage != "" {
				name = cmd.Usage
			}
			line := fmt.Sprintf("  %-18s %s", name, cmd.Description)
			if len(cmd.Aliases) > 0 {
				line += " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			ctx.Out.Print(line)
		}
	}

	ctx.Out.Print("")
	ctx.Out.Print("Anything else is sent to the model as a chat message.")
	return nil
}

// HandleQuit ends the chat loop.
func HandleQuit(ctx *Context, args []string) error {
	return ErrExit
}

// HandleClear discards the conversation history.
func HandleClear(ctx *Context, args []string) error {
	ctx.Session.Reset()
	ctx.Out.Success("Conversation history cleared.")
	return nil
}

// HandleHistory prints the conversation so far.
func HandleHistory(ctx *Context, args []string) error {
	history := ctx.Session.History()
	if len(history) == 0 {
		ctx.Out.Print("No conversation history yet.")
		return nil
	}

	ctx.Out.Print(fmt.Sprintf("Conversation history (%d messages):", len(history)))
	for i, msg := range history {
		ctx.Out.Print(fmt.Sprintf("%3d. %s: %s", i+1, msg.Role.DisplayName(), msg.Preview(80)))
	}
	return nil
}

// HandleModels lists the models installed on the server.
func HandleModels(ctx *Context, args []string) error {
	models, err := ctx.Client.ListModels(context.Background())
	if err != nil {
		ctx.Out.Error("Could not list models: " + err.Error())
		if hint := ollama.Hint(err); hint != "" {
			ctx.Out.Hint(hint)
		}
		return nil
	}

	if len(models) == 0 {
		ctx.Out.Print("No models installed.")
		ctx.Out.Hint("Install one with: ollama pull llama3.2")
		return nil
	}

	ctx.Out.Print("Installed models:")
	for _, name := range models {
		marker := "  "
		if name == ctx.State.Model || strings.TrimSuffix(name, ":latest") == ctx.State.Model {
			marker = "* "
		}
		ctx.Out.Print("  " + marker + name)
	}
	return nil
}

// HandleModel switches the active model. With an argument it switches
// directly; without one it offers a numbered picker when interactive input
// is available.
func HandleModel(ctx *Context, args []string) error {
	if len(args) > 0 {
		ctx.State.Model = args[0]
		ctx.Out.Success("Switched to model: " + ctx.State.Model)
		return nil
	}

	if ctx.ReadLine == nil {
		ctx.Out.Print("Current model: " + ctx.State.Model)
		ctx.Out.Hint("Switch with: /model <name>")
		return nil
	}

	models, err := ctx.Client.ListModels(context.Background())
	if err != nil {
		ctx.Out.Error("Could not list models: " + err.Error())
		if hint := ollama.Hint(err); hint != "" {
			ctx.Out.Hint(hint)
		}
		return nil
	}
	if len(models) == 0 {
		ctx.Out.Print("No models installed.")
		ctx.Out.Hint("Install one with: ollama pull llama3.2")
		return nil
	}

	ctx.Out.Print("Available models:")
	for i, name := range models {
		marker := "  "
		if name == ctx.State.Model || strings.TrimSuffix(name, ":latest") == ctx.State.Model {
			marker = "* "
		}
		ctx.Out.Print(fmt.Sprintf("  %s%d. %s", marker, i+1, name))
	}

	input, err := ctx.ReadLine("Enter model number (or press Enter to cancel): ")
	if err != nil || strings.TrimSpace(input) == "" {
		return nil
	}

	choice, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || choice < 1 || choice > len(models) {
		ctx.Out.Error("Invalid choice.")
		return nil
	}

	ctx.State.Model = models[choice-1]
	ctx.Out.Success("Switched to model: " + ctx.State.Model)
	return nil
}

// HandleStatus prints connection and session state.
func HandleStatus(ctx *Context, args []string) error {
	serverState := "not reachable"
	if ctx.Client.CheckConnection(context.Background()) {
		serverState = "connected"
	}

	streaming := "off"
	if ctx.State.Streaming {
		streaming = "on"
	}

	ctx.Out.Print("Server:    " + ctx.Client.Config().BaseURL + " (" + serverState + ")")
	ctx.Out.Print("Model:     " + ctx.State.Model)
	ctx.Out.Print("Streaming: " + streaming)
	ctx.Out.Print(fmt.Sprintf("Messages:  %d", ctx.Session.TurnCount()))

	if serverState == "not reachable" {
		ctx.Out.Hint("Is the Ollama server running? Try: ollama serve")
	}
	return nil
}

// HandleStream toggles incremental responses.
func HandleStream(ctx *Context, args []string) error {
	ctx.State.Streaming = !ctx.State.Streaming
	if ctx.State.Streaming {
		ctx.Out.Success("Streaming enabled.")
	} else {
		ctx.Out.Success("Streaming disabled.")
	}
	return nil
}

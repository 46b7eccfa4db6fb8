// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat loop.
package commands

import (
	"errors"

	"github.com/jeranaias/ollamachat/internal/config"
	"github.com/jeranaias/ollamachat/internal/model"
	"github.com/jeranaias/ollamachat/internal/ollama"
)

// ErrExit is returned by a handler to end the chat loop cleanly.
var ErrExit = errors.New("exit requested")

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/model <name>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) error

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines completion behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString ArgType = iota // Free-form string
	ArgTypeModel                 // Model name from Ollama
	ArgTypeEnum                  // One of predefined values
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation commands
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Category:    "Navigation",
		Handler:     HandleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit the chat",
		Category:    "Navigation",
		Handler:     HandleQuit,
	})

	// Conversation commands
	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear conversation history",
		Category:    "Conversation",
		Handler:     HandleClear,
	})

	r.Register(&Command{
		Name:        "/history",
		Description: "Show conversation history",
		Category:    "Conversation",
		Handler:     HandleHistory,
	})

	// Model commands
	r.Register(&Command{
		Name:        "/model",
		Aliases:     []string{"/m"},
		Description: "Switch or show current model",
		Usage:       "/model [name]",
		Args: []ArgDef{
			{Name: "name", Required: false, Type: ArgTypeModel, Description: "Model to switch to"},
		},
		Category: "Model",
		Handler:  HandleModel,
	})

	r.Register(&Command{
		Name:        "/models",
		Description: "List installed models",
		Category:    "Model",
		Handler:     HandleModels,
	})

	// Settings commands
	r.Register(&Command{
		Name:        "/status",
		Description: "Show connection and session status",
		Category:    "Settings",
		Handler:     HandleStatus,
	})

	r.Register(&Command{
		Name:        "/stream",
		Description: "Toggle streaming responses",
		Category:    "Settings",
		Handler:     HandleStream,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// State holds the mutable chat settings that commands may change.
type State struct {
	// Model currently in use for exchanges
	Model string

	// Streaming controls whether replies arrive incrementally
	Streaming bool
}

// Printer is the output sink for command results. The chat loop supplies a
// styled terminal implementation; tests supply a recorder.
type Printer interface {
	// Print writes a plain line.
	Print(text string)

	// Success writes a confirmation line.
	Success(text string)

	// Error writes an error line.
	Error(text string)

	// Hint writes a secondary suggestion line.
	Hint(text string)
}

// Context provides access to application state for command handlers.
// It follows the dependency injection pattern, allowing handlers to access
// services without direct coupling to the chat loop.
//
// Example usage in a handler:
//
//	func HandleStatus(ctx *Context, args []string) error {
//	    ctx.Out.Print("Model: " + ctx.State.Model)
//	    return nil
//	}
type Context struct {
	// Config provides access to application configuration
	Config *config.Config

	// Client is the Ollama API client
	Client *ollama.Client

	// Session holds the current conversation
	Session *model.Session

	// State holds the mutable chat settings
	State *State

	// Registry gives handlers access to the command list (for help)
	Registry *Registry

	// Out receives command output
	Out Printer

	// ReadLine reads a line of interactive input. Optional; handlers that
	// would prompt fall back to non-interactive behavior when nil.
	ReadLine func(prompt string) (string, error)
}

// NewContext creates a new command context with the given dependencies.
func NewContext(cfg *config.Config, client *ollama.Client, session *model.Session, state *State, registry *Registry, out Printer) *Context {
	return &Context{
		Config:   cfg,
		Client:   client,
		Session:  session,
		State:    state,
		Registry: registry,
		Out:      out,
	}
}

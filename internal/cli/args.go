// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Command-line argument parsing for the chat client.
//
// Supported flag formats:
//   --flag value     Long flag with space-separated value
//   --flag=value     Long flag with equals sign
//   -f value         Short flag with space-separated value
//   --flag           Boolean flag (no value)
//
// A single optional positional argument selects the model.

package cli

import (
	"strings"
)

// Args holds the parsed command-line options.
type Args struct {
	// Model overrides the configured default model. Set by the first
	// positional argument or --model/-m.
	Model string

	// URL overrides the configured server URL (--url).
	URL string

	// NoStream disables incremental responses (--no-stream).
	NoStream bool

	// Quiet suppresses the welcome banner and exit summary (--quiet/-q).
	Quiet bool

	// ShowHelp prints usage and exits (--help/-h).
	ShowHelp bool

	// ShowVersion prints version info and exits (--version/-v).
	ShowVersion bool
}

// ParseArgs parses raw command-line arguments (without the program name).
func ParseArgs(raw []string) Args {
	var args Args

	flags := make(map[string]string)
	boolFlags := make(map[string]bool)
	var positional []string

	i := 0
	for i < len(raw) {
		arg := raw[i]

		if strings.HasPrefix(arg, "-") {
			// --flag=value form
			if strings.Contains(arg, "=") {
				parts := strings.SplitN(arg, "=", 2)
				flags[strings.TrimLeft(parts[0], "-")] = parts[1]
				i++
				continue
			}

			name := strings.TrimLeft(arg, "-")
			if flagTakesValue(name) && i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
				flags[name] = raw[i+1]
				i += 2
			} else {
				boolFlags[name] = true
				i++
			}
		} else {
			positional = append(positional, arg)
			i++
		}
	}

	if len(positional) > 0 {
		args.Model = positional[0]
	}
	if v, ok := flags["model"]; ok {
		args.Model = v
	}
	if v, ok := flags["m"]; ok {
		args.Model = v
	}
	if v, ok := flags["url"]; ok {
		args.URL = v
	}

	args.NoStream = boolFlags["no-stream"]
	args.Quiet = boolFlags["quiet"] || boolFlags["q"]
	args.ShowHelp = boolFlags["help"] || boolFlags["h"]
	args.ShowVersion = boolFlags["version"] || boolFlags["v"]

	return args
}

// flagTakesValue reports whether a flag consumes the following argument.
func flagTakesValue(name string) bool {
	switch name {
	case "model", "m", "url":
		return true
	}
	return false
}

// Usage is the help text for the chat client.
const Usage = `ollamachat - interactive terminal chat for a local Ollama server

Usage:
  ollamachat [model] [flags]

Flags:
  -m, --model NAME   Model to chat with (default from config, then llama3.2)
      --url URL      Ollama server URL (default http://localhost:11434)
      --no-stream    Disable incremental responses
  -q, --quiet        Skip the welcome banner and exit summary
  -h, --help         Show this help
  -v, --version      Show version

During chat, type /help for the list of slash commands.
`

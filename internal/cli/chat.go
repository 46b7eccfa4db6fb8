// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - The interactive chat REPL.
//
// Wires together configuration, the Ollama client, the conversation
// session, and the slash-command registry into a line-oriented loop:
//
//	You: <message>        sent to the model, reply printed
//	You: /help            handled by the command registry
//	Ctrl+C                cancels the in-flight request
//	Ctrl+D, /quit, exit   leaves the chat
//
// Input uses liner for line editing, in-memory history, and tab completion.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/ollamachat/internal/commands"
	"github.com/jeranaias/ollamachat/internal/config"
	"github.com/jeranaias/ollamachat/internal/model"
	"github.com/jeranaias/ollamachat/internal/ollama"
	"github.com/jeranaias/ollamachat/internal/ui/styles"
)

// Version information (can be overridden at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// INPUT
// =============================================================================

// ChatCLI provides line editing, history navigation, and tab completion for
// the chat loop. History is kept in memory only; nothing is written to disk.
type ChatCLI struct {
	line *liner.State
}

// NewChatCLI creates a new ChatCLI wired to the given completer.
func NewChatCLI(completer *commands.Completer) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	if completer != nil {
		line.SetCompleter(func(input string) []string {
			var out []string
			for _, c := range completer.Complete(input, len(input)) {
				// Re-attach the already-typed portion before the token
				// being completed.
				if idx := strings.LastIndex(input, " "); idx >= 0 {
					out = append(out, input[:idx+1]+c.Value)
				} else {
					out = append(out, c.Value)
				}
			}
			return out
		})
	}

	return &ChatCLI{line: line}
}

// ReadInput reads a line of input with the given prompt.
// Non-empty input is added to the in-memory history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}

	return input, nil
}

// Close restores the terminal state.
func (c *ChatCLI) Close() {
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for one interactive chat session.
type ChatSession struct {
	Config  *config.Config
	Client  *ollama.Client
	Session *model.Session
	State   *commands.State

	Registry *commands.Registry
	Parser   *commands.Parser
	Out      commands.Printer

	Quiet     bool
	StartTime time.Time

	// Cancel function for the in-flight request, guarded for the signal
	// handler goroutine.
	cancelMu   sync.Mutex
	cancelFunc context.CancelFunc

	InputCLI *ChatCLI
}

// NewChatSession builds a session from parsed arguments and configuration.
// Returns an error only when the client cannot be constructed.
func NewChatSession(args Args) (*ChatSession, error) {
	cfg := config.Global()

	serverURL := cfg.Server.URL
	if args.URL != "" {
		serverURL = args.URL
	}

	modelName := args.Model
	if modelName == "" {
		modelName = cfg.DefaultModel
	}

	client, err := ollama.NewClient(&ollama.ClientConfig{
		BaseURL:       serverURL,
		DefaultModel:  modelName,
		HealthTimeout: time.Duration(cfg.Server.HealthTimeoutSecs) * time.Second,
		ListTimeout:   time.Duration(cfg.Server.ListTimeoutSecs) * time.Second,
		ChatTimeout:   time.Duration(cfg.Server.ChatTimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	out := terminalPrinter{}
	client.Notify = func(msg string) {
		fmt.Fprintf(os.Stderr, "%s %s\n", warningStyle.Render("[Warning]"), msg)
	}

	streaming := cfg.Streaming && !args.NoStream

	registry := commands.NewRegistry()
	session := model.NewSession(cfg.SystemPrompt)
	state := &commands.State{
		Model:     client.DefaultModel(),
		Streaming: streaming,
	}

	return &ChatSession{
		Config:    cfg,
		Client:    client,
		Session:   session,
		State:     state,
		Registry:  registry,
		Parser:    commands.NewParser(registry),
		Out:       out,
		Quiet:     args.Quiet,
		StartTime: time.Now(),
	}, nil
}

// setCancel records the cancel function for the in-flight request.
func (s *ChatSession) setCancel(cancel context.CancelFunc) {
	s.cancelMu.Lock()
	s.cancelFunc = cancel
	s.cancelMu.Unlock()
}

// cancelInflight cancels the current request, if any.
func (s *ChatSession) cancelInflight() bool {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
		return true
	}
	return false
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// RunChat runs the interactive chat loop. The returned error is fatal
// (client construction failure); everything else is handled inside the
// loop and ends with a nil return.
func RunChat(args Args) error {
	session, err := NewChatSession(args)
	if err != nil {
		return err
	}

	// Connection check before entering the loop.
	if !session.Quiet {
		fmt.Println(infoStyle.Render("Checking Ollama connection..."))
	}
	if !session.Client.CheckConnection(context.Background()) {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			errorStyle.Render("[Error]"),
			"Cannot connect to Ollama at "+session.Client.Config().BaseURL)
		fmt.Fprintln(os.Stderr, hintStyle.Render("  Make sure Ollama is running: ollama serve"))
		return nil
	}

	if !session.Quiet {
		fmt.Println(styles.RenderStatus(true, "Connected to Ollama"))
		printWelcome(session)
	}

	// Tab completion over commands and installed models.
	completer := commands.NewCompleter(session.Registry)
	completer.ModelsFn = func() []string {
		models, err := session.Client.ListModels(context.Background())
		if err != nil {
			return nil
		}
		return models
	}

	session.InputCLI = NewChatCLI(completer)
	defer session.InputCLI.Close()

	cmdCtx := commands.NewContext(
		session.Config,
		session.Client,
		session.Session,
		session.State,
		session.Registry,
		session.Out,
	)
	cmdCtx.ReadLine = func(prompt string) (string, error) {
		return session.InputCLI.line.Prompt(prompt)
	}

	// Ctrl+C during a request cancels it instead of killing the process.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		for range sigChan {
			if session.cancelInflight() {
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
			}
		}
	}()

	// Main REPL loop.
	for {
		input, err := session.InputCLI.ReadInput(promptStyle.Render("You: "))
		if err != nil {
			// Ctrl+C at the prompt or EOF (Ctrl+D) exits gracefully.
			fmt.Println()
			printExitSummary(session)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if commands.IsCommand(input) {
			if done := dispatchCommand(cmdCtx, session, input); done {
				printExitSummary(session)
				return nil
			}
			continue
		}

		// Bare exit/quit also leaves the chat.
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return nil
		}

		if err := processTurn(session, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			if hint := ollama.Hint(err); hint != "" {
				fmt.Fprintln(os.Stderr, hintStyle.Render("  "+hint))
			}
		}
	}
}

// dispatchCommand routes a slash command through the registry.
// Returns true when the loop should exit.
func dispatchCommand(cmdCtx *commands.Context, session *ChatSession, input string) bool {
	result := session.Parser.Parse(input)
	if result.Command == nil {
		name := commands.ExtractCommandName(input)
		fmt.Fprintf(os.Stderr, "%s unknown command: %s (type /help for commands)\n",
			errorStyle.Render("[Error]"), name)
		return false
	}

	if err := commands.ValidateArgs(result.Command, result.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		return false
	}

	err := result.Command.Handler(cmdCtx, result.Args)
	if err == commands.ErrExit {
		return true
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
	}
	return false
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// processTurn sends one user message and prints the reply. On failure the
// session is left unchanged (rollback happens inside SendTurn) and the
// error surfaces to the loop.
func processTurn(session *ChatSession, input string) error {
	ctx, cancel := context.WithCancel(context.Background())
	session.setCancel(cancel)
	defer func() {
		session.setCancel(nil)
		cancel()
	}()

	animate := IsStdoutTTY() && !session.Quiet

	var thinking *thinkingIndicator
	if animate {
		thinking = startThinking()
	}
	stopThinking := func() {
		if thinking != nil {
			thinking.Stop()
			thinking = nil
		}
	}
	defer stopThinking()

	prefix := replyStyle.Render("Ollama: ")
	typingDelay := time.Duration(session.Config.UI.TypingDelayMs) * time.Millisecond

	if session.State.Streaming {
		// Fragments are printed as they arrive, with the typing effect
		// on a TTY so the reply reads like natural output.
		started := false
		_, err := session.Client.SendTurn(ctx, session.Session, session.State.Model, input, true,
			func(fragment string) {
				if !started {
					stopThinking()
					fmt.Print(prefix)
					started = true
				}
				if animate {
					TypeText(os.Stdout, fragment, typingDelay)
				} else {
					fmt.Print(fragment)
				}
			})
		if err != nil {
			return err
		}
		if !started {
			stopThinking()
			fmt.Print(prefix)
		}
		fmt.Print("\n\n")
		return nil
	}

	reply, err := session.Client.SendTurn(ctx, session.Session, session.State.Model, input, false, nil)
	if err != nil {
		return err
	}

	stopThinking()
	fmt.Print(prefix)
	displayResponse(reply, session.Config.UI.Markdown)
	fmt.Print("\n\n")
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

// printWelcome prints the startup banner.
func printWelcome(session *ChatSession) {
	streaming := "on"
	if !session.State.Streaming {
		streaming = "off"
	}

	fmt.Println()
	fmt.Println(welcomeStyle.Render("Ollama Terminal Assistant"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s\n",
		infoStyle.Render("Model:"),
		commandStyle.Render(session.State.Model))
	fmt.Printf("%s %s\n",
		infoStyle.Render("Streaming:"),
		commandStyle.Render(streaming))
	fmt.Println()
	fmt.Println(infoStyle.Render("Type your message and press Enter. Commands: /help, /quit"))
	fmt.Println()
}

// printExitSummary prints turn count and duration on the way out.
func printExitSummary(session *ChatSession) {
	turns := session.Session.TurnCount() / 2

	if session.Quiet || turns == 0 {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}

	elapsed := time.Since(session.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Session Summary"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 15)))
	fmt.Printf("  %s %d\n", infoStyle.Render("Turns:"), turns)
	fmt.Printf("  %s %s\n", infoStyle.Render("Duration:"), elapsed.String())
	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}

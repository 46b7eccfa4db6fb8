// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// typewriter.go - Simulated typing output and the thinking indicator.
//
// The typing effect prints a reply rune by rune with pauses scaled to the
// character just printed, so the output reads like natural typing. The
// thinking indicator animates dots while the blocking chat request runs.

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// DefaultTypingDelay is the base per-rune delay for the typing effect.
const DefaultTypingDelay = 15 * time.Millisecond

// typeDelay returns the pause after printing r, scaled from base.
// Sentence punctuation pauses longest, spaces shortest.
func typeDelay(r rune, base time.Duration) time.Duration {
	switch r {
	case '.', '!', '?':
		return base * 4
	case ',', ';', ':':
		return base * 2
	case ' ':
		return base / 2
	case '\n':
		return base * 3
	}
	return base
}

// TypeText writes text to w one rune at a time with natural typing pauses.
// A base of 0 or less writes the text immediately.
func TypeText(w io.Writer, text string, base time.Duration) {
	if base <= 0 {
		fmt.Fprint(w, text)
		return
	}

	for _, r := range text {
		fmt.Fprint(w, string(r))
		time.Sleep(typeDelay(r, base))
	}
}

// =============================================================================
// THINKING INDICATOR
// =============================================================================

// thinkingInterval is the delay between animated dots.
const thinkingInterval = 500 * time.Millisecond

// thinkingIndicator animates "Thinking..." on stdout while a chat request
// is in flight. Start it before the blocking call, stop it before printing
// the reply.
type thinkingIndicator struct {
	stop    chan struct{}
	stopped chan struct{}
}

// startThinking begins the dot animation on a goroutine.
func startThinking() *thinkingIndicator {
	t := &thinkingIndicator{
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	go func() {
		defer close(t.stopped)

		fmt.Print(thinkingStyle.Render("Thinking"))
		ticker := time.NewTicker(thinkingInterval)
		defer ticker.Stop()

		dots := 0
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				if dots < 3 {
					fmt.Print(thinkingStyle.Render("."))
					dots++
				}
			}
		}
	}()

	return t
}

// Stop halts the animation and clears the line.
func (t *thinkingIndicator) Stop() {
	close(t.stop)
	<-t.stopped
	fmt.Print("\r" + strings.Repeat(" ", 20) + "\r")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// ARG PARSING TESTS
// =============================================================================

func TestParseArgsDefaults(t *testing.T) {
	args := ParseArgs(nil)

	assert.Empty(t, args.Model)
	assert.Empty(t, args.URL)
	assert.False(t, args.NoStream)
	assert.False(t, args.Quiet)
}

func TestParseArgsPositionalModel(t *testing.T) {
	args := ParseArgs([]string{"codellama:7b"})

	assert.Equal(t, "codellama:7b", args.Model)
}

func TestParseArgsFlagForms(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want Args
	}{
		{
			name: "long flag with space",
			raw:  []string{"--model", "mistral:7b"},
			want: Args{Model: "mistral:7b"},
		},
		{
			name: "long flag with equals",
			raw:  []string{"--model=mistral:7b"},
			want: Args{Model: "mistral:7b"},
		},
		{
			name: "short flag",
			raw:  []string{"-m", "mistral:7b"},
			want: Args{Model: "mistral:7b"},
		},
		{
			name: "flag overrides positional",
			raw:  []string{"llama3.2", "--model", "mistral:7b"},
			want: Args{Model: "mistral:7b"},
		},
		{
			name: "url and no-stream",
			raw:  []string{"--url", "http://127.0.0.1:11434", "--no-stream"},
			want: Args{URL: "http://127.0.0.1:11434", NoStream: true},
		},
		{
			name: "quiet short form",
			raw:  []string{"-q"},
			want: Args{Quiet: true},
		},
		{
			name: "help and version",
			raw:  []string{"--help", "--version"},
			want: Args{ShowHelp: true, ShowVersion: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseArgs(tt.raw))
		})
	}
}

// =============================================================================
// TYPEWRITER TESTS
// =============================================================================

func TestTypeDelaySchedule(t *testing.T) {
	base := 10 * time.Millisecond

	tests := []struct {
		r    rune
		want time.Duration
	}{
		{'a', base},
		{'.', base * 4},
		{'!', base * 4},
		{'?', base * 4},
		{',', base * 2},
		{';', base * 2},
		{':', base * 2},
		{' ', base / 2},
		{'\n', base * 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, typeDelay(tt.r, base), "rune %q", tt.r)
	}
}

func TestTypeTextWritesEverything(t *testing.T) {
	var sb strings.Builder
	TypeText(&sb, "héllo, wörld.\n", time.Microsecond)

	assert.Equal(t, "héllo, wörld.\n", sb.String())
}

func TestTypeTextZeroDelay(t *testing.T) {
	var sb strings.Builder
	TypeText(&sb, "instant", 0)

	assert.Equal(t, "instant", sb.String())
}

// =============================================================================
// TERMINAL TESTS
// =============================================================================

func TestWrapTextShortLineUnchanged(t *testing.T) {
	assert.Equal(t, "short line", WrapText("short line", 40))
}

func TestWrapTextBreaksLongLine(t *testing.T) {
	text := "one two three four five six seven eight nine ten"
	wrapped := WrapText(text, 20)

	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 20, "line %q too long", line)
	}
	assert.Equal(t, strings.Join(strings.Fields(text), " "),
		strings.Join(strings.Fields(wrapped), " "))
}

func TestWrapTextPreservesNewlines(t *testing.T) {
	wrapped := WrapText("first\nsecond", 40)

	assert.Equal(t, "first\nsecond", wrapped)
}

func TestForceColorsEnabled(t *testing.T) {
	ForceColorsEnabled(true)
	assert.True(t, ColorsEnabled())

	ForceColorsEnabled(false)
	assert.False(t, ColorsEnabled())
}

// =============================================================================
// MARKDOWN TESTS
// =============================================================================

func TestRenderMarkdownFallback(t *testing.T) {
	saved := markdownRenderer
	markdownRenderer = nil
	defer func() { markdownRenderer = saved }()

	assert.Equal(t, "# heading", renderMarkdown("# heading"))
}

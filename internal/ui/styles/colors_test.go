// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// COLOR DEFINITION TESTS
// =============================================================================

func TestPaletteDefined(t *testing.T) {
	colors := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"Purple", Purple},
		{"Cyan", Cyan},
		{"Emerald", Emerald},
		{"Rose", Rose},
		{"Amber", Amber},
		{"TextPrimary", TextPrimary},
		{"TextSecondary", TextSecondary},
		{"TextMuted", TextMuted},
		{"Overlay", Overlay},
	}

	for _, c := range colors {
		if c.color.Light == "" || c.color.Dark == "" {
			t.Errorf("%s should define both light and dark variants", c.name)
		}
		if !strings.HasPrefix(c.color.Light, "#") || !strings.HasPrefix(c.color.Dark, "#") {
			t.Errorf("%s should use hex notation, got %q / %q", c.name, c.color.Light, c.color.Dark)
		}
	}
}

func TestPaletteDistinct(t *testing.T) {
	seen := map[string]string{}
	colors := map[string]lipgloss.AdaptiveColor{
		"Purple":  Purple,
		"Cyan":    Cyan,
		"Emerald": Emerald,
		"Rose":    Rose,
		"Amber":   Amber,
	}

	for name, c := range colors {
		if other, ok := seen[c.Dark]; ok {
			t.Errorf("%s and %s share dark value %s", name, other, c.Dark)
		}
		seen[c.Dark] = name
	}
}

// =============================================================================
// STATUS INDICATOR TESTS
// =============================================================================

func TestStatusIndicatorsASCII(t *testing.T) {
	indicators := map[string]string{
		"Success": StatusIndicators.Success,
		"Error":   StatusIndicators.Error,
		"Warning": StatusIndicators.Warning,
		"Info":    StatusIndicators.Info,
	}

	seen := map[string]string{}
	for name, indicator := range indicators {
		if indicator == "" {
			t.Errorf("%s indicator should not be empty", name)
			continue
		}
		for _, r := range indicator {
			if r > 127 {
				t.Errorf("%s indicator %q contains non-ASCII rune", name, indicator)
			}
		}
		if other, ok := seen[indicator]; ok {
			t.Errorf("indicator %q used for both %s and %s", indicator, name, other)
		}
		seen[indicator] = name
	}
}

func TestRenderStatus(t *testing.T) {
	ok := RenderStatus(true, "connected")
	if !strings.Contains(ok, "[OK]") || !strings.Contains(ok, "connected") {
		t.Errorf("success render = %q", ok)
	}

	bad := RenderStatus(false, "unreachable")
	if !strings.Contains(bad, "[X]") || !strings.Contains(bad, "unreachable") {
		t.Errorf("error render = %q", bad)
	}
}

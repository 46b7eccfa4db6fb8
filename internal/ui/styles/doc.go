// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles defines the shared visual palette for the chat client.

All colors are Lip Gloss AdaptiveColor values so output adapts to light and
dark terminals automatically. The cli package builds its concrete styles on
top of this palette; nothing here renders on its own apart from the status
indicator helpers.

# Palette

  - Purple - welcome banner and branding
  - Cyan - prompts, headers, info highlights
  - Emerald - success states and assistant replies
  - Rose - errors
  - Amber - warnings and the thinking indicator
  - TextPrimary / TextSecondary / TextMuted - body text, labels, hints
  - Overlay - separators

# Status indicators

StatusIndicators carries ASCII shape markers ([OK], [X], [!], [i]) rendered
alongside colors so state remains readable without color support.
*/
package styles

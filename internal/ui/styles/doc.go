// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the clinic TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Color System (colors.go)

## Accent Colors

  - Cyan - Brand color, focused inputs, key hints
  - Purple - Selections and headers
  - Emerald - Success states and the patient role
  - Amber - Session warning countdown
  - Rose - Errors and the expired-session alert

## Text Colors

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

	theme := styles.NewTheme("auto")
	header := theme.Header.Render("Clinic")

# Status Indicators

ASCII indicators pair every color with a shape:

	StatusIndicators.Success   - [OK]
	StatusIndicators.Error     - [X]
	StatusIndicators.Warning   - [!]
*/
package styles

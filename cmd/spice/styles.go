// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output, tuned for dark terminal backgrounds.
const (
	// ColorPrimary is purple, used for titles and section headers.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray, used for node kinds and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green, used when validation passes.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red, used for failures.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is amber, used for dependency tags and warnings.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue, used for addresses.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error headers.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// TagStyle is for dependency tags.
	TagStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// AddressStyle is for node addresses.
	AddressStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// KindStyle is for node kinds and other annotations next to addresses.
	KindStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)

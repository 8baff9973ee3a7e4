package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor

	// Progress
	Completed lipgloss.AdaptiveColor
	Current   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	// Difficulty badges
	Beginner     lipgloss.AdaptiveColor
	Intermediate lipgloss.AdaptiveColor
	Advanced     lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Code      lipgloss.AdaptiveColor

	// Styles
	Base      lipgloss.Style
	Header    lipgloss.Style
	ActiveTab lipgloss.Style
	Tab       lipgloss.Style

	// Pre-computed styles shared by every frame
	MutedText   lipgloss.Style
	PrimaryBold lipgloss.Style
	CopiedBadge lipgloss.Style
	ErrorText   lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim
		Text:      lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"},

		Completed: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Current:   lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan
		Error:     lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red

		Beginner:     lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Intermediate: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Advanced:     lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Code:      lipgloss.AdaptiveColor{Light: "#B5367A", Dark: "#FF79C6"}, // Pink
	}

	t.Base = r.NewStyle().Foreground(t.Text)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.ActiveTab = r.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(t.Primary).
		Padding(0, 1)

	t.Tab = r.NewStyle().
		Foreground(t.Subtext).
		Border(lipgloss.HiddenBorder(), false, false, true, false).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.CopiedBadge = r.NewStyle().Foreground(ThemeFg("#50FA7B")).Bold(true)
	t.ErrorText = r.NewStyle().Foreground(t.Error)

	return t
}

// DifficultyColor maps a unit's difficulty label to a badge color.
func (t Theme) DifficultyColor(level string) lipgloss.AdaptiveColor {
	switch level {
	case "Beginner":
		return t.Beginner
	case "Intermediate":
		return t.Intermediate
	case "Advanced", "Intermediate to Advanced":
		return t.Advanced
	default:
		return t.Subtext
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}

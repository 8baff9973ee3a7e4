package ui

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

func TestDefaultThemeAdaptiveText(t *testing.T) {
	theme := TestTheme()
	if theme.Renderer == nil {
		t.Fatal("expected renderer")
	}
	if theme.Text.Dark != "#F8F8F2" || theme.Text.Light != "#000000" {
		t.Errorf("unexpected text color %+v", theme.Text)
	}
}

func TestDifficultyColor(t *testing.T) {
	theme := TestTheme()
	tests := []struct {
		level string
		want  lipgloss.AdaptiveColor
	}{
		{"Beginner", theme.Beginner},
		{"Intermediate", theme.Intermediate},
		{"Advanced", theme.Advanced},
		{"Intermediate to Advanced", theme.Advanced},
		{"expert", theme.Subtext},
		{"", theme.Subtext},
	}
	for _, tt := range tests {
		if got := theme.DifficultyColor(tt.level); got != tt.want {
			t.Errorf("DifficultyColor(%q) = %+v, want %+v", tt.level, got, tt.want)
		}
	}
}

func TestColorProfile_Detection(t *testing.T) {
	valid := map[colorprofile.Profile]bool{
		colorprofile.Unknown:   true,
		colorprofile.NoTTY:     true,
		colorprofile.ASCII:     true,
		colorprofile.ANSI:      true,
		colorprofile.ANSI256:   true,
		colorprofile.TrueColor: true,
	}
	if !valid[TermProfile] {
		t.Errorf("TermProfile has unexpected value: %d", TermProfile)
	}
}

func TestThemeFg(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.TrueColor
	if got := ThemeFg("#50FA7B"); got != lipgloss.Color("#50FA7B") {
		t.Errorf("expected hex color in TrueColor mode, got %v", got)
	}

	TermProfile = colorprofile.ANSI
	if got := ThemeFg("#50FA7B"); got != lipgloss.ANSIColor(7) {
		t.Errorf("expected ANSI white in 16-color mode, got %v", got)
	}
}

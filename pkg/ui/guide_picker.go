package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// pickerEntry is one row of the guide picker.
type pickerEntry struct {
	id        string
	title     string
	completed int
	total     int
}

// GuidePickerModel is a modal listing every loaded guide. F1-F3 only reach
// the first three; custom content directories may hold more.
type GuidePickerModel struct {
	entries       []pickerEntry
	current       int // index of the guide on screen
	selectedIndex int
	width         int
	height        int
	theme         Theme
}

// NewGuidePickerModel builds a picker over guides with the active one
// highlighted.
func NewGuidePickerModel(guides []GuideModel, active int, theme Theme) GuidePickerModel {
	entries := make([]pickerEntry, len(guides))
	for i, g := range guides {
		nav := g.Navigator()
		entries[i] = pickerEntry{
			id:        g.Guide().ID,
			title:     g.Guide().Title,
			completed: nav.CompletedCount(),
			total:     nav.Len(),
		}
	}
	if active < 0 || active >= len(entries) {
		active = 0
	}
	return GuidePickerModel{
		entries:       entries,
		current:       active,
		selectedIndex: active,
		theme:         theme,
	}
}

// SetSize updates the picker dimensions
func (m *GuidePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// MoveUp moves selection up
func (m *GuidePickerModel) MoveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

// MoveDown moves selection down
func (m *GuidePickerModel) MoveDown() {
	if m.selectedIndex < len(m.entries)-1 {
		m.selectedIndex++
	}
}

// Selected returns the highlighted guide index, or -1 when there are no
// guides.
func (m GuidePickerModel) Selected() int {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.entries) {
		return m.selectedIndex
	}
	return -1
}

// View renders the picker overlay
func (m GuidePickerModel) View() string {
	if m.width == 0 {
		m.width = 60
	}
	if m.height == 0 {
		m.height = 20
	}
	t := m.theme

	boxWidth := min(max(m.width-10, 30), 56)

	var lines []string
	lines = append(lines, t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1).Render("Open Guide"))
	lines = append(lines, "")

	for i, e := range m.entries {
		isSelected := i == m.selectedIndex

		itemStyle := t.Renderer.NewStyle().Foreground(t.Text)
		prefix := "  "
		if isSelected {
			itemStyle = itemStyle.Foreground(t.Primary).Bold(true)
			prefix = "> "
		}

		progress := t.MutedText.Render(fmt.Sprintf(" %d/%d", e.completed, e.total))
		if e.total > 0 && e.completed == e.total {
			progress = t.Renderer.NewStyle().Foreground(t.Completed).Render(" ✓")
		}
		marker := ""
		if i == m.current {
			marker = t.Renderer.NewStyle().Foreground(t.Secondary).Render(" ●")
		}
		lines = append(lines, itemStyle.Render(prefix+e.title)+progress+marker)
	}

	lines = append(lines, "")
	lines = append(lines, t.Renderer.NewStyle().Foreground(t.Secondary).Italic(true).
		Render("j/k: navigate | enter: open | esc: cancel"))

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

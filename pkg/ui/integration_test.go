package ui_test

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/apiguide/pkg/content"
	"github.com/vanderheijden86/apiguide/pkg/ui"
)

// Helper to create a KeyMsg for a string key
func integrationKeyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune(key),
	}
}

// Helper to create special key messages
func integrationSpecialKey(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func newTestModel(t *testing.T, opts ui.Options) ui.Model {
	t.Helper()
	lib, err := content.LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded failed: %v", err)
	}
	theme := ui.TestTheme()
	opts.Theme = &theme
	m := ui.NewModel(lib, nil, opts)
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return newM.(ui.Model)
}

func send(m ui.Model, msg tea.Msg) (ui.Model, tea.Cmd) {
	newM, cmd := m.Update(msg)
	return newM.(ui.Model), cmd
}

func activeID(t *testing.T, m ui.Model) string {
	t.Helper()
	g, ok := m.ActiveGuide()
	if !ok {
		t.Fatal("Expected an active guide")
	}
	return g.Guide().ID
}

func TestModelStartsOnQuickGuide(t *testing.T) {
	m := newTestModel(t, ui.Options{})
	if got := activeID(t, m); got != "quick" {
		t.Errorf("Expected quick guide first, got %q", got)
	}

	view := m.View()
	for _, want := range []string{"F1", "F2", "F3", "? help"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestModelLoadingBeforeResize(t *testing.T) {
	lib, _ := content.LoadEmbedded()
	m := ui.NewModel(lib, nil, ui.Options{})
	if !strings.Contains(m.View(), "Loading") {
		t.Error("Expected loading view before the first resize")
	}
}

func TestModelInitialGuideOption(t *testing.T) {
	m := newTestModel(t, ui.Options{Guide: "practical"})
	if got := activeID(t, m); got != "practical" {
		t.Errorf("Expected practical guide, got %q", got)
	}

	m = newTestModel(t, ui.Options{Guide: "nope"})
	if got := activeID(t, m); got != "quick" {
		t.Errorf("Expected unknown guide to fall back to quick, got %q", got)
	}
}

func TestModelSwitchGuides(t *testing.T) {
	m := newTestModel(t, ui.Options{})

	m, _ = send(m, integrationSpecialKey(tea.KeyF2))
	if got := activeID(t, m); got != "detailed" {
		t.Errorf("Expected detailed after F2, got %q", got)
	}
	m, _ = send(m, integrationSpecialKey(tea.KeyF3))
	if got := activeID(t, m); got != "practical" {
		t.Errorf("Expected practical after F3, got %q", got)
	}

	m, _ = send(m, integrationSpecialKey(tea.KeyCtrlRight))
	if got := activeID(t, m); got != "quick" {
		t.Errorf("Expected ctrl+right to wrap to quick, got %q", got)
	}
	m, _ = send(m, integrationSpecialKey(tea.KeyShiftTab))
	if got := activeID(t, m); got != "practical" {
		t.Errorf("Expected shift+tab to wrap to practical, got %q", got)
	}
}

func TestModelGuidesKeepIndependentState(t *testing.T) {
	m := newTestModel(t, ui.Options{})

	m, _ = send(m, integrationKeyMsg("n"))
	m, _ = send(m, integrationKeyMsg("n"))
	m, _ = send(m, integrationSpecialKey(tea.KeyF2))

	g, _ := m.ActiveGuide()
	if g.Navigator().Current() != 0 || g.Navigator().CompletedCount() != 0 {
		t.Error("Expected detailed guide untouched")
	}

	m, _ = send(m, integrationSpecialKey(tea.KeyF1))
	g, _ = m.ActiveGuide()
	if g.Navigator().Current() != 2 {
		t.Errorf("Expected quick guide at unit 2, got %d", g.Navigator().Current())
	}
	if g.Navigator().CompletedCount() != 2 {
		t.Errorf("Expected 2 completed units, got %d", g.Navigator().CompletedCount())
	}
	if !strings.Contains(m.View(), "2/") {
		t.Error("Expected footer to show completion count")
	}
}

func TestModelHelpOverlay(t *testing.T) {
	m := newTestModel(t, ui.Options{})

	m, _ = send(m, integrationKeyMsg("?"))
	if !strings.Contains(m.View(), "Quick Reference") {
		t.Fatal("Expected help overlay after '?'")
	}

	// Keys do not reach the guide while help is open.
	m, _ = send(m, integrationKeyMsg("n"))
	g, _ := m.ActiveGuide()
	if g.Navigator().Current() != 0 {
		t.Error("Expected navigation blocked while help is open")
	}

	m, _ = send(m, integrationSpecialKey(tea.KeyEsc))
	if strings.Contains(m.View(), "Quick Reference") {
		t.Error("Expected Esc to close help")
	}
}

func TestModelPlayground(t *testing.T) {
	m := newTestModel(t, ui.Options{})

	m, _ = send(m, integrationKeyMsg("P"))
	if !strings.Contains(m.View(), "API Playground") {
		t.Fatal("Expected playground overlay on the quick guide")
	}

	// Navigation keys go to the form, not the guide.
	m, _ = send(m, integrationKeyMsg("n"))
	g, _ := m.ActiveGuide()
	if g.Navigator().Current() != 0 {
		t.Error("Expected guide untouched while playground is open")
	}

	m, _ = send(m, integrationSpecialKey(tea.KeyEsc))
	if strings.Contains(m.View(), "API Playground") {
		t.Error("Expected Esc to close the playground")
	}
}

func TestModelPlaygroundUnavailable(t *testing.T) {
	m := newTestModel(t, ui.Options{Guide: "detailed"})

	m, _ = send(m, integrationKeyMsg("P"))
	if strings.Contains(m.View(), "API Playground") {
		t.Error("Expected no playground outside the quick guide")
	}
	if status, _ := m.Status(); !strings.Contains(status, "quick guide") {
		t.Errorf("Expected hint in status, got %q", status)
	}
}

func TestModelCopyStatus(t *testing.T) {
	m := newTestModel(t, ui.Options{})

	m, _ = send(m, ui.CopyResultMsg{ID: "quick/introduction/#0"})
	status, isErr := m.Status()
	if isErr || !strings.Contains(status, "Copied quick/introduction/#0") {
		t.Errorf("Unexpected status %q (error=%v)", status, isErr)
	}

	m, _ = send(m, ui.CopyExpiredMsg{ID: "quick/introduction/#0"})
	if status, _ := m.Status(); status != "" {
		t.Errorf("Expected status cleared on expiry, got %q", status)
	}

	m, _ = send(m, ui.CopyResultMsg{ID: "x", Err: errors.New("no clipboard")})
	status, isErr = m.Status()
	if !isErr || !strings.Contains(status, "Clipboard error") {
		t.Errorf("Expected clipboard error status, got %q", status)
	}

	// Errors outlive the acknowledgment window.
	m, _ = send(m, ui.CopyExpiredMsg{ID: "x"})
	if status, _ := m.Status(); status == "" {
		t.Error("Expected error status to survive expiry")
	}
}

func TestModelContentReload(t *testing.T) {
	m := newTestModel(t, ui.Options{})
	for i := 0; i < 4; i++ {
		m, _ = send(m, integrationKeyMsg("n"))
	}

	short, err := content.NewLibrary(content.Guide{
		ID:    "quick",
		Title: "Quick",
		Units: []content.Unit{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	m, _ = send(m, ui.ContentReloadedMsg{Library: short})

	g, ok := m.ActiveGuide()
	if !ok || g.Guide().ID != "quick" {
		t.Fatal("Expected quick guide to survive reload")
	}
	if g.Navigator().Current() != 1 {
		t.Errorf("Expected position clamped to 1, got %d", g.Navigator().Current())
	}
	if status, _ := m.Status(); !strings.Contains(status, "Reloaded 1 guides") {
		t.Errorf("Unexpected status %q", status)
	}

	m, _ = send(m, ui.ContentErrorMsg{Err: errors.New("bad yaml"), Recoverable: true})
	status, isErr := m.Status()
	if !isErr || !strings.Contains(status, "bad yaml") {
		t.Errorf("Expected reload error status, got %q", status)
	}
	if g, _ := m.ActiveGuide(); g.Guide().Title != "Quick" {
		t.Error("Expected previous content kept after a failed reload")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, ui.Options{})

	_, cmd := send(m, integrationKeyMsg("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}

	_, cmd = send(m, integrationSpecialKey(tea.KeyCtrlC))
	if cmd == nil {
		t.Fatal("Expected quit command for ctrl+c")
	}
}

func TestModelShowTOCOption(t *testing.T) {
	m := newTestModel(t, ui.Options{ShowTOC: true})
	if !strings.Contains(m.View(), "Contents") {
		t.Error("Expected table of contents when ShowTOC is set")
	}
}

func TestModelGuidePicker(t *testing.T) {
	m := newTestModel(t, ui.Options{})

	m, _ = send(m, integrationKeyMsg("o"))
	if !strings.Contains(m.View(), "Open Guide") {
		t.Fatal("Expected guide picker after 'o'")
	}

	m, _ = send(m, integrationKeyMsg("j"))
	m, _ = send(m, integrationKeyMsg("j"))
	m, _ = send(m, integrationSpecialKey(tea.KeyEnter))
	if got := activeID(t, m); got != "practical" {
		t.Errorf("Expected practical after picking the third guide, got %q", got)
	}
	if strings.Contains(m.View(), "Open Guide") {
		t.Error("Expected picker closed after Enter")
	}

	m, _ = send(m, integrationKeyMsg("o"))
	m, _ = send(m, integrationKeyMsg("k"))
	m, _ = send(m, integrationSpecialKey(tea.KeyEsc))
	if got := activeID(t, m); got != "practical" {
		t.Errorf("Expected Esc to keep the current guide, got %q", got)
	}
}

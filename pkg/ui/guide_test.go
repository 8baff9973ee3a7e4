package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/apiguide/pkg/content"
	"github.com/vanderheijden86/apiguide/pkg/copier"
)

type memClipboard struct {
	texts []string
	err   error
}

func (c *memClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

func testGuide() content.Guide {
	code := func(s string) *content.CodeSample { return &content.CodeSample{Text: s} }
	return content.Guide{
		ID:       "demo",
		Title:    "Demo",
		UnitNoun: "step",
		Units: []content.Unit{
			{ID: "intro", Title: "Introduction", Explanation: "Welcome."},
			{ID: "install", Title: "Install the framework", Body: []content.Item{
				{Title: "Install", Code: &content.CodeSample{Language: "bash", Text: "pip install fastapi\n"}},
				{Title: "Run", Content: "Start the server."},
				{Title: "Serve", Code: code("uvicorn main:app --reload")},
			}},
			{ID: "routes", Title: "Routes", Body: []content.Item{
				{Title: "Hello", Code: code("@app.get('/')\ndef root():\n    return {'hello': 'world'}")},
			}},
			{ID: "done", Title: "Wrap-up"},
		},
	}
}

func newTestGuideModel(cp *copier.Copier) GuideModel {
	m := NewGuideModel(testGuide(), cp, TestTheme())
	m.SetSize(100, 30)
	return m
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewGuideModel(t *testing.T) {
	m := newTestGuideModel(nil)

	if m.nav.Current() != 0 {
		t.Errorf("Expected initial unit 0, got %d", m.nav.Current())
	}
	if m.nav.CompletedCount() != 0 {
		t.Errorf("Expected nothing completed, got %v", m.nav.Completed())
	}
	if m.tocVisible {
		t.Error("Expected TOC to be hidden initially")
	}
	if m.markdownRenderer == nil {
		t.Error("Expected markdown renderer to be created")
	}
}

func TestGuideNavigation(t *testing.T) {
	m := newTestGuideModel(nil)
	total := m.guide.Len()

	m, _ = m.Update(runeKey("n"))
	if m.nav.Current() != 1 {
		t.Errorf("Expected unit 1 after 'n', got %d", m.nav.Current())
	}
	if !m.nav.IsCompleted(0) {
		t.Error("Expected unit 0 completed after advancing")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.nav.Current() != 2 {
		t.Errorf("Expected unit 2 after right arrow, got %d", m.nav.Current())
	}

	m, _ = m.Update(runeKey("p"))
	if m.nav.Current() != 1 {
		t.Errorf("Expected unit 1 after 'p', got %d", m.nav.Current())
	}
	if m.nav.IsCompleted(2) {
		t.Error("Previous must not complete the unit being left")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.nav.Current() != 0 {
		t.Errorf("Expected to stay at unit 0, got %d", m.nav.Current())
	}

	for i := 0; i < total+2; i++ {
		m, _ = m.Update(runeKey(" "))
	}
	if m.nav.Current() != total-1 {
		t.Errorf("Expected to stop at last unit %d, got %d", total-1, m.nav.Current())
	}
	if !m.nav.IsCompleted(total - 1) {
		t.Error("Next at the last unit should still complete it")
	}
}

func TestGuideJumpToUnit(t *testing.T) {
	m := newTestGuideModel(nil)

	m, _ = m.Update(runeKey("3"))
	if m.nav.Current() != 2 {
		t.Errorf("Expected unit 2 after '3', got %d", m.nav.Current())
	}
	if m.nav.CompletedCount() != 0 {
		t.Error("Jumping must not record completion")
	}

	// Beyond the guide length is ignored.
	m, _ = m.Update(runeKey("9"))
	if m.nav.Current() != 2 {
		t.Errorf("Expected out-of-range jump ignored, got %d", m.nav.Current())
	}
}

func TestGuideScrolling(t *testing.T) {
	m := newTestGuideModel(nil)
	m.SetSize(100, 12) // five visible lines

	m, _ = m.Update(runeKey("2"))
	if m.maxScroll() == 0 {
		t.Skip("rendered unit fits on screen; nothing to scroll")
	}

	m, _ = m.Update(runeKey("j"))
	if m.scrollOffset != 1 {
		t.Errorf("Expected scroll 1 after 'j', got %d", m.scrollOffset)
	}
	m, _ = m.Update(runeKey("k"))
	m, _ = m.Update(runeKey("k"))
	if m.scrollOffset != 0 {
		t.Errorf("Expected scroll clamped at 0, got %d", m.scrollOffset)
	}

	m, _ = m.Update(runeKey("G"))
	if m.scrollOffset != m.maxScroll() {
		t.Errorf("Expected scroll at bottom %d, got %d", m.maxScroll(), m.scrollOffset)
	}
	m, _ = m.Update(runeKey("j"))
	if m.scrollOffset != m.maxScroll() {
		t.Error("Expected scroll clamped at bottom")
	}

	m, _ = m.Update(runeKey("g"))
	if m.scrollOffset != 0 {
		t.Errorf("Expected scroll 0 after 'g', got %d", m.scrollOffset)
	}

	m.scrollOffset = 1
	m, _ = m.Update(runeKey("n"))
	if m.scrollOffset != 0 {
		t.Error("Expected scroll reset when changing unit")
	}
}

func TestGuideTOC(t *testing.T) {
	m := newTestGuideModel(nil)

	m, _ = m.Update(runeKey("t"))
	if !m.tocVisible || !m.TOCFocused() {
		t.Fatal("Expected TOC visible and focused after 't'")
	}

	m, _ = m.Update(runeKey("j"))
	m, _ = m.Update(runeKey("j"))
	if m.tocCursor != 2 {
		t.Errorf("Expected TOC cursor 2, got %d", m.tocCursor)
	}
	if m.nav.Current() != 0 {
		t.Error("Moving the TOC cursor must not navigate")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.nav.Current() != 2 {
		t.Errorf("Expected unit 2 after Enter, got %d", m.nav.Current())
	}
	if m.TOCFocused() {
		t.Error("Expected focus back on content after Enter")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.TOCFocused() {
		t.Error("Expected Tab to focus the TOC")
	}
	m, _ = m.Update(runeKey("G"))
	if m.tocCursor != m.guide.Len()-1 {
		t.Errorf("Expected cursor at last unit, got %d", m.tocCursor)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.TOCFocused() {
		t.Error("Expected Esc to return focus to content")
	}

	m, _ = m.Update(runeKey("t"))
	if m.tocVisible {
		t.Error("Expected TOC hidden after second 't'")
	}
}

func TestGuideTabAdvancesWithoutTOC(t *testing.T) {
	m := newTestGuideModel(nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.nav.Current() != 1 || !m.nav.IsCompleted(0) {
		t.Errorf("Expected Tab to act as Next, at %d completed %v", m.nav.Current(), m.nav.Completed())
	}
}

func TestGuideCodeSelection(t *testing.T) {
	m := newTestGuideModel(nil)

	if _, _, ok := m.SelectedCode(); ok {
		t.Error("Unit without code should have no selection")
	}

	m.GoTo(1)
	item, id, ok := m.SelectedCode()
	if !ok || item != 0 || id != "demo/install/#0" {
		t.Errorf("Expected first sample selected, got %d %q %v", item, id, ok)
	}

	m, _ = m.Update(runeKey("]"))
	if item, _, _ = m.SelectedCode(); item != 2 {
		t.Errorf("Expected ']' to skip the prose item and select 2, got %d", item)
	}
	m, _ = m.Update(runeKey("]"))
	if item, _, _ = m.SelectedCode(); item != 0 {
		t.Errorf("Expected selection to wrap to 0, got %d", item)
	}
	m, _ = m.Update(runeKey("["))
	if item, _, _ = m.SelectedCode(); item != 2 {
		t.Errorf("Expected '[' to wrap to 2, got %d", item)
	}

	m, _ = m.Update(runeKey("n"))
	if m.codeCursor != 0 {
		t.Error("Expected code selection reset on unit change")
	}
}

func TestGuideCopy(t *testing.T) {
	clip := &memClipboard{}
	cp := copier.New(clip, copier.WithWindow(time.Minute))
	defer cp.Close()
	m := newTestGuideModel(cp)

	m.GoTo(1)
	_, cmd := m.Update(runeKey("y"))
	if cmd == nil {
		t.Fatal("Expected a copy command")
	}
	msg, ok := cmd().(CopyResultMsg)
	if !ok {
		t.Fatalf("Expected CopyResultMsg, got %T", cmd())
	}
	if msg.Err != nil || msg.ID != "demo/install/#0" {
		t.Errorf("Unexpected result %+v", msg)
	}
	if len(clip.texts) != 1 || clip.texts[0] != "pip install fastapi\n" {
		t.Errorf("Expected exact sample text on clipboard, got %q", clip.texts)
	}
	if !cp.IsCopied("demo/install/#0") {
		t.Error("Expected acknowledgment for the copied block")
	}
	if !strings.Contains(m.View(), "copied") {
		t.Error("Expected the view to show the copied label")
	}

	// Copying another block moves the acknowledgment.
	m, _ = m.Update(runeKey("]"))
	_, cmd = m.Update(runeKey("c"))
	cmd()
	if cp.LastCopiedID() != "demo/install/#2" {
		t.Errorf("Expected acknowledgment on #2, got %q", cp.LastCopiedID())
	}
}

func TestGuideCopyFailure(t *testing.T) {
	clip := &memClipboard{err: errors.New("no display")}
	cp := copier.New(clip)
	defer cp.Close()
	m := newTestGuideModel(cp)
	m.GoTo(1)

	_, cmd := m.Update(runeKey("y"))
	msg := cmd().(CopyResultMsg)
	if !errors.Is(msg.Err, copier.ErrClipboard) {
		t.Errorf("Expected ErrClipboard, got %v", msg.Err)
	}
	if cp.LastCopiedID() != "" {
		t.Error("Failed copy must not set an acknowledgment")
	}
}

func TestGuideCopyWithoutCode(t *testing.T) {
	cp := copier.New(&memClipboard{})
	m := newTestGuideModel(cp)
	if _, cmd := m.Update(runeKey("y")); cmd != nil {
		t.Error("Expected no command for a unit without code")
	}
}

func TestGuideSetGuideClamps(t *testing.T) {
	m := newTestGuideModel(nil)
	m.Next()
	m.Next()
	m.Next() // at 3, completed 0..2

	shorter := testGuide()
	shorter.Units = shorter.Units[:2]
	m.SetGuide(shorter)

	if m.nav.Len() != 2 {
		t.Fatalf("Expected 2 units, got %d", m.nav.Len())
	}
	if m.nav.Current() != 1 {
		t.Errorf("Expected current clamped to 1, got %d", m.nav.Current())
	}
	if got := m.nav.Completed(); len(got) != 2 {
		t.Errorf("Expected completions below 2 kept, got %v", got)
	}
}

func TestGuideView(t *testing.T) {
	m := newTestGuideModel(nil)

	view := m.View()
	for _, want := range []string{"Demo", "[1/4]", "25% completed", "Step 1 of 4", "Introduction", "Next →"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}

	m.GoTo(3)
	view = m.View()
	if !strings.Contains(view, "Finish") {
		t.Error("Expected Finish label on the last unit")
	}
	if !strings.Contains(view, "100% completed") {
		t.Error("Expected 100% on the last unit")
	}
}

func TestGuideTOCView(t *testing.T) {
	m := newTestGuideModel(nil)
	m.Next()
	m.ShowTOC(true)

	toc := m.renderTOC()
	if !strings.Contains(toc, "Contents") {
		t.Error("Expected TOC header")
	}
	if !strings.Contains(toc, "✓") {
		t.Error("Expected check mark for completed unit")
	}
	if !strings.Contains(toc, "▶") {
		t.Error("Expected arrow for current unit")
	}
	if strings.Contains(toc, "Install the framework") {
		t.Error("Expected long titles to be truncated")
	}
}

func TestEmptyGuideView(t *testing.T) {
	m := NewGuideModel(content.Guide{ID: "empty", Title: "Empty"}, nil, TestTheme())

	m, _ = m.Update(runeKey("n"))
	m, _ = m.Update(runeKey("y"))
	if !strings.Contains(m.View(), "no content") {
		t.Error("Expected empty state")
	}
}

func TestUnitMarkdown(t *testing.T) {
	g := testGuide()
	md := UnitMarkdown(g, 1)

	if !strings.Contains(md, "```bash\npip install fastapi\n```") {
		t.Errorf("Expected fenced bash sample, got:\n%s", md)
	}
	if !strings.Contains(md, "### 2. Run") {
		t.Error("Expected numbered body items")
	}
	if strings.Contains(md, "copied") || strings.Contains(md, "▶") {
		t.Error("Plain rendering must not carry selection or copy marks")
	}
	if UnitMarkdown(g, 42) != "" {
		t.Error("Expected empty output for out-of-range unit")
	}
}

func TestCodeFenceKeepsBackticks(t *testing.T) {
	got := codeFence(content.CodeSample{Language: "md", Text: "```py\nx\n```"})
	if !strings.HasPrefix(got, "````md\n```py\nx\n```\n````") {
		t.Errorf("Expected a longer outer fence, got %q", got)
	}
}

package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/apiguide/pkg/content"
	"github.com/vanderheijden86/apiguide/pkg/copier"
	"github.com/vanderheijden86/apiguide/pkg/navigator"
)

// guideFocus tracks which element has focus.
type guideFocus int

const (
	focusGuideContent guideFocus = iota
	focusGuideTOC
)

const (
	tocWidth      = 24
	tocTitleWidth = 16
)

// CopyResultMsg reports the outcome of a copy started from a guide.
type CopyResultMsg struct {
	ID  string
	Err error
}

// CopyExpiredMsg is sent when a copy acknowledgment reverts.
type CopyExpiredMsg struct {
	ID string
}

// renderCache holds the last rendered unit. It is shared by value copies
// of the model.
type renderCache struct {
	key   string
	lines []string
}

// GuideModel shows one guide: the current unit, progress and an optional
// table of contents.
type GuideModel struct {
	guide  content.Guide
	nav    *navigator.Navigator
	copier *copier.Copier

	scrollOffset int
	tocVisible   bool
	focus        guideFocus
	tocCursor    int
	codeCursor   int // position within the current unit's CodeItems

	width  int
	height int
	theme  Theme

	markdownRenderer *MarkdownRenderer
	cache            *renderCache
}

// NewGuideModel creates a model positioned at the guide's first unit.
func NewGuideModel(g content.Guide, cp *copier.Copier, theme Theme) GuideModel {
	m := GuideModel{
		guide:  g,
		nav:    navigator.New(g.Len()),
		copier: cp,
		width:  80,
		height: 24,
		theme:  theme,
		cache:  &renderCache{},
	}
	m.markdownRenderer = NewMarkdownRendererWithTheme(m.contentWidth(), theme)
	return m
}

// Update handles keyboard input with focus management.
func (m GuideModel) Update(msg tea.Msg) (GuideModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			m.tocVisible = !m.tocVisible
			if m.tocVisible {
				m.focus = focusGuideTOC
				m.tocCursor = m.nav.Current()
			} else {
				m.focus = focusGuideContent
			}
			m.SetSize(m.width, m.height)
			return m, nil

		case "tab":
			if m.tocVisible {
				if m.focus == focusGuideContent {
					m.focus = focusGuideTOC
					m.tocCursor = m.nav.Current()
				} else {
					m.focus = focusGuideContent
				}
			} else {
				m.Next()
			}
			return m, nil
		}

		if m.focus == focusGuideTOC && m.tocVisible {
			return m.handleTOCKeys(msg), nil
		}
		return m.handleContentKeys(msg)
	}
	return m, nil
}

func (m GuideModel) handleContentKeys(msg tea.KeyMsg) (GuideModel, tea.Cmd) {
	switch msg.String() {
	case "right", "l", "n", " ":
		m.Next()
	case "left", "h", "p":
		m.Previous()

	case "j", "down":
		m.scrollBy(1)
	case "k", "up":
		m.scrollBy(-1)
	case "ctrl+d":
		m.scrollBy(m.visibleHeight() / 2)
	case "ctrl+u":
		m.scrollBy(-m.visibleHeight() / 2)
	case "g", "home":
		m.scrollOffset = 0
	case "G", "end":
		m.scrollOffset = m.maxScroll()

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.GoTo(int(msg.String()[0]-'0') - 1)

	case "]":
		m.cycleCode(1)
	case "[":
		m.cycleCode(-1)
	case "y", "c":
		return m, m.CopySelected()
	}
	return m, nil
}

func (m GuideModel) handleTOCKeys(msg tea.KeyMsg) GuideModel {
	switch msg.String() {
	case "j", "down":
		if m.tocCursor < m.guide.Len()-1 {
			m.tocCursor++
		}
	case "k", "up":
		if m.tocCursor > 0 {
			m.tocCursor--
		}
	case "g", "home":
		m.tocCursor = 0
	case "G", "end":
		m.tocCursor = max(m.guide.Len()-1, 0)
	case "enter", " ":
		m.GoTo(m.tocCursor)
		m.focus = focusGuideContent
	case "h", "left", "esc":
		m.focus = focusGuideContent
	}
	return m
}

// Next completes the current unit and advances.
func (m *GuideModel) Next() {
	if m.nav.Next() {
		m.resetUnitView()
	}
}

// Previous moves back one unit.
func (m *GuideModel) Previous() {
	if m.nav.Previous() {
		m.resetUnitView()
	}
}

// GoTo jumps to unit i; out-of-range indices are ignored.
func (m *GuideModel) GoTo(i int) {
	if m.nav.GoTo(i) {
		m.resetUnitView()
	}
}

func (m *GuideModel) resetUnitView() {
	m.scrollOffset = 0
	m.codeCursor = 0
}

func (m *GuideModel) cycleCode(delta int) {
	n := len(m.currentUnit().CodeItems())
	if n == 0 {
		return
	}
	m.codeCursor = ((m.codeCursor+delta)%n + n) % n
}

// SelectedCode returns the body index and id of the selected code sample.
func (m GuideModel) SelectedCode() (item int, id string, ok bool) {
	u := m.currentUnit()
	items := u.CodeItems()
	if len(items) == 0 {
		return -1, "", false
	}
	item = items[min(m.codeCursor, len(items)-1)]
	return item, content.CodeBlockID(m.guide.ID, u.ID, item), true
}

// CopySelected returns a command copying the selected sample, or nil when
// the unit has no code.
func (m GuideModel) CopySelected() tea.Cmd {
	item, id, ok := m.SelectedCode()
	if !ok || m.copier == nil {
		return nil
	}
	text := m.currentUnit().Body[item].Code.Text
	cp := m.copier
	return func() tea.Msg {
		return CopyResultMsg{ID: id, Err: cp.Copy(text, id)}
	}
}

func (m GuideModel) currentUnit() content.Unit {
	u, _ := m.guide.Unit(m.nav.Current())
	return u
}

// SetGuide swaps in reloaded content, keeping position and completions
// that still fit.
func (m *GuideModel) SetGuide(g content.Guide) {
	m.guide = g
	m.nav = m.nav.Resize(g.Len())
	m.tocCursor = min(m.tocCursor, max(g.Len()-1, 0))
	if n := len(m.currentUnit().CodeItems()); m.codeCursor >= n {
		m.codeCursor = 0
	}
	m.scrollOffset = 0
	m.cache = &renderCache{}
}

// SetSize sets the dimensions and updates the markdown renderer.
func (m *GuideModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.markdownRenderer != nil {
		m.markdownRenderer.SetWidth(m.contentWidth())
	}
}

// ShowTOC opens the table of contents without moving focus to it.
func (m *GuideModel) ShowTOC(show bool) {
	m.tocVisible = show
	if !show {
		m.focus = focusGuideContent
	}
	m.SetSize(m.width, m.height)
}

// TOCFocused reports whether the table of contents has keyboard focus.
func (m GuideModel) TOCFocused() bool {
	return m.tocVisible && m.focus == focusGuideTOC
}

// Guide returns the displayed guide.
func (m GuideModel) Guide() content.Guide {
	return m.guide
}

// Navigator exposes the navigation state.
func (m GuideModel) Navigator() *navigator.Navigator {
	return m.nav
}

func (m GuideModel) contentWidth() int {
	w := m.width - 4
	if m.tocVisible {
		w -= tocWidth + 2
	}
	return max(w, 40)
}

// visibleHeight is the number of content lines between header and footer.
func (m GuideModel) visibleHeight() int {
	return max(m.height-9, 5)
}

func (m GuideModel) maxScroll() int {
	return max(len(m.renderedLines())-m.visibleHeight(), 0)
}

func (m *GuideModel) scrollBy(delta int) {
	m.scrollOffset = min(max(m.scrollOffset+delta, 0), m.maxScroll())
}

// renderedLines renders the current unit through glamour, reusing the
// previous result when nothing visible has changed.
func (m GuideModel) renderedLines() []string {
	item, _, _ := m.SelectedCode()
	copiedID := ""
	if m.copier != nil {
		copiedID = m.copier.LastCopiedID()
	}
	key := fmt.Sprintf("%d|%d|%s|%d", m.nav.Current(), item, copiedID, m.contentWidth())
	if m.cache != nil && m.cache.key == key && m.cache.lines != nil {
		return m.cache.lines
	}

	md := unitMarkdown(m.guide, m.currentUnit(), codeMarks{
		selected: item,
		copied:   func(id string) bool { return id == copiedID },
	})
	rendered := md
	if m.markdownRenderer != nil {
		if out, err := m.markdownRenderer.Render(md); err == nil {
			rendered = strings.Trim(out, "\n")
		}
	}
	lines := strings.Split(rendered, "\n")
	if m.cache != nil {
		m.cache.key = key
		m.cache.lines = lines
	}
	return lines
}

// View renders the guide.
func (m GuideModel) View() string {
	if m.guide.Len() == 0 {
		return m.renderEmptyState()
	}
	r := m.theme.Renderer
	unit := m.currentUnit()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(m.theme.Border).Render(strings.Repeat("─", m.contentWidth())))
	b.WriteString("\n")
	b.WriteString(m.renderUnitTitle(unit))
	b.WriteString("\n\n")

	body := m.renderContent()
	if m.tocVisible {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderTOC(), "  ", body))
	} else {
		b.WriteString(body)
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())

	return r.NewStyle().Padding(0, 1).MaxHeight(m.height).Render(b.String())
}

// renderHeader shows the guide title, a [k/N] counter, a progress bar and
// the completion line.
func (m GuideModel) renderHeader() string {
	r := m.theme.Renderer
	total := m.guide.Len()
	pos := m.nav.Current() + 1

	title := r.NewStyle().Bold(true).Foreground(m.theme.Primary).Render("📚 " + m.guide.Title)
	counter := r.NewStyle().Foreground(m.theme.Subtext).Render(fmt.Sprintf("[%d/%d]", pos, total))

	barWidth := 10
	filled := 0
	if total > 0 {
		filled = min(max((pos*barWidth)/total, 1), barWidth)
	}
	bar := r.NewStyle().Foreground(m.theme.Completed).Render(strings.Repeat("█", filled)) +
		r.NewStyle().Foreground(m.theme.Muted).Render(strings.Repeat("░", barWidth-filled))

	percent := r.NewStyle().Foreground(m.theme.Subtext).Render(fmt.Sprintf("%d%% completed", m.nav.Percent()))
	line := title + "  " + counter + " " + bar + " " + percent

	sub := fmt.Sprintf("%s %d of %d · %d done", capitalize(m.guide.Noun()), pos, total, m.nav.CompletedCount())
	if m.guide.Subtitle != "" {
		sub = m.guide.Subtitle + " · " + sub
	}
	return line + "\n" + m.theme.MutedText.Render(sub)
}

func (m GuideModel) renderUnitTitle(u content.Unit) string {
	r := m.theme.Renderer
	out := r.NewStyle().Bold(true).Foreground(m.theme.Primary).Render(u.Title)
	if m.nav.IsCompleted(m.nav.Current()) {
		out += r.NewStyle().Foreground(m.theme.Completed).Render(" ✓")
	}
	if u.Difficulty != "" {
		out += "  " + r.NewStyle().Foreground(m.theme.DifficultyColor(u.Difficulty)).Render("● "+u.Difficulty)
	}
	if u.TimeEstimate != "" {
		out += "  " + m.theme.MutedText.Render("⏱ "+u.TimeEstimate)
	}
	return out
}

// renderContent returns the visible window of the rendered unit with
// scroll hints.
func (m GuideModel) renderContent() string {
	lines := m.renderedLines()
	visible := m.visibleHeight()

	offset := min(m.scrollOffset, max(len(lines)-visible, 0))
	end := min(offset+visible, len(lines))
	out := strings.Join(lines[offset:end], "\n")

	if offset > 0 {
		out = m.theme.MutedText.Render("↑ more above") + "\n" + out
	}
	if end < len(lines) {
		out += "\n" + m.theme.MutedText.Render("↓ more below")
	}
	return out
}

// renderTOC renders the table of contents with completion marks.
func (m GuideModel) renderTOC() string {
	r := m.theme.Renderer

	borderColor := m.theme.Border
	if m.focus == focusGuideTOC {
		borderColor = m.theme.Primary
	}
	tocStyle := r.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(tocWidth - 2)

	itemStyle := r.NewStyle().Foreground(m.theme.Subtext)
	selectedStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	cursorStyle := r.NewStyle().
		Bold(true).
		Foreground(m.theme.Current).
		Background(m.theme.Highlight)
	doneStyle := r.NewStyle().Foreground(m.theme.Completed)

	var b strings.Builder
	b.WriteString(m.theme.PrimaryBold.Render("Contents"))
	if m.focus == focusGuideTOC {
		b.WriteString(r.NewStyle().Foreground(m.theme.Primary).Render(" ●"))
	}
	b.WriteString("\n")

	for i, u := range m.guide.Units {
		prefix := "   "
		style := itemStyle
		if m.focus == focusGuideTOC && i == m.tocCursor {
			prefix = " → "
			style = cursorStyle
		} else if m.nav.IsCurrent(i) {
			prefix = " ▶ "
			style = selectedStyle
		}

		title := runewidth.Truncate(u.Title, tocTitleWidth, "…")

		done := ""
		if m.nav.IsCompleted(i) {
			done = doneStyle.Render(" ✓")
		}
		b.WriteString(style.Render(prefix+title) + done)
		b.WriteString("\n")
	}
	return tocStyle.Render(b.String())
}

// renderFooter renders the navigation buttons and key hints.
func (m GuideModel) renderFooter() string {
	r := m.theme.Renderer
	keyStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	descStyle := r.NewStyle().Foreground(m.theme.Subtext)
	sep := r.NewStyle().Foreground(m.theme.Muted).Render(" │ ")

	prev := keyStyle.Render("← Previous")
	if m.nav.AtStart() {
		prev = m.theme.MutedText.Render("← Previous")
	}
	next := keyStyle.Render("Next →")
	if m.nav.AtEnd() {
		next = r.NewStyle().Bold(true).Foreground(m.theme.Completed).Render("Finish ✓")
	}
	buttons := prev + "   " + next

	var hints []string
	if m.focus == focusGuideTOC && m.tocVisible {
		hints = []string{
			keyStyle.Render("j/k") + descStyle.Render(" select"),
			keyStyle.Render("Enter") + descStyle.Render(" go to"),
			keyStyle.Render("Tab") + descStyle.Render(" back to content"),
			keyStyle.Render("t") + descStyle.Render(" hide TOC"),
		}
	} else {
		hints = []string{
			keyStyle.Render("j/k") + descStyle.Render(" scroll"),
			keyStyle.Render("[/]") + descStyle.Render(" code"),
			keyStyle.Render("y") + descStyle.Render(" copy"),
			keyStyle.Render("t") + descStyle.Render(" TOC"),
			keyStyle.Render("?") + descStyle.Render(" help"),
		}
	}
	return buttons + "    " + strings.Join(hints, sep)
}

func (m GuideModel) renderEmptyState() string {
	return m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(2, 4).
		Width(m.width).
		Render("This guide has no content.")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

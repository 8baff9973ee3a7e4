package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/apiguide/pkg/content"
	"github.com/vanderheijden86/apiguide/pkg/copier"
	"github.com/vanderheijden86/apiguide/pkg/debug"
)

// Options configures the root model.
type Options struct {
	// Guide is the id of the guide shown first. Unknown ids fall back to
	// the first guide.
	Guide   string
	ShowTOC bool
	Theme   *Theme
}

// Model is the root Bubble Tea model: one tab per guide plus the help and
// playground overlays.
type Model struct {
	library *content.Library
	guides  []GuideModel
	active  int
	copier  *copier.Copier
	theme   Theme
	showTOC bool

	showHelp       bool
	help           HelpModel
	showPlayground bool
	playground     PlaygroundModel
	showPicker     bool
	picker         GuidePickerModel

	statusMsg     string
	statusIsError bool

	ready  bool
	width  int
	height int
}

// NewModel builds the root model over lib. cp may be nil, which disables
// copying.
func NewModel(lib *content.Library, cp *copier.Copier, opts Options) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	m := Model{
		library: lib,
		copier:  cp,
		theme:   theme,
		showTOC: opts.ShowTOC,
		width:   80,
		height:  24,
	}
	for _, g := range lib.Guides() {
		m.guides = append(m.guides, m.newGuide(g))
	}
	for i, g := range m.guides {
		if g.Guide().ID == opts.Guide {
			m.active = i
		}
	}
	return m
}

func (m Model) newGuide(g content.Guide) GuideModel {
	gm := NewGuideModel(g, m.copier, m.theme)
	gm.SetSize(m.width, m.guideHeight())
	if m.showTOC {
		gm.ShowTOC(true)
	}
	return gm
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// The playground form needs every message type, not just keys, for
	// its internal field navigation.
	if m.showPlayground {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch {
			case k.String() == "ctrl+c":
				return m, tea.Quit
			case key.Matches(k, keys.Close):
				m.showPlayground = false
				return m, nil
			case key.Matches(k, keys.Help):
				if m.playground.Submitted() {
					m.openHelp(ContextPlayground)
					return m, nil
				}
			}
		}
		if !isAppMsg(msg) {
			m.playground, cmd = m.playground.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		for i := range m.guides {
			m.guides[i].SetSize(m.width, m.guideHeight())
		}
		m.playground.SetWidth(m.width)
		if m.showHelp {
			m.help = NewHelpModel(m.help.ctx, m.theme, m.width, m.height)
		}
		m.picker.SetSize(m.width, m.guideHeight())
		return m, nil

	case CopyResultMsg:
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("❌ Clipboard error: %v", msg.Err), true)
		} else {
			m.setStatus(fmt.Sprintf("📋 Copied %s to clipboard", msg.ID), false)
		}
		return m, nil

	case CopyExpiredMsg:
		if !m.statusIsError {
			m.statusMsg = ""
		}
		return m, nil

	case ContentReloadedMsg:
		m.SetLibrary(msg.Library)
		m.setStatus(fmt.Sprintf("🔄 Reloaded %d guides", msg.Library.Len()), false)
		return m, nil

	case ContentErrorMsg:
		m.setStatus(fmt.Sprintf("⚠ Reload failed: %v", msg.Err), true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showPicker {
		switch msg.String() {
		case "j", "down":
			m.picker.MoveDown()
		case "k", "up":
			m.picker.MoveUp()
		case "enter":
			m.SelectGuide(m.picker.Selected())
			m.showPicker = false
		case "esc", "o", "q":
			m.showPicker = false
		}
		return m, nil
	}

	if m.showHelp {
		if key.Matches(msg, keys.Close, keys.Help) {
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}

	m.statusMsg = ""
	m.statusIsError = false

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		ctx := ContextGuide
		if g := m.activeGuide(); g != nil && g.TOCFocused() {
			ctx = ContextTOC
		}
		m.openHelp(ctx)
		return m, nil

	case key.Matches(msg, keys.NextGuide):
		m.SelectGuide((m.active + 1) % max(len(m.guides), 1))
		return m, nil

	case key.Matches(msg, keys.PrevGuide):
		n := max(len(m.guides), 1)
		m.SelectGuide((m.active - 1 + n) % n)
		return m, nil

	case key.Matches(msg, keys.Picker):
		m.showPicker = true
		m.picker = NewGuidePickerModel(m.guides, m.active, m.theme)
		m.picker.SetSize(m.width, m.guideHeight())
		return m, nil

	case key.Matches(msg, keys.Playground):
		if g := m.activeGuide(); g != nil && hasPlayground(g.Guide()) {
			m.showPlayground = true
			m.playground = NewPlaygroundModel(m.theme)
			m.playground.SetWidth(m.width)
			return m, m.playground.Init()
		}
		m.setStatus("The playground lives in the quick guide (F1)", false)
		return m, nil
	}

	for i, b := range keys.guideBindings() {
		if key.Matches(msg, b) {
			m.SelectGuide(i)
			return m, nil
		}
	}

	if g := m.activeGuide(); g != nil {
		var cmd tea.Cmd
		m.guides[m.active], cmd = g.Update(msg)
		return m, cmd
	}
	return m, nil
}

// isAppMsg reports whether msg is handled by the root model even while an
// overlay owns the keyboard.
func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case tea.WindowSizeMsg, CopyResultMsg, CopyExpiredMsg, ContentReloadedMsg, ContentErrorMsg:
		return true
	}
	return false
}

func (m *Model) openHelp(ctx Context) {
	m.showHelp = true
	m.help = NewHelpModel(ctx, m.theme, m.width, m.height)
}

func (m *Model) setStatus(s string, isError bool) {
	m.statusMsg = s
	m.statusIsError = isError
}

func hasPlayground(g content.Guide) bool {
	for _, u := range g.Units {
		if u.Interactive == "playground" {
			return true
		}
	}
	return false
}

// SelectGuide switches tabs; out-of-range indices are ignored. Each guide
// keeps its own navigation state.
func (m *Model) SelectGuide(i int) {
	if i < 0 || i >= len(m.guides) {
		return
	}
	m.active = i
}

// SetLibrary swaps in reloaded content. Guides are matched by id so
// navigation state survives; positions beyond the new length are clamped.
func (m *Model) SetLibrary(lib *content.Library) {
	if lib == nil {
		return
	}
	activeID := ""
	if g := m.activeGuide(); g != nil {
		activeID = g.Guide().ID
	}

	byID := make(map[string]GuideModel, len(m.guides))
	for _, g := range m.guides {
		byID[g.Guide().ID] = g
	}

	guides := make([]GuideModel, 0, lib.Len())
	m.active = 0
	for i, g := range lib.Guides() {
		gm, ok := byID[g.ID]
		if ok {
			gm.SetGuide(g)
		} else {
			gm = m.newGuide(g)
		}
		guides = append(guides, gm)
		if g.ID == activeID {
			m.active = i
		}
	}
	m.library = lib
	m.guides = guides
	debug.Log("ui: library replaced, %d guides, active=%d", len(guides), m.active)
}

func (m Model) activeGuide() *GuideModel {
	if m.active < 0 || m.active >= len(m.guides) {
		return nil
	}
	return &m.guides[m.active]
}

// ActiveGuide returns the displayed guide model.
func (m Model) ActiveGuide() (GuideModel, bool) {
	g := m.activeGuide()
	if g == nil {
		return GuideModel{}, false
	}
	return *g, true
}

// Status returns the status line text and whether it is an error.
func (m Model) Status() (string, bool) {
	return m.statusMsg, m.statusIsError
}

// guideHeight is the space left for a guide below the tabs and above the
// status bar.
func (m Model) guideHeight() int {
	return max(m.height-4, 8)
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Loading guides..."
	}
	if len(m.guides) == 0 {
		return m.theme.ErrorText.Render("No guides loaded.")
	}

	var body string
	switch {
	case m.showPicker:
		body = m.picker.View()
	case m.showHelp:
		body = lipgloss.Place(m.width, m.guideHeight(), lipgloss.Center, lipgloss.Center, m.help.View())
	case m.showPlayground:
		body = lipgloss.Place(m.width, m.guideHeight(), lipgloss.Center, lipgloss.Top, m.playground.View())
	default:
		body = m.guides[m.active].View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), body, m.renderFooter())
}

func (m Model) renderTabs() string {
	tabs := []string{m.theme.Header.Render("apiguide"), " "}
	for i, g := range m.guides {
		label := g.Guide().Title
		if i < len(keys.guideBindings()) {
			label = fmt.Sprintf("F%d %s", i+1, label)
		}
		nav := g.Navigator()
		if nav.Len() > 0 && nav.CompletedCount() == nav.Len() {
			label += " ✓"
		}
		if i == m.active {
			tabs = append(tabs, m.theme.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

// renderFooter renders the status bar: a soft error or acknowledgment if
// one is pending, otherwise the completion summary.
func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		style := m.theme.CopiedBadge
		if m.statusIsError {
			style = m.theme.ErrorText
		}
		return style.Width(m.width).Render(" " + m.statusMsg)
	}

	var parts []string
	if g := m.activeGuide(); g != nil {
		nav := g.Navigator()
		parts = append(parts, fmt.Sprintf("%d/%d %ss done", nav.CompletedCount(), nav.Len(), g.Guide().Noun()))
	}
	parts = append(parts, "F1-F3 guides", "o all guides", "? help", "q quit")
	return m.theme.MutedText.Width(m.width).Render(" " + strings.Join(parts, " · "))
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Context identifies what had focus when help was opened.
type Context int

const (
	ContextGuide Context = iota
	ContextTOC
	ContextPlayground
)

// ContextHelpContent contains compact help content for each context.
var ContextHelpContent = map[Context]string{
	ContextGuide:      contextHelpGuide,
	ContextTOC:        contextHelpTOC,
	ContextPlayground: contextHelpPlayground,
}

// GetContextHelp returns the help content for a given context.
func GetContextHelp(ctx Context) string {
	if content, ok := ContextHelpContent[ctx]; ok {
		return content
	}
	return contextHelpGuide
}

// HelpModel is the scrollable help overlay.
type HelpModel struct {
	ctx      Context
	theme    Theme
	viewport viewport.Model
	width    int
}

// NewHelpModel builds the overlay for ctx sized to the terminal.
func NewHelpModel(ctx Context, theme Theme, width, height int) HelpModel {
	modalWidth := min(64, max(width-4, 20))
	vp := viewport.New(modalWidth-6, max(height-10, 5))
	vp.SetContent(GetContextHelp(ctx) + "\n\n" + globalKeysHelp())
	return HelpModel{ctx: ctx, theme: theme, viewport: vp, width: modalWidth}
}

// Update scrolls the help text.
func (m HelpModel) Update(msg tea.Msg) (HelpModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the help modal.
func (m HelpModel) View() string {
	r := m.theme.Renderer

	titleStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	contentStyle := r.NewStyle().Foreground(m.theme.Subtext)
	footerStyle := r.NewStyle().Foreground(m.theme.Muted).Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(m.theme.Border).Render(strings.Repeat("─", m.width-6)))
	b.WriteString("\n\n")
	b.WriteString(contentStyle.Render(m.viewport.View()))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("j/k scroll │ %3.f%% │ Esc or ? to close", m.viewport.ScrollPercent()*100)))

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Secondary).
		Padding(1, 2).
		Width(m.width).
		Render(b.String())
}

// globalKeysHelp formats the root key bindings as a two-column list.
func globalKeysHelp() string {
	var b strings.Builder
	b.WriteString("**Everywhere**\n")
	for _, binding := range keys.globalHelp() {
		h := binding.Help()
		b.WriteString(fmt.Sprintf("  %-18s%s\n", h.Key, h.Desc))
	}
	return strings.TrimRight(b.String(), "\n")
}

const contextHelpGuide = `## Reading a Guide

**Moving Between Units**
  →/l/n/Space   Next (marks this one done)
  ←/h/p         Previous
  1-9           Jump to unit
  Tab           Next, or switch focus with TOC

**Scrolling**
  j/k           Line down/up
  Ctrl+d/u      Half page
  g/G           Top/bottom

**Code Samples**
  [ / ]         Select previous/next sample
  y or c        Copy selected sample

**Layout**
  t             Toggle table of contents`

const contextHelpTOC = `## Table of Contents

  j/k           Move cursor
  g/G           First/last unit
  Enter/Space   Open unit
  h/Esc         Back to content
  Tab           Back to content
  t             Hide TOC

  ✓ completed   ▶ current`

const contextHelpPlayground = `## API Playground

Nothing is sent over the network: the
response echoes your request back.

  Tab/Shift+Tab Move between fields
  Enter         Next field / submit
  r             Send another request
  Esc           Close playground`

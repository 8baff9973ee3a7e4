package ui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/apiguide/pkg/playground"
)

// playgroundValues is bound to the form fields. It lives behind a pointer
// so value copies of the model keep writing to the same place.
type playgroundValues struct {
	method   string
	endpoint string
	body     string
}

// PlaygroundModel is the request form plus the last simulated response.
type PlaygroundModel struct {
	theme    Theme
	vals     *playgroundValues
	form     *huh.Form
	response string
	err      error
	width    int
	now      func() time.Time
}

// NewPlaygroundModel creates a playground with GET /items/1 prefilled.
func NewPlaygroundModel(theme Theme) PlaygroundModel {
	m := PlaygroundModel{
		theme: theme,
		vals:  &playgroundValues{method: "GET", endpoint: "/items/1"},
		width: 60,
		now:   time.Now,
	}
	m.form = m.newForm()
	return m
}

func (m PlaygroundModel) newForm() *huh.Form {
	v := m.vals
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Method").
				Options(huh.NewOptions(playground.Methods...)...).
				Value(&v.method),
			huh.NewInput().
				Title("Endpoint").
				Placeholder("/items/1").
				Value(&v.endpoint).
				Validate(validateEndpoint),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Request body (JSON)").
				Placeholder(`{"name": "example", "price": 10.99}`).
				Value(&v.body).
				Validate(playground.ValidateBody),
		).WithHideFunc(func() bool { return !playground.HasBody(v.method) }),
	).WithTheme(huh.ThemeDracula()).WithWidth(m.width).WithShowHelp(true)
}

func validateEndpoint(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("endpoint is required")
	}
	return nil
}

// Init starts the form.
func (m PlaygroundModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards every message to the form; huh relies on its own
// internal messages to move between fields.
func (m PlaygroundModel) Update(msg tea.Msg) (PlaygroundModel, tea.Cmd) {
	if m.Submitted() {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "r" {
			m.response, m.err = "", nil
			m.form = m.newForm()
			return m, m.form.Init()
		}
		return m, nil
	}

	fm, cmd := m.form.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.submit()
	}
	return m, cmd
}

// Submitted reports whether a response (or error) is being shown.
func (m PlaygroundModel) Submitted() bool {
	return m.response != "" || m.err != nil
}

func (m *PlaygroundModel) submit() {
	req := playground.Request{Method: m.vals.method, Endpoint: m.vals.endpoint, Body: m.vals.body}
	resp, err := playground.Simulate(req, m.now())
	if err != nil {
		m.err = err
		return
	}
	m.response, m.err = resp.JSON()
}

// SetWidth resizes the form.
func (m *PlaygroundModel) SetWidth(width int) {
	m.width = min(max(width-8, 30), 80)
	if m.form != nil {
		m.form = m.form.WithWidth(m.width)
	}
}

// View renders the form, or the response once submitted.
func (m PlaygroundModel) View() string {
	r := m.theme.Renderer

	var b strings.Builder
	b.WriteString(m.theme.PrimaryBold.Render("🧪 API Playground"))
	b.WriteString("\n")
	b.WriteString(m.theme.MutedText.Render("Simulated locally. No request leaves your machine."))
	b.WriteString("\n\n")

	if !m.Submitted() {
		b.WriteString(m.form.View())
	} else {
		b.WriteString(m.theme.Base.Render(m.vals.method + " " + strings.TrimSpace(m.vals.endpoint)))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(m.theme.ErrorText.Render("❌ " + m.err.Error()))
		} else {
			b.WriteString(r.NewStyle().
				Foreground(m.theme.Code).
				Border(lipgloss.NormalBorder()).
				BorderForeground(m.theme.Border).
				Padding(0, 1).
				Render(m.response))
		}
		b.WriteString("\n\n")
		b.WriteString(m.theme.MutedText.Render("r send another │ esc close"))
	}

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(1, 2).
		Render(b.String())
}

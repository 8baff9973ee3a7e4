package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings handled by the root model. Guide-level keys
// live in GuideModel.
type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	NextGuide  key.Binding
	PrevGuide  key.Binding
	Guide1     key.Binding
	Guide2     key.Binding
	Guide3     key.Binding
	Playground key.Binding
	Picker     key.Binding
	Close      key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	NextGuide: key.NewBinding(
		key.WithKeys("ctrl+right"),
		key.WithHelp("ctrl+→", "next guide"),
	),
	PrevGuide: key.NewBinding(
		key.WithKeys("ctrl+left", "shift+tab"),
		key.WithHelp("ctrl+←/shift+tab", "previous guide"),
	),
	Guide1: key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "quick guide")),
	Guide2: key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "detailed guide")),
	Guide3: key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "practical example")),
	Playground: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "API playground"),
	),
	Picker: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open guide list"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
}

// guideBindings returns the tab-switch bindings in guide order.
func (k keyMap) guideBindings() []key.Binding {
	return []key.Binding{k.Guide1, k.Guide2, k.Guide3}
}

// globalHelp lists the root bindings for the help overlay.
func (k keyMap) globalHelp() []key.Binding {
	return []key.Binding{k.Guide1, k.Guide2, k.Guide3, k.NextGuide, k.PrevGuide, k.Picker, k.Playground, k.Help, k.Quit}
}

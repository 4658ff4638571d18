package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab    key.Binding
	PrevTab    key.Binding
	NextTable  key.Binding
	PrevTable  key.Binding
	NextColumn key.Binding
	PrevColumn key.Binding
	Open       key.Binding
	Refresh    key.Binding
	Cancel     key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
	NextTable:  key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "table")),
	PrevTable:  key.NewBinding(key.WithKeys("[")),
	NextColumn: key.NewBinding(key.WithKeys("."), key.WithHelp(",/.", "column")),
	PrevColumn: key.NewBinding(key.WithKeys(",")),
	Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "import file")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.NextTable, k.NextColumn, k.Open, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab},
		{k.NextTable, k.PrevTable, k.NextColumn, k.PrevColumn},
		{k.Open, k.Refresh, k.Cancel, k.Quit},
	}
}

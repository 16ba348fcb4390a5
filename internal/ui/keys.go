package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Back       key.Binding
	Up         key.Binding
	Down       key.Binding
	NextCat    key.Binding
	PrevCat    key.Binding
	Search     key.Binding
	New        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Refresh    key.Binding
	Confirm    key.Binding
	Deny       key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	NextOption key.Binding
	PrevOption key.Binding
	Toggle     key.Binding
	Submit     key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	NextCat:    key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next category")),
	PrevCat:    key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev category")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	New:        key.NewBinding(key.WithKeys("n", "a"), key.WithHelp("n", "new")),
	Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	Delete:     key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Confirm:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	Deny:       key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	NextOption: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next option")),
	PrevOption: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev option")),
	Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Submit:     key.NewBinding(key.WithKeys("ctrl+s", "enter"), key.WithHelp("ctrl+s", "save")),
}

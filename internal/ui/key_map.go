package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	back   key.Binding
	search key.Binding
	add    key.Binding
	remove key.Binding
	rename key.Binding
	create key.Binding
	lists  key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to playlist")),
		remove: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		rename: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		create: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new playlist")),
		lists:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "playlists")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.search, k.lists},
		{k.add, k.remove, k.rename},
		{k.create, k.quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the player bindings.
type keyMap struct {
	pause      key.Binding
	volumeUp   key.Binding
	volumeDown key.Binding
	skip       key.Binding
	preset     key.Binding
	visualizer key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		pause:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		volumeUp:   key.NewBinding(key.WithKeys("+", "=", "]", "up"), key.WithHelp("+", "vol up")),
		volumeDown: key.NewBinding(key.WithKeys("-", "_", "[", "down"), key.WithHelp("-", "vol down")),
		skip:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip")),
		preset:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preset")),
		visualizer: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "visual")),
		quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.pause, k.volumeUp, k.volumeDown, k.skip, k.preset, k.visualizer, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.pause, k.skip},
		{k.volumeUp, k.volumeDown},
		{k.preset, k.visualizer, k.quit},
	}
}

// selectorKeyMap holds the bindings active while choosing a preset.
type selectorKeyMap struct {
	prev    key.Binding
	next    key.Binding
	confirm key.Binding
	cancel  key.Binding
	quit    key.Binding
}

func newSelectorKeyMap() selectorKeyMap {
	return selectorKeyMap{
		prev:    key.NewBinding(key.WithKeys("left", "j"), key.WithHelp("←/j", "prev")),
		next:    key.NewBinding(key.WithKeys("right", "k", "p"), key.WithHelp("→/k", "next")),
		confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		cancel:  key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "cancel")),
		quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k selectorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.prev, k.next, k.confirm, k.cancel}
}

func (k selectorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.prev, k.next}, {k.confirm, k.cancel, k.quit}}
}

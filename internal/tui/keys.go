package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextDay  key.Binding
	NextWeek key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Unlock   key.Binding
	Accept   key.Binding
	Decline  key.Binding
	Office   key.Binding
	Repay    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextDay:  key.NewBinding(key.WithKeys("n", " "), key.WithHelp("n", "next day")),
		NextWeek: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "next 7 days")),
		NextTab:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next view")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev view")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "develop / hire / campaign")),
		Unlock:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unlock channel")),
		Accept:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accept offer")),
		Decline:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "decline offer")),
		Office:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "toggle office")),
		Repay:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repay debt")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextDay, k.NextTab, k.Select, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextDay, k.NextWeek, k.Office, k.Repay},
		{k.NextTab, k.PrevTab, k.Up, k.Down},
		{k.Select, k.Unlock, k.Accept, k.Decline},
		{k.Help, k.Quit},
	}
}

package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the app responds to. Bindings that do not
// apply at the current breakpoint are disabled rather than removed, so
// the help footer stays honest.
type KeyMap struct {
	Submit        key.Binding
	ToggleSidebar key.Binding
	ToggleView    key.Binding
	Escape        key.Binding
	Tab           key.Binding
	ShiftTab      key.Binding

	GrowChat     key.Binding
	ShrinkChat   key.Binding
	ResetSplit   key.Binding
	MaxDashboard key.Binding
	MaxChat      key.Binding

	CopySQL  key.Binding
	Export   key.Binding
	Refresh  key.Binding
	PageNext key.Binding
	PagePrev key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ask"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "sidebar"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "chart/data"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next focus"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev focus"),
		),
		GrowChat: key.NewBinding(
			key.WithKeys("ctrl+right", "alt+right"),
			key.WithHelp("ctrl+→", "grow chat"),
		),
		ShrinkChat: key.NewBinding(
			key.WithKeys("ctrl+left", "alt+left"),
			key.WithHelp("ctrl+←", "shrink chat"),
		),
		ResetSplit: key.NewBinding(
			key.WithKeys("ctrl+home"),
			key.WithHelp("ctrl+home", "reset split"),
		),
		MaxDashboard: key.NewBinding(
			key.WithKeys("ctrl+end", "ctrl+pgdown"),
			key.WithHelp("ctrl+end", "max dashboard"),
		),
		MaxChat: key.NewBinding(
			key.WithKeys("ctrl+pgup"),
			key.WithHelp("ctrl+pgup", "max chat"),
		),
		CopySQL: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy SQL"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		PageNext: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "next page"),
		),
		PagePrev: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "prev page"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// SetResizeEnabled enables or disables the split-pane bindings; resize
// has no meaning on the mobile breakpoint or under hard constraints.
func (k *KeyMap) SetResizeEnabled(enabled bool) {
	k.GrowChat.SetEnabled(enabled)
	k.ShrinkChat.SetEnabled(enabled)
	k.ResetSplit.SetEnabled(enabled)
	k.MaxDashboard.SetEnabled(enabled)
	k.MaxChat.SetEnabled(enabled)
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ToggleSidebar, k.ToggleView, k.CopySQL, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.ToggleSidebar, k.ToggleView, k.Escape},
		{k.GrowChat, k.ShrinkChat, k.ResetSplit, k.MaxDashboard, k.MaxChat},
		{k.CopySQL, k.Export, k.Refresh, k.PageNext, k.PagePrev},
		{k.Tab, k.ShiftTab, k.Help, k.Quit},
	}
}

package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyMap struct {
	Submit     key.Binding
	Help       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run command")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "toggle help")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll transcript up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll transcript down")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit without saving")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Help},
		{k.ScrollUp, k.ScrollDown},
		{k.Quit},
	}
}

const commandReference = `## Commands

| Command | Effect |
| --- | --- |
| ` + "`todo DESC`" + ` | add a plain task |
| ` + "`deadline DESC /by DATE`" + ` | add a task due on DATE (d/m/yyyy [hhmm] or yyyy-mm-dd) |
| ` + "`event DESC /at WINDOW`" + ` | add a task happening at WINDOW |
| ` + "`list`" + ` | show every task |
| ` + "`find KEYWORD`" + ` | show tasks whose line contains KEYWORD |
| ` + "`done N`" + ` | mark task N as done |
| ` + "`delete N`" + ` | remove task N |
| ` + "`bye`" + ` | save and quit |
`

func (m Model) renderHelpView() string {
	parts := []string{m.helpModel.View(m.Keys)}
	if m.reference != "" {
		parts = append(parts, m.reference)
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderFooter() string {
	if m.HelpVisible {
		return "f1 hide help"
	}
	short := m.helpModel
	short.ShowAll = false
	return short.View(m.Keys)
}

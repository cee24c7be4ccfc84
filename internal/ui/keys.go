package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Collapse key.Binding
	Toggle   key.Binding
	MarkAll  key.Binding
	Clear    key.Binding
	Delete   key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Scan     key.Binding
	MinSize  key.Binding
	Roots    key.Binding
	Sort     key.Binding
	Theme    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "fold group"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle mark"),
		),
		MarkAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "mark all but first"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear marks"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete marked"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Scan: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "rescan"),
		),
		MinSize: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "min size"),
		),
		Roots: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "roots"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "order"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Toggle, keys.MarkAll, keys.Delete, keys.Scan, keys.Help, keys.Quit}
}

func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Up, keys.Down, keys.Top, keys.Bottom, keys.Collapse},
		{keys.Toggle, keys.MarkAll, keys.Clear, keys.Delete},
		{keys.Scan, keys.Roots, keys.MinSize, keys.Sort, keys.Theme},
		{keys.Confirm, keys.Cancel, keys.Help, keys.Quit},
	}
}

// WithBindings rebinds actions from the config file. Values are comma
// separated key names, e.g. {"quit": "ctrl+q,q"}. Unknown actions are ignored.
func (keys KeyMap) WithBindings(overrides map[string]string) KeyMap {
	targets := map[string]*key.Binding{
		"up":       &keys.Up,
		"down":     &keys.Down,
		"top":      &keys.Top,
		"bottom":   &keys.Bottom,
		"collapse": &keys.Collapse,
		"toggle":   &keys.Toggle,
		"mark_all": &keys.MarkAll,
		"clear":    &keys.Clear,
		"delete":   &keys.Delete,
		"confirm":  &keys.Confirm,
		"cancel":   &keys.Cancel,
		"scan":     &keys.Scan,
		"min_size": &keys.MinSize,
		"roots":    &keys.Roots,
		"sort":     &keys.Sort,
		"theme":    &keys.Theme,
		"help":     &keys.Help,
		"quit":     &keys.Quit,
	}
	for action, value := range overrides {
		binding, ok := targets[strings.ToLower(action)]
		if !ok {
			continue
		}
		var names []string
		for _, name := range strings.Split(value, ",") {
			name = strings.TrimSpace(name)
			switch name {
			case "":
			case "space":
				names = append(names, " ", "space")
			default:
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			continue
		}
		binding.SetKeys(names...)
		labels := make([]string, 0, len(names))
		for _, name := range names {
			if name != " " {
				labels = append(labels, name)
			}
		}
		binding.SetHelp(strings.Join(labels, "/"), binding.Help().Desc)
	}
	return keys
}

package keymap

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// GlobalContext bindings apply in every context.
const GlobalContext = "global"

// Binding maps a key to a command within a context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Registry resolves key presses to commands per context.
type Registry struct {
	contexts map[string]*contextBindings
}

type contextBindings struct {
	order    []string
	bindings map[string]*key.Binding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{contexts: make(map[string]*contextBindings)}
}

// New returns a registry with the default bindings and the given overrides
// applied. Overrides are keyed "context.command" with comma-separated keys.
func New(overrides map[string]string) (*Registry, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	if err := r.ApplyOverrides(overrides); err != nil {
		return r, err
	}
	return r, nil
}

func (r *Registry) context(name string) *contextBindings {
	c, ok := r.contexts[name]
	if !ok {
		c = &contextBindings{bindings: make(map[string]*key.Binding)}
		r.contexts[name] = c
	}
	return c
}

// RegisterBinding adds b.Key to the keys of b.Command in b.Context.
func (r *Registry) RegisterBinding(b Binding) {
	c := r.context(b.Context)
	kb, ok := c.bindings[b.Command]
	if !ok {
		nb := key.NewBinding()
		kb = &nb
		c.bindings[b.Command] = kb
		c.order = append(c.order, b.Command)
	}
	keys := append(kb.Keys(), b.Key)
	kb.SetKeys(keys...)
	kb.SetHelp(helpKeys(keys), b.Command)
}

func helpKeys(keys []string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		names[i] = k
	}
	return strings.Join(names, "/")
}

// ApplyOverrides replaces the keys of existing commands. Unknown ids are
// reported together; valid overrides are still applied.
func (r *Registry) ApplyOverrides(overrides map[string]string) error {
	var bad []string
	for id, keys := range overrides {
		ctx, cmd, ok := strings.Cut(id, ".")
		if !ok {
			bad = append(bad, id)
			continue
		}
		c, ok := r.contexts[ctx]
		if !ok {
			bad = append(bad, id)
			continue
		}
		kb, ok := c.bindings[cmd]
		if !ok {
			bad = append(bad, id)
			continue
		}
		var list []string
		for _, k := range strings.Split(keys, ",") {
			switch k = strings.TrimSpace(k); k {
			case "":
			case "space":
				list = append(list, " ")
			default:
				list = append(list, k)
			}
		}
		if len(list) == 0 {
			kb.SetEnabled(false)
			continue
		}
		kb.SetKeys(list...)
		kb.SetHelp(helpKeys(list), cmd)
	}
	if len(bad) > 0 {
		return fmt.Errorf("keymap: unknown binding ids: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Lookup returns the command bound to msg in context, falling back to the
// global context. It returns "" when nothing matches.
func (r *Registry) Lookup(context string, msg tea.KeyMsg) string {
	for _, name := range []string{context, GlobalContext} {
		c, ok := r.contexts[name]
		if !ok {
			continue
		}
		for _, cmd := range c.order {
			if key.Matches(msg, *c.bindings[cmd]) {
				return cmd
			}
		}
	}
	return ""
}

// Binding returns the key binding for a command, or a disabled binding.
func (r *Registry) Binding(context, command string) key.Binding {
	if c, ok := r.contexts[context]; ok {
		if kb, ok := c.bindings[command]; ok {
			return *kb
		}
	}
	return key.NewBinding(key.WithDisabled())
}

// Help returns the enabled bindings of context in registration order.
func (r *Registry) Help(context string) []key.Binding {
	c, ok := r.contexts[context]
	if !ok {
		return nil
	}
	out := make([]key.Binding, 0, len(c.order))
	for _, cmd := range c.order {
		if kb := c.bindings[cmd]; kb.Enabled() {
			out = append(out, *kb)
		}
	}
	return out
}

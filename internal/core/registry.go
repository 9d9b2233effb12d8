package core

import (
	"fmt"
	"sort"
	"strings"
)

// Registry stores commands by name and alias. It is built once during setup
// and treated as read-only afterwards; mutating it concurrently with
// dispatch is not supported.
type Registry struct {
	caseSensitive bool
	commands      map[string]*Command
}

// NewRegistry returns an empty registry. With caseSensitive false, lookups
// fold names to lower case.
func NewRegistry(caseSensitive bool) *Registry {
	return &Registry{
		caseSensitive: caseSensitive,
		commands:      make(map[string]*Command),
	}
}

// Register adds a command under its name and all aliases. Names must be
// unique within the registry.
func (r *Registry) Register(c *Command) error {
	if c.Name == "" {
		return fmt.Errorf("registry: command has no name")
	}
	if c.Execute == nil {
		return fmt.Errorf("registry: command %q has no execute hook", c.Name)
	}
	keys := append([]string{c.Name}, c.Aliases...)
	for _, k := range keys {
		k = r.fold(k)
		if _, exists := r.commands[k]; exists {
			return fmt.Errorf("registry: duplicate command name %q", k)
		}
	}
	for _, k := range keys {
		r.commands[r.fold(k)] = c
	}
	return nil
}

// Get returns the command registered under name or one of its aliases.
func (r *Registry) Get(name string) (*Command, bool) {
	c, ok := r.commands[r.fold(name)]
	return c, ok
}

// All returns all registered commands once each, sorted by name.
func (r *Registry) All() []*Command {
	seen := make(map[string]bool, len(r.commands))
	list := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Resolve strips prefix from content, splits the remainder into a command
// name and arguments, and looks the name up. With spaceAfterPrefix false, a
// space between prefix and name makes the message a non-command.
func (r *Registry) Resolve(content, prefix string, spaceAfterPrefix bool) (*Command, []string, bool) {
	rest := strings.TrimPrefix(content, prefix)
	if strings.HasPrefix(rest, " ") {
		if !spaceAfterPrefix {
			return nil, nil, false
		}
		rest = rest[1:]
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil, nil, false
	}

	cmd, ok := r.Get(fields[0])
	if !ok {
		return nil, nil, false
	}
	return cmd, fields[1:], true
}

func (r *Registry) fold(name string) string {
	if r.caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

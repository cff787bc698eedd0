// Package task implements the development task runner: a static table of
// named commands, each an ordered sequence of steps, executed sequentially
// with first-failure abort.
package task

import (
	"fmt"
	"strings"
)

// Step is one invocation within a command: either a line of text to print
// or an argv to execute. Exactly one of the two is set.
type Step struct {
	Print string
	Argv  []string
}

// Command is a named entry in the table.
type Command struct {
	Name        string
	Description string
	Steps       []Step
}

// Table maps command names to commands and carries the default command used
// when the runner is invoked without a name.
type Table struct {
	commands    map[string]Command
	order       []string
	defaultName string
}

// NewTable builds a validated table. Names must be unique and the default
// must name an existing command.
func NewTable(defaultName string, cmds ...Command) (*Table, error) {
	t := &Table{commands: make(map[string]Command, len(cmds)), defaultName: defaultName}
	for _, c := range cmds {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("command with empty name")
		}
		if _, exists := t.commands[name]; exists {
			return nil, fmt.Errorf("duplicate command %q", name)
		}
		c.Name = name
		t.commands[name] = c
		t.order = append(t.order, name)
	}
	if _, ok := t.commands[defaultName]; !ok {
		return nil, fmt.Errorf("default command %q not in table", defaultName)
	}
	return t, nil
}

// Lookup returns the command and whether it exists.
func (t *Table) Lookup(name string) (Command, bool) {
	c, ok := t.commands[name]
	return c, ok
}

// Default returns the default command name.
func (t *Table) Default() string { return t.defaultName }

// Names lists command names in declaration order.
func (t *Table) Names() []string {
	return append([]string(nil), t.order...)
}

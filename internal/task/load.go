package task

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// tableFile is the on-disk shape of devtasks.toml.
type tableFile struct {
	Default  string        `toml:"default"`
	Commands []commandFile `toml:"command"`
}

type commandFile struct {
	Name        string     `toml:"name"`
	Description string     `toml:"description"`
	Steps       [][]string `toml:"steps"`
	Print       []string   `toml:"print"`
}

// LoadTable reads a TOML command table. The file replaces the built-in
// table wholesale; the usual invariants (unique names, resolvable default)
// are enforced on load. An empty default means help.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	var tf tableFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}
	if tf.Default == "" {
		tf.Default = "help"
	}
	cmds := make([]Command, 0, len(tf.Commands))
	for i, cf := range tf.Commands {
		var steps []Step
		for _, line := range cf.Print {
			steps = append(steps, Step{Print: line})
		}
		for j, argv := range cf.Steps {
			if len(argv) == 0 {
				return nil, fmt.Errorf("command[%d] %q: step[%d] is empty", i, cf.Name, j)
			}
			steps = append(steps, Step{Argv: argv})
		}
		if len(steps) == 0 {
			return nil, fmt.Errorf("command[%d] %q: no steps", i, cf.Name)
		}
		cmds = append(cmds, Command{Name: cf.Name, Description: cf.Description, Steps: steps})
	}
	return NewTable(tf.Default, cmds...)
}

package task

// Usage is the static help text: the available commands with one-line
// descriptions.
var usageLines = []string{
	"Available commands:",
	"  setup   - synchronize project dependencies",
	"  format  - format the tree and auto-fix lint findings",
	"  run     - launch the Scavenger assistant",
}

// DefaultTable returns the built-in command table. Invoking the runner with
// no argument resolves to help.
func DefaultTable() *Table {
	steps := make([]Step, 0, len(usageLines))
	for _, line := range usageLines {
		steps = append(steps, Step{Print: line})
	}
	t, err := NewTable("help",
		Command{Name: "help", Description: "print this usage text", Steps: steps},
		Command{Name: "setup", Description: "synchronize project dependencies", Steps: []Step{
			{Argv: []string{"go", "mod", "tidy"}},
		}},
		Command{Name: "format", Description: "format the tree and auto-fix lint findings", Steps: []Step{
			{Argv: []string{"gofmt", "-w", "."}},
			{Argv: []string{"go", "vet", "./..."}},
			{Argv: []string{"goimports", "-w", "."}},
		}},
		Command{Name: "run", Description: "launch the Scavenger assistant", Steps: []Step{
			{Argv: []string{"go", "run", "./cmd/scavenger"}},
		}},
	)
	if err != nil {
		// The built-in table is static; a validation failure is a programming error.
		panic(err)
	}
	return t
}

package task

import (
	"strings"
	"testing"
)

func TestNewTable_RejectsDuplicates(t *testing.T) {
	_, err := NewTable("a",
		Command{Name: "a", Steps: []Step{{Print: "x"}}},
		Command{Name: "a", Steps: []Step{{Print: "y"}}},
	)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestNewTable_RejectsMissingDefault(t *testing.T) {
	_, err := NewTable("help", Command{Name: "build", Steps: []Step{{Print: "x"}}})
	if err == nil {
		t.Fatalf("expected error for absent default")
	}
}

func TestNewTable_RejectsEmptyName(t *testing.T) {
	_, err := NewTable("", Command{Name: "", Steps: []Step{{Print: "x"}}})
	if err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestTable_LookupAndNames(t *testing.T) {
	table, err := NewTable("help",
		Command{Name: "help", Description: "show usage", Steps: []Step{{Print: "usage"}}},
		Command{Name: "run", Steps: []Step{{Argv: []string{"true"}}}},
	)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if _, ok := table.Lookup("run"); !ok {
		t.Fatalf("run not found")
	}
	if _, ok := table.Lookup("nope"); ok {
		t.Fatalf("unexpected hit for nope")
	}
	if def := table.Default(); def != "help" {
		t.Fatalf("default = %q", def)
	}
	names := table.Names()
	if len(names) != 2 || names[0] != "help" || names[1] != "run" {
		t.Fatalf("names = %v", names)
	}
}

func TestDefaultTable_Shape(t *testing.T) {
	table := DefaultTable()
	for _, name := range []string{"help", "setup", "format", "run"} {
		if _, ok := table.Lookup(name); !ok {
			t.Fatalf("missing command %q", name)
		}
	}
	if table.Default() != "help" {
		t.Fatalf("default = %q", table.Default())
	}
	format, _ := table.Lookup("format")
	if len(format.Steps) != 3 {
		t.Fatalf("format steps = %d", len(format.Steps))
	}
	if format.Steps[0].Argv[0] != "gofmt" {
		t.Fatalf("format starts with %v", format.Steps[0].Argv)
	}
}

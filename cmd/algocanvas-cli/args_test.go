package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// validate finds the subcommand named by args and checks its positional
// arguments without running it.
func validate(t *testing.T, args ...string) error {
	t.Helper()
	cmd, rest, err := newRootCmd().Find(args)
	if err != nil {
		t.Fatalf("find %v: %v", args, err)
	}
	return cmd.ValidateArgs(rest)
}

func TestCommandArgCounts(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"session create takes none", []string{"session", "create"}, false},
		{"session create rejects extra", []string{"session", "create", "x"}, true},
		{"session get needs id", []string{"session", "get"}, true},
		{"session get with id", []string{"session", "get", "s1"}, false},
		{"canvas click needs point", []string{"canvas", "click", "s1", "10"}, true},
		{"canvas click with point", []string{"canvas", "click", "s1", "10", "20"}, false},
		{"canvas drag needs two points", []string{"canvas", "drag", "s1", "1", "2", "3"}, true},
		{"canvas drag with two points", []string{"canvas", "drag", "s1", "1", "2", "3", "4"}, false},
		{"canvas mode", []string{"canvas", "mode", "s1", "addNode"}, false},
		{"run with id only", []string{"run", "s1"}, false},
		{"run with file", []string{"run", "s1", "algo.py"}, false},
		{"run rejects three", []string{"run", "s1", "a.py", "b.py"}, true},
		{"playback step", []string{"playback", "step", "s1"}, false},
		{"playback speed needs ms", []string{"playback", "speed", "s1"}, true},
		{"graph import needs file", []string{"graph", "import", "s1"}, true},
		{"library load", []string{"library", "load", "s1", "triangle"}, false},
		{"library alias", []string{"lib", "list"}, false},
		{"replay needs two files", []string{"replay", "g.json"}, true},
		{"extract one file", []string{"extract", "-"}, false},
		{"watch needs id", []string{"watch"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validate(t, tc.args...)
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestArgErrorsStopBeforeRun(t *testing.T) {
	resetFlags(t)
	root := newRootCmd()
	if err := executeArgs(t, root, "canvas", "click", "s1"); err == nil {
		t.Fatal("expected arg count error")
	}
}

func TestLibrarySaveRequiresOneSource(t *testing.T) {
	for name, args := range map[string][]string{
		"neither": {"library", "save", "g"},
		"both":    {"library", "save", "g", "--session", "s1", "--file", "g.json"},
	} {
		t.Run(name, func(t *testing.T) {
			resetFlags(t)
			err := executeArgs(t, newRootCmd(), args...)
			if err == nil || !strings.Contains(err.Error(), "exactly one") {
				t.Errorf("expected exactly-one error, got %v", err)
			}
		})
	}
}

func TestRootFlagDefaults(t *testing.T) {
	resetFlags(t)
	root := newRootCmd()

	if f := root.PersistentFlags().Lookup("url"); f == nil || f.DefValue != defaultURL {
		t.Errorf("--url default: %v", f)
	}
	if f := root.PersistentFlags().Lookup("format"); f == nil || f.DefValue != "json" {
		t.Errorf("--format default: %v", f)
	}

	replayCmd, _, err := root.Find([]string{"replay"})
	if err != nil {
		t.Fatal(err)
	}
	if f := replayCmd.Flags().Lookup("visited-policy"); f == nil || f.DefValue != "preserve" {
		t.Errorf("--visited-policy default: %v", f)
	}

	runCmd, _, err := root.Find([]string{"run"})
	if err != nil {
		t.Fatal(err)
	}
	if runCmd.Flags().Lookup("template") == nil {
		t.Error("run is missing --template")
	}
}

func TestOfflineCommandsSkipClient(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"init", "doctor", "extract", "replay", "adjacency"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		if cmd.PersistentPreRun == nil {
			t.Errorf("%s inherits client setup", name)
		}
	}
}

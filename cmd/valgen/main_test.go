// Package main provides tests for the valgen CLI.
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/valgen/internal/cli"
	"github.com/leapstack-labs/valgen/internal/cli/commands"
	"github.com/leapstack-labs/valgen/internal/cli/config"
	"github.com/leapstack-labs/valgen/internal/cli/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := run(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "valgen") {
		t.Errorf("version output should contain 'valgen', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := run(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"convert", "graph", "watch", "init", "version", "completion"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestRootRunsConvert(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	output, err := run(t, "--check", "src/app.ts")
	if code := commands.ExitCode(err); code != commands.ExitNeedsUpdate {
		t.Fatalf("exit code = %d (err %v), want %d\n%s", code, err, commands.ExitNeedsUpdate, output)
	}
	if !strings.Contains(output, "2 files need validators updated.") {
		t.Errorf("output should report stale files, got: %s", output)
	}
}

func TestRootWriteLogsWrittenFiles(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	output, err := run(t, "--write", "--output", "text")
	if err != nil {
		t.Fatalf("convert --write error = %v\n%s", err, output)
	}
	if !strings.Contains(output, "msg=\"wrote file\"") || !strings.Contains(output, "run_id=") {
		t.Errorf("output should log written files with a run id, got: %s", output)
	}
	testutil.AssertNoANSI(t, output)
	if got := testutil.ReadFile(t, dir, "src/types.ts"); !strings.Contains(got, "export const UserType") {
		t.Errorf("types.ts should declare UserType, got: %s", got)
	}
}

func TestConvertSubcommandUsesRootFlags(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	output, err := run(t, "convert", "--check", "--output", "json")
	if code := commands.ExitCode(err); code != commands.ExitNeedsUpdate {
		t.Fatalf("exit code = %d (err %v), want %d", code, err, commands.ExitNeedsUpdate)
	}
	if !strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Errorf("json output expected, got: %s", output)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"valgen.yaml": "namespace: 1abc\n"})
	t.Chdir(dir)

	_, err := run(t, "--check")
	if err == nil {
		t.Fatal("expected an error for an invalid namespace")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("error should mention the configuration, got: %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	output, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error = %v", err)
	}
	if !strings.Contains(output, "valgen") {
		t.Errorf("completion script should mention valgen, got: %s", output)
	}
}

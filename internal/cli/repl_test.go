package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"raDB/internal/config"
	"raDB/internal/engine"
	"raDB/internal/formatter"
	"raDB/internal/runner"
	"raDB/internal/storage/memstore"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	cfg := &config.Config{
		Output: config.OutputConfig{Format: "text"},
		REPL:   config.REPLConfig{Prompt: "radb> "},
	}

	eng := engine.New(memstore.New(), nil)
	require.NoError(t, eng.Start())

	f, err := formatter.New("text", out, formatter.Options{})
	require.NoError(t, err)
	run := runner.New(eng, f, out, out, nil, runner.Options{ContinueOnError: true})

	return NewREPL(cfg, nil, eng, run, out), out
}

func TestDefinitionDetection(t *testing.T) {
	require.True(t, definitionStart.MatchString("Employees (EID, Name) = {"))
	require.True(t, definitionStart.MatchString("R = { A"))
	require.False(t, definitionStart.MatchString("select A = 1 (R)"))
	require.False(t, definitionStart.MatchString("join R, S on R.A = S.B"))

	require.False(t, definitionComplete("R (A) = {\n1\n"))
	require.True(t, definitionComplete("R (A) = {\n1\n}\n"))
}

func TestDefineAndQuery(t *testing.T) {
	r, out := newTestREPL(t)
	ctx := context.Background()

	r.define(ctx, "R (A, B) = {\n1, x\n2, y\n}\n")
	require.Contains(t, out.String(), "Loaded relations: [R]")

	out.Reset()
	require.Equal(t, commandOK, r.processCommand(ctx, "Query: select A > 1 (R)  # comment"))
	require.Contains(t, out.String(), "| 2 | y |")

	out.Reset()
	require.Equal(t, commandError, r.processCommand(ctx, "project C (R)"))
	require.Contains(t, out.String(), "Error executing query 'project C (R)'")
}

func TestBackslashCommands(t *testing.T) {
	r, out := newTestREPL(t)
	ctx := context.Background()

	require.Equal(t, commandOK, r.processCommand(ctx, "\\dt"))
	require.Contains(t, out.String(), "No relations defined.")

	r.define(ctx, "Depts (DID, DName) = { D1, Sales }")

	out.Reset()
	require.Equal(t, commandOK, r.processCommand(ctx, "\\dt"))
	require.Equal(t, "Depts\n", out.String())

	out.Reset()
	require.Equal(t, commandOK, r.processCommand(ctx, "\\d Depts"))
	require.Equal(t, "Relation Depts\n  DID\n  DName\n", out.String())

	require.Equal(t, commandError, r.processCommand(ctx, "\\d Missing"))
	require.Equal(t, commandError, r.processCommand(ctx, "\\bogus"))
	require.Equal(t, commandExit, r.processCommand(ctx, "\\q"))
	require.Equal(t, commandExit, r.processCommand(ctx, "exit"))
}

func TestFormatCommand(t *testing.T) {
	r, out := newTestREPL(t)
	ctx := context.Background()
	r.define(ctx, "R (A) = { 7 }")

	require.Equal(t, commandError, r.processCommand(ctx, "\\format csv"))
	require.Equal(t, commandOK, r.processCommand(ctx, "\\format json"))
	require.Equal(t, "json", r.config.Output.Format)

	out.Reset()
	require.Equal(t, commandOK, r.processCommand(ctx, "R"))
	require.Equal(t, `{"name":"R","attributes":["A"],"rows":[{"A":7}]}`+"\n", out.String())
}

func TestLoadCommand(t *testing.T) {
	r, out := newTestREPL(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "script.txt")
	script := "R (A) = {\n1\n2\n}\nQuery: select A = 2 (R)\nQuery: S\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0644))

	require.Equal(t, commandOK, r.processCommand(ctx, "\\load "+path))
	require.Contains(t, out.String(), path+": 1 relations, 2 queries (1 failed)")

	require.Equal(t, commandError, r.processCommand(ctx, "\\load "+filepath.Join(t.TempDir(), "none.txt")))
}

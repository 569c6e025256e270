// Package cli provides the interactive shell for raDB
package cli

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"raDB/internal/config"
	"raDB/internal/engine"
	"raDB/internal/formatter"
	"raDB/internal/loader"
	"raDB/internal/logger"
	"raDB/internal/runner"
)

// REPL implements the Read-Eval-Print Loop for raDB
type REPL struct {
	config *config.Config
	log    *logger.Logger
	eng    *engine.DBEngine
	run    *runner.Runner
	out    io.Writer
	rl     *readline.Instance
}

// NewREPL creates a new REPL instance. Results and messages are written to out.
func NewREPL(cfg *config.Config, log *logger.Logger, eng *engine.DBEngine, run *runner.Runner, out io.Writer) *REPL {
	if log == nil {
		log = logger.NewNop()
	}
	return &REPL{
		config: cfg,
		log:    log,
		eng:    eng,
		run:    run,
		out:    out,
	}
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	rlConfig := &readline.Config{
		Prompt:          r.config.REPL.Prompt,
		HistoryFile:     r.config.REPL.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    r.newCompleter(),
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.printWelcome()

	var pending strings.Builder
	for {
		if ctx.Err() != nil {
			return nil
		}

		if pending.Len() > 0 {
			rl.SetPrompt("    -> ")
		} else {
			rl.SetPrompt(r.config.REPL.Prompt)
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if pending.Len() > 0 {
				pending.Reset()
				fmt.Fprintln(r.out, "^C")
			}
			continue
		} else if err == io.EOF {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || (pending.Len() == 0 && strings.HasPrefix(line, "#")) {
			continue
		}

		if pending.Len() > 0 || definitionStart.MatchString(line) {
			pending.WriteString(line)
			pending.WriteString("\n")
			if !definitionComplete(pending.String()) {
				continue
			}
			input := pending.String()
			pending.Reset()
			r.define(ctx, input)
			continue
		}

		if r.processCommand(ctx, line) == commandExit {
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		}
	}
}

type commandResult int

const (
	commandOK commandResult = iota
	commandExit
	commandError
)

// definitionStart matches the first line of a relation definition.
var definitionStart = regexp.MustCompile(`^\w+\s*(\([^)]*\))?\s*=\s*\{`)

func definitionComplete(s string) bool {
	return strings.Count(s, "}") >= strings.Count(s, "{")
}

func (r *REPL) define(ctx context.Context, text string) {
	blocks := []loader.Block{{Kind: loader.BlockRelations, Line: 1, Text: text}}
	if _, err := r.run.Run(ctx, blocks); err != nil {
		r.printError(err)
	}
}

func (r *REPL) processCommand(ctx context.Context, input string) commandResult {
	input = strings.TrimSpace(input)
	upperInput := strings.ToUpper(input)

	if strings.HasPrefix(input, "\\") {
		return r.handleBackslashCommand(ctx, input)
	}

	switch upperInput {
	case "EXIT", "QUIT":
		return commandExit
	case "HELP":
		r.printHelp()
		return commandOK
	}

	if len(input) >= 6 && strings.EqualFold(input[:6], "query:") {
		input = input[6:]
	}
	query := loader.StripComment(input)
	if query == "" {
		return commandOK
	}

	if err := r.run.Exec(query); err != nil {
		return commandError
	}
	return commandOK
}

func (r *REPL) handleBackslashCommand(ctx context.Context, input string) commandResult {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return commandOK
	}

	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "\\q", "\\quit", "\\exit":
		return commandExit

	case "\\?", "\\help":
		r.printHelp()
		return commandOK

	case "\\dt", "\\relations":
		return r.listRelations()

	case "\\d":
		if len(parts) < 2 {
			fmt.Fprintln(r.out, "Usage: \\d <relation>")
			return commandError
		}
		return r.describe(parts[1])

	case "\\load":
		if len(parts) < 2 {
			fmt.Fprintln(r.out, "Usage: \\load <file>")
			return commandError
		}
		return r.load(ctx, parts[1:])

	case "\\format":
		if len(parts) < 2 {
			fmt.Fprintf(r.out, "Output format: %s\n", r.config.Output.Format)
			return commandOK
		}
		return r.setFormat(parts[1])

	case "\\clear":
		fmt.Fprint(r.out, "\033[H\033[2J")
		return commandOK

	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", cmd)
		fmt.Fprintln(r.out, "Type \\? for help")
		return commandError
	}
}

func (r *REPL) listRelations() commandResult {
	names, err := r.eng.ListRelations()
	if err != nil {
		r.printError(err)
		return commandError
	}
	if len(names) == 0 {
		fmt.Fprintln(r.out, "No relations defined.")
		return commandOK
	}
	for _, n := range names {
		fmt.Fprintln(r.out, n)
	}
	return commandOK
}

func (r *REPL) describe(name string) commandResult {
	cols, err := r.eng.Schema(name)
	if err != nil {
		r.printError(err)
		return commandError
	}
	fmt.Fprintf(r.out, "Relation %s\n", name)
	for _, c := range cols {
		fmt.Fprintf(r.out, "  %s\n", c.Name)
	}
	return commandOK
}

func (r *REPL) load(ctx context.Context, paths []string) commandResult {
	for _, path := range paths {
		blocks, err := loader.LoadFile(path)
		if err != nil {
			r.printError(err)
			return commandError
		}
		sum, err := r.run.Run(ctx, blocks)
		if err != nil {
			r.printError(err)
			return commandError
		}
		fmt.Fprintf(r.out, "%s: %d relations, %d queries (%d failed)\n",
			path, sum.Relations, sum.Queries, sum.Failed)
	}
	return commandOK
}

func (r *REPL) setFormat(name string) commandResult {
	if !config.ValidOutputFormat(name) {
		fmt.Fprintf(r.out, "Unknown format %q (expected one of %s)\n", name, strings.Join(config.OutputFormats, ", "))
		return commandError
	}
	f, err := formatter.New(name, r.out, formatter.Options{
		Color:    r.config.Output.Color,
		EchoRows: r.config.Output.EchoRows,
	})
	if err != nil {
		r.printError(err)
		return commandError
	}
	r.run.SetFormatter(f)
	r.config.Output.Format = name
	fmt.Fprintf(r.out, "Output format set to %s\n", name)
	return commandOK
}

func (r *REPL) printError(err error) {
	msg := fmt.Sprintf("ERROR: %v", err)
	if r.config.Output.Color {
		msg = color.RedString("%s", msg)
	}
	fmt.Fprintln(r.out, msg)
}

func (r *REPL) printWelcome() {
	fmt.Fprintln(r.out, "raDB relational algebra shell")
	fmt.Fprintln(r.out, "Type \\? for help, \\q to quit")
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, `
raDB Commands
=============

Queries:
  select <cond> (<expr>)               Rows of expr matching cond
  project A, B (<expr>)                Keep attributes A and B
  join R, S [on <cond>]                Natural join, or product filtered by cond
  union R, S                           Rows in R or S
  intersection R, S                    Rows in both R and S
  difference R, S                      Rows in R but not in S
  R                                    The stored relation R

Definitions:
  Name (A, B) = {                      Define or replace a relation
    1, 'x'
  }

Backslash Commands:
  \dt, \relations                      List all relations
  \d <relation>                        Describe a relation
  \load <file>...                      Run a script or YAML file
  \format [text|markdown|json]         Show or set the output format
  \clear                               Clear screen
  \?, \help                            Show this help
  \q, \quit                            Exit`)
}

// newCompleter creates an auto-completer for the REPL
func (r *REPL) newCompleter() *readline.PrefixCompleter {
	relations := func(string) []string {
		names, _ := r.eng.ListRelations()
		return names
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("select"),
		readline.PcItem("project"),
		readline.PcItem("join", readline.PcItemDynamic(relations)),
		readline.PcItem("union", readline.PcItemDynamic(relations)),
		readline.PcItem("intersection", readline.PcItemDynamic(relations)),
		readline.PcItem("difference", readline.PcItemDynamic(relations)),
		readline.PcItem("\\dt"),
		readline.PcItem("\\d", readline.PcItemDynamic(relations)),
		readline.PcItem("\\load"),
		readline.PcItem("\\format",
			readline.PcItem("text"),
			readline.PcItem("markdown"),
			readline.PcItem("json"),
		),
		readline.PcItem("\\clear"),
		readline.PcItem("\\help"),
		readline.PcItem("\\q"),
	)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"raDB/internal/cli"
	"raDB/internal/config"
	"raDB/internal/engine"
	"raDB/internal/formatter"
	"raDB/internal/loader"
	"raDB/internal/logger"
	"raDB/internal/runner"
	"raDB/internal/source"
	"raDB/internal/storage/memstore"
)

var version = "0.1.0"

var (
	configPath   string
	outputFormat string
	workers      int

	dbURL      string
	mysqlURL   string
	sqlitePath string
	tables     string
	schemaName string
	queries    []string
	startREPL  bool
)

var rootCmd = &cobra.Command{
	Use:   "radb",
	Short: "Evaluate relational algebra queries",
	Long: `raDB loads relations from scripts, YAML files or SQL databases and evaluates
relational algebra queries (select, project, join, union, intersection,
difference) against them.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run <file>...",
	Short: "Run relation/query scripts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScripts,
}

var replCmd = &cobra.Command{
	Use:   "repl [file]...",
	Short: "Start the interactive shell, optionally preloading scripts",
	RunE:  runREPL,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tables from a SQL database as relations",
	RunE:  runImport,
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "radb %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: radb.yaml in ., $HOME/.radb, /etc/radb)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "Output format: text, markdown or json")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Queries of one batch evaluated in parallel")

	importCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	importCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	importCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	importCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	importCmd.Flags().StringVarP(&schemaName, "schema", "s", "public", "Database schema name (PostgreSQL)")
	importCmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "Query to evaluate after the import (repeatable)")
	importCmd.Flags().BoolVar(&startREPL, "repl", false, "Start the interactive shell after the import")

	rootCmd.AddCommand(runCmd, replCmd, importCmd, initCmd, versionCmd)
}

// app is the wiring shared by every command.
type app struct {
	cfg *config.Config
	log *logger.Logger
	eng *engine.DBEngine
	run *runner.Runner
	out io.Writer
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if workers > 0 {
		cfg.Exec.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if !cfg.Output.Color {
		color.NoColor = true
	}

	eng := engine.New(memstore.New(), log.Named("engine"))
	if err := eng.Start(); err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	f, err := formatter.New(cfg.Output.Format, out, formatter.Options{
		Color:    cfg.Output.Color,
		EchoRows: cfg.Output.EchoRows,
	})
	if err != nil {
		return nil, err
	}

	run := runner.New(eng, f, out, cmd.ErrOrStderr(), log.Named("runner"), runner.Options{
		Workers:         cfg.Exec.Workers,
		ContinueOnError: cfg.Exec.ContinueOnError,
		Color:           cfg.Output.Color,
	})

	return &app{cfg: cfg, log: log, eng: eng, run: run, out: out}, nil
}

func (a *app) runFiles(ctx context.Context, paths []string) (runner.Summary, error) {
	var total runner.Summary
	for _, path := range paths {
		blocks, err := loader.LoadFile(path)
		if err != nil {
			return total, err
		}
		a.log.Debug("script loaded", "path", path, "blocks", len(blocks))

		sum, err := a.run.Run(ctx, blocks)
		total.Add(sum)
		if err != nil {
			return total, fmt.Errorf("%s: %w", path, err)
		}
	}
	return total, nil
}

func runScripts(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	_, err = a.runFiles(cmd.Context(), args)
	return err
}

func runREPL(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	if _, err := a.runFiles(cmd.Context(), args); err != nil {
		return err
	}
	return cli.NewREPL(a.cfg, a.log.Named("repl"), a.eng, a.run, a.out).Run(cmd.Context())
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	kind, dsn, err := importSource()
	if err != nil {
		return err
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	imp, closeFn, err := source.Open(ctx, kind, dsn, schemaName, a.log.Named("source"))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", kind, err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close %s connection: %v\n", kind, err)
		}
	}()

	rels, err := imp.Import(ctx, parseTableList(tables))
	if err != nil {
		return fmt.Errorf("failed to import tables: %w", err)
	}

	var names []string
	for _, rel := range rels {
		if err := a.eng.Define(rel); err != nil {
			return err
		}
		names = append(names, rel.Name)
	}
	fmt.Fprintf(a.out, "Imported relations: %v\n", names)

	if len(queries) > 0 {
		blocks := make([]loader.Block, len(queries))
		for i, q := range queries {
			blocks[i] = loader.Block{Kind: loader.BlockQuery, Query: q}
		}
		if _, err := a.run.Run(ctx, blocks); err != nil {
			return err
		}
	}

	if startREPL {
		return cli.NewREPL(a.cfg, a.log.Named("repl"), a.eng, a.run, a.out).Run(ctx)
	}
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "radb.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := config.CreateDefaultConfig(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}

func importSource() (source.Kind, string, error) {
	var (
		count int
		kind  source.Kind
		dsn   string
	)
	if dbURL != "" {
		count++
		kind, dsn = source.KindPostgres, dbURL
	}
	if mysqlURL != "" {
		count++
		kind, dsn = source.KindMySQL, mysqlURL
	}
	if sqlitePath != "" {
		count++
		kind, dsn = source.KindSQLite, sqlitePath
	}
	if count == 0 {
		return "", "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified")
	}
	if count > 1 {
		return "", "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}
	return kind, dsn, nil
}

func parseTableList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

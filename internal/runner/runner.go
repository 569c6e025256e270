// Package runner drives scripts of relation definitions and queries through
// the engine and prints every result.
package runner

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"raDB/internal/engine"
	"raDB/internal/formatter"
	"raDB/internal/loader"
	"raDB/internal/logger"
	"raDB/internal/ra"
	"raDB/internal/storage"
)

// Options control batch evaluation.
type Options struct {
	Workers         int  // queries of one batch evaluated concurrently
	ContinueOnError bool // keep going after a failed query
	Color           bool
}

// Summary counts what a run did.
type Summary struct {
	Relations int // relations defined
	Queries   int // queries evaluated
	Failed    int // queries that returned an error
}

// Add accumulates another run's counts.
func (s *Summary) Add(o Summary) {
	s.Relations += o.Relations
	s.Queries += o.Queries
	s.Failed += o.Failed
}

// Runner applies script blocks to an engine.
type Runner struct {
	eng    *engine.DBEngine
	format formatter.Formatter
	out    io.Writer
	errOut io.Writer
	log    *logger.Logger
	opts   Options
}

// New creates a runner. Results go to out through format; per-query errors
// and parse warnings go to errOut.
func New(eng *engine.DBEngine, format formatter.Formatter, out, errOut io.Writer, log *logger.Logger, opts Options) *Runner {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{
		eng:    eng,
		format: format,
		out:    out,
		errOut: errOut,
		log:    log,
		opts:   opts,
	}
}

// SetFormatter replaces the result formatter.
func (r *Runner) SetFormatter(f formatter.Formatter) {
	r.format = f
}

// Run processes blocks in order. Relation blocks define relations; each run
// of consecutive query blocks is evaluated against one snapshot taken after
// the preceding definitions. A failing query never affects the others or
// the store. Run stops early only when ctx is done, or on the first failed
// query when ContinueOnError is off.
func (r *Runner) Run(ctx context.Context, blocks []loader.Block) (Summary, error) {
	var sum Summary

	for i := 0; i < len(blocks); {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		if blocks[i].Kind == loader.BlockRelations {
			sum.Relations += r.define(blocks[i])
			i++
			continue
		}

		j := i
		for j < len(blocks) && blocks[j].Kind == loader.BlockQuery {
			j++
		}
		batch, err := r.runBatch(ctx, blocks[i:j])
		sum.Add(batch)
		if err != nil {
			return sum, err
		}
		i = j
	}

	r.log.Info("run finished", "relations", sum.Relations, "queries", sum.Queries, "failed", sum.Failed)
	return sum, nil
}

// define loads the relations of one block and returns how many were stored.
// Definitions that fail to parse are reported; the valid ones in the same
// block are still stored.
func (r *Runner) define(b loader.Block) int {
	rels, err := b.Relations()
	if err != nil {
		r.log.Warn("could not parse relations", "line", b.Line, "error", err)
		fmt.Fprintf(r.errOut, "%s Could not parse relations at line %d: %v\n", r.warnLabel(), b.Line, err)
	}

	var names []string
	for _, rel := range rels {
		if err := r.eng.Define(rel); err != nil {
			r.log.Warn("could not define relation", "relation", rel.Name, "line", b.Line, "error", err)
			fmt.Fprintf(r.errOut, "%s %v\n", r.warnLabel(), err)
			continue
		}
		names = append(names, rel.Name)
	}
	if len(names) > 0 {
		r.log.Info("loaded relations", "relations", names, "line", b.Line)
		fmt.Fprintf(r.out, "Loaded relations: %v\n", names)
	}
	return len(names)
}

type result struct {
	rel *ra.Relation
	err error
}

func (r *Runner) runBatch(ctx context.Context, batch []loader.Block) (Summary, error) {
	var sum Summary

	snap, err := r.eng.Snapshot()
	if err != nil {
		return sum, err
	}

	results := r.evaluate(ctx, snap, batch)

	for k, b := range batch {
		res := results[k]
		sum.Queries++

		fmt.Fprintf(r.out, "\nExecuting: %s\n", b.Query)
		if res.err != nil {
			sum.Failed++
			r.log.Error("query failed", "query", b.Query, "line", b.Line, "error", res.err)
			r.printError(b.Query, res.err)
			if !r.opts.ContinueOnError {
				return sum, fmt.Errorf("query %q at line %d: %w", b.Query, b.Line, res.err)
			}
			continue
		}

		if err := r.format.Format(res.rel); err != nil {
			return sum, fmt.Errorf("write result: %w", err)
		}
	}
	return sum, nil
}

// evaluate runs the batch with up to Workers goroutines. Results keep the
// input order.
func (r *Runner) evaluate(ctx context.Context, snap storage.Snapshot, batch []loader.Block) []result {
	results := make([]result, len(batch))

	workers := r.opts.Workers
	if workers > len(batch) {
		workers = len(batch)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				results[k] = r.evaluateOne(ctx, snap, batch[k].Query)
			}
		}()
	}

	for k := range batch {
		jobs <- k
	}
	close(jobs)
	wg.Wait()

	return results
}

func (r *Runner) evaluateOne(ctx context.Context, snap storage.Snapshot, query string) result {
	if err := ctx.Err(); err != nil {
		return result{err: err}
	}
	expr, err := ra.Parse(query)
	if err != nil {
		return result{err: err}
	}
	r.log.Debug("evaluating query", "query", query, "expr", expr.String())
	rel, err := r.eng.EvaluateIn(snap, expr)
	return result{rel: rel, err: err}
}

// Exec parses and evaluates a single query against the current store and
// prints the result. It is used by the interactive shell.
func (r *Runner) Exec(query string) error {
	rel, err := r.eng.Query(query)
	if err != nil {
		r.printError(query, err)
		return err
	}
	return r.format.Format(rel)
}

func (r *Runner) printError(query string, err error) {
	msg := fmt.Sprintf("Error executing query '%s': %v", query, err)
	if r.opts.Color {
		msg = color.RedString("%s", msg)
	}
	fmt.Fprintln(r.errOut, msg)
}

func (r *Runner) warnLabel() string {
	if r.opts.Color {
		return color.YellowString("Warning:")
	}
	return "Warning:"
}

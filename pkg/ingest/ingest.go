package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trigedasleng/trigdict/pkg/sqldump"
)

// Tokenizer extracts the rows of several tables from one dump concurrently.
// Tables are independent, so each is parsed by its own job on a WorkerPool.
type Tokenizer struct {
	// Logger receives one record per table. nil means no logging.
	Logger *slog.Logger
	// OnTable is called as each table finishes, from a worker goroutine.
	OnTable func(res sqldump.Result)

	Workers int

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) Pool
}

// NewTokenizer creates a Tokenizer with the given worker count.
func NewTokenizer(workers int) *Tokenizer {
	if workers <= 0 {
		workers = 4
	}
	return &Tokenizer{Workers: workers}
}

// ParseTables tokenizes every named table of text. Results are returned in the
// order the tables were given.
func (tk *Tokenizer) ParseTables(ctx context.Context, text string, tables ...string) ([]sqldump.Result, error) {
	if len(tables) == 0 {
		return nil, nil
	}

	var wp Pool
	if tk.PoolFactory != nil {
		wp = tk.PoolFactory(tk.Workers, len(tables))
	} else {
		wp = NewWorkerPool(tk.Workers, len(tables))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wp.Start(ctx)

	// Each job owns one slot, so no locking is needed; Close orders the writes
	// before the reads below.
	results := make([]sqldump.Result, len(tables))
	done := make([]bool, len(tables))

	for i, table := range tables {
		i, table := i, table
		job := func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := sqldump.Parse(text, table)
			results[i] = res
			done[i] = true
			if tk.Logger != nil {
				tk.Logger.Debug("table tokenized",
					"table", res.Table,
					"statements", res.Statements,
					"rows", len(res.Rows),
					"warnings", len(res.Warnings))
			}
			if tk.OnTable != nil {
				tk.OnTable(res)
			}
			return nil
		}
		if err := wp.SubmitCtx(ctx, job); err != nil {
			cancel()
			wp.Close()
			return nil, fmt.Errorf("submit %s: %w", table, err)
		}
	}

	wp.Close()

	for i, ok := range done {
		if !ok {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("table %s was not tokenized", tables[i])
		}
	}
	return results, nil
}

package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/trigedasleng/trigdict/pkg/db"
	"github.com/trigedasleng/trigdict/pkg/ingest"
	"github.com/trigedasleng/trigdict/pkg/logging"
	"github.com/trigedasleng/trigdict/pkg/sqldump"
)

// Options tunes a migration run.
type Options struct {
	BatchSize       int
	Workers         int
	DedupeSentences bool
	Seasons         int
	Speakers        []string
	Logger          *slog.Logger
	// OnProgress is called from the committer for every row once its batch
	// has committed.
	OnProgress func(table string, done, total int)
}

// Migrator moves a legacy dump into the store.
type Migrator struct {
	DB   *sql.DB
	opts Options
	log  *slog.Logger
}

// New creates a Migrator. Zero options fall back to defaults.
func New(conn *sql.DB, opts Options) *Migrator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 200
	}
	if opts.Workers <= 0 {
		opts.Workers = len(Tables)
	}
	if opts.Seasons <= 0 {
		opts.Seasons = 7
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Migrator{DB: conn, opts: opts, log: logger}
}

// tokenize splits the legacy tables out of dump and logs parse warnings as
// each table finishes.
func (m *Migrator) tokenize(ctx context.Context, dump string, tables ...string) (map[string]sqldump.Result, error) {
	tk := ingest.NewTokenizer(m.opts.Workers)
	tk.Logger = m.log
	tk.OnTable = func(res sqldump.Result) {
		for _, w := range res.Warnings {
			m.log.Warn("parse warning", "table", w.Table, "statement", w.Statement, "message", w.Message)
		}
	}
	results, err := tk.ParseTables(ctx, dump, tables...)
	if err != nil {
		return nil, fmt.Errorf("tokenize dump: %w", err)
	}
	out := make(map[string]sqldump.Result, len(results))
	for _, res := range results {
		out[res.Table] = res
	}
	return out, nil
}

type step struct {
	table   string
	rows    []sqldump.Row
	resolve func(db.DBExecutor, sqldump.Row) (outcome, error)
	sum     *Summary
}

// pendingRow is one row outcome waiting for its batch to commit.
type pendingRow struct {
	st    *step
	index int
	out   outcome
}

// apply resolves every row of every step, in order, through one BatchWriter.
// The writer commits rows in submission order, so a row sees every lookup the
// rows before it recorded. The first failure aborts the remaining batches.
// Summaries and progress only count rows whose batch committed.
func (m *Migrator) apply(ctx context.Context, steps []step) error {
	bw := ingest.NewBatchWriter(m.DB, m.opts.BatchSize)

	// pending is only touched by the committer goroutine.
	var pending []pendingRow
	bw.OnCommit = func(int) {
		for _, r := range pending {
			r.st.sum.record(r.out)
			if m.opts.OnProgress != nil {
				m.opts.OnProgress(r.st.table, r.index+1, len(r.st.rows))
			}
		}
		pending = pending[:0]
	}
	bw.OnError = func(err error) {
		m.log.Error("batch rolled back", "error", err, "uncommitted_rows", len(pending))
	}

	var submitErr error
Loop:
	for i := range steps {
		st := &steps[i]
		for j, row := range st.rows {
			if err := ctx.Err(); err != nil {
				submitErr = err
				break Loop
			}
			j, row := j, row
			err := bw.Submit(func(_ context.Context, tx *sql.Tx) error {
				o, err := st.resolve(tx, row)
				if err != nil {
					return fmt.Errorf("%s row %d: %w", st.table, j+1, err)
				}
				pending = append(pending, pendingRow{st: st, index: j, out: o})
				return nil
			})
			if err != nil {
				submitErr = err
				break Loop
			}
		}
	}

	closeErr := bw.Close()
	if closeErr != nil {
		if skipped := bw.Skipped(); skipped > 0 {
			m.log.Error("migration aborted", "error", closeErr, "discarded_rows", skipped)
		}
		return closeErr
	}
	return submitErr
}

// Run seeds the fixed entities, tokenizes the dump and resolves sources,
// words and translations in that order. Summaries are returned even when the
// run fails part way.
func (m *Migrator) Run(ctx context.Context, dump string) ([]Summary, error) {
	start := time.Now()
	mc := NewContext()
	if err := Seed(m.DB, mc, m.opts.Seasons, m.opts.Speakers); err != nil {
		return nil, err
	}

	parsed, err := m.tokenize(ctx, dump, Tables...)
	if err != nil {
		return nil, err
	}

	r := NewResolver(mc, m.log)
	r.DedupeSentences = m.opts.DedupeSentences

	sums := make([]Summary, len(Tables))
	steps := []step{
		{table: SourcesTable, resolve: r.Source},
		{table: WordsTable, resolve: r.Word},
		{table: TranslationsTable, resolve: r.Translation},
	}
	for i := range steps {
		res := parsed[steps[i].table]
		steps[i].rows = res.Rows
		sums[i] = Summary{Table: steps[i].table, Warnings: len(res.Warnings)}
		steps[i].sum = &sums[i]
	}

	err = m.apply(ctx, steps)
	for _, s := range sums {
		m.log.Info("table migrated",
			"table", s.Table,
			"processed", s.Processed,
			"added", s.Added,
			"skipped", s.Skipped,
			"linked", s.Linked,
			"warnings", s.Warnings)
	}
	if err != nil {
		return sums, err
	}
	m.log.Info("migration finished", "duration", time.Since(start).Round(time.Millisecond))
	return sums, nil
}

// FixOther adds the sentences of dict_translations rows whose episode is
// "other" that are not in the store yet. It creates no episode links and
// resolves sources by url without creating any. The Trigedasleng dictionary
// must already exist.
func (m *Migrator) FixOther(ctx context.Context, dump string) (Summary, error) {
	mc := NewContext()
	dictID, err := db.FindDictionary(m.DB, Trigedasleng)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %s dictionary: %w", ErrSeed, Trigedasleng, err)
	}
	mc.Dictionaries[Trigedasleng] = dictID

	parsed, err := m.tokenize(ctx, dump, SourcesTable, TranslationsTable)
	if err != nil {
		return Summary{}, err
	}

	r := NewResolver(mc, m.log)
	for _, row := range parsed[SourcesTable].Rows {
		if err := r.LookupSource(m.DB, row); err != nil {
			return Summary{}, err
		}
	}

	res := parsed[TranslationsTable]
	sum := Summary{Table: TranslationsTable, Warnings: len(res.Warnings)}
	err = m.apply(ctx, []step{{table: TranslationsTable, rows: res.Rows, resolve: r.OtherTranslation, sum: &sum}})
	m.log.Info("other sentences fixed", "added", sum.Added, "skipped", sum.Skipped)
	return sum, err
}

package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// WriteFunc is a callback that performs database writes inside a transaction.
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// BatchWriter buffers write operations and commits them in submission order,
// in batches, each inside one transaction. A single committer goroutine applies
// every batch. After the first failed batch the writer aborts: later batches are
// discarded and Submit returns the recorded error.
type BatchWriter struct {
	mu     sync.Mutex
	buf    []WriteFunc
	cap    int
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	commitCh chan []WriteFunc
	db       *sql.DB
	// OnError is called once, with the first error recorded.
	OnError func(error)
	// OnCommit is called from the committer after each batch commits, with
	// the number of writes it held.
	OnCommit func(n int)

	// firstErr stores the first asynchronous error seen by the writer. Protected by errMu.
	errMu    sync.Mutex
	firstErr error
	skipped  int
}

// NewBatchWriter creates a BatchWriter on db that commits every bufferSize
// writes and on Close.
func NewBatchWriter(db *sql.DB, bufferSize int) *BatchWriter {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	ctx, cancel := context.WithCancel(context.Background())
	bw := &BatchWriter{
		buf:      make([]WriteFunc, 0, bufferSize),
		cap:      bufferSize,
		ctx:      ctx,
		cancel:   cancel,
		commitCh: make(chan []WriteFunc, 2),
		db:       db,
	}

	bw.wg.Add(1)
	go bw.committer()
	return bw
}

// Submit enqueues a write function. Once a batch has failed, Submit returns that error.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	if err := bw.Err(); err != nil {
		return err
	}
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.buf = append(bw.buf, w)
	if len(bw.buf) >= bw.cap {
		bw.flushLocked()
	}
	return nil
}

// Err returns the first error recorded by the committer, if any.
func (bw *BatchWriter) Err() error {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.firstErr
}

// Skipped reports how many writes were discarded after the writer aborted.
func (bw *BatchWriter) Skipped() int {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.skipped
}

// flushLocked assumes bw.mu is held. Blocking here while the committer is
// busy is the backpressure on Submit.
func (bw *BatchWriter) flushLocked() {
	if len(bw.buf) == 0 {
		return
	}
	batch := bw.buf
	bw.buf = make([]WriteFunc, 0, bw.cap)

	select {
	case bw.commitCh <- batch:
	case <-bw.ctx.Done():
		bw.record(fmt.Errorf("batch writer: dropping batch of %d items due to context cancellation", len(batch)))
	}
}

func (bw *BatchWriter) record(err error) {
	bw.errMu.Lock()
	first := bw.firstErr == nil
	if first {
		bw.firstErr = err
	}
	bw.errMu.Unlock()
	if first && bw.OnError != nil {
		bw.OnError(err)
	}
}

func (bw *BatchWriter) committer() {
	defer bw.wg.Done()
	for batch := range bw.commitCh {
		if bw.Err() != nil {
			bw.errMu.Lock()
			bw.skipped += len(batch)
			bw.errMu.Unlock()
			continue
		}
		if err := bw.executeBatch(batch); err != nil {
			bw.record(err)
			continue
		}
		if bw.OnCommit != nil {
			bw.OnCommit(len(batch))
		}
	}
}

func (bw *BatchWriter) executeBatch(batch []WriteFunc) error {
	// Without a DB (e.g. testing), just run callbacks with nil tx.
	if bw.db == nil {
		for _, w := range batch {
			if err := w(bw.ctx, nil); err != nil {
				return err
			}
		}
		return nil
	}

	// Background context: flushing must survive Close cancelling bw.ctx.
	ctx := context.Background()

	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, w := range batch {
		if err := w(ctx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch (%d items): %w", len(batch), err)
	}
	return nil
}

// Close stops accepting submissions, waits for pending writes to complete and
// returns the first error recorded.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	bw.flushLocked()
	bw.mu.Unlock()

	bw.cancel()
	close(bw.commitCh) // Stop committer loop
	bw.wg.Wait()

	return bw.Err()
}

// ErrBatchWriterClosed is returned by Submit and Close after Close.
var ErrBatchWriterClosed = &BatchWriterError{"batch writer closed"}

// BatchWriterError provides a simple typed error for batch writer operations.
type BatchWriterError struct{ msg string }

func (e *BatchWriterError) Error() string { return e.msg }

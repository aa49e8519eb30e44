package database

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	apperrors "kaban/internal/errors"
	"kaban/internal/logger"
)

// ErrConflict reports that a conditional write matched no rows because a
// concurrent transaction changed the row first. The runner retries it.
var ErrConflict = errors.New("database: concurrent write conflict")

// PostgreSQL SQLSTATEs that mean "run the whole transaction again".
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// TxOptions bounds how long and how often a transaction body is attempted.
type TxOptions struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	BaseDelay      time.Duration
}

// DefaultTxOptions returns 5 attempts of at most 10s each.
func DefaultTxOptions() TxOptions {
	return TxOptions{
		MaxAttempts:    5,
		AttemptTimeout: 10 * time.Second,
		BaseDelay:      20 * time.Millisecond,
	}
}

// TxRunner executes read-modify-write transaction bodies atomically,
// re-running the whole body when the store reports a write conflict.
type TxRunner struct {
	db   *gorm.DB
	opts TxOptions
}

// NewTxRunner creates a TxRunner. Zero option values take their defaults.
func NewTxRunner(db *gorm.DB, opts TxOptions) *TxRunner {
	def := DefaultTxOptions()
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = def.AttemptTimeout
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = def.BaseDelay
	}
	return &TxRunner{db: db, opts: opts}
}

// DB returns the non-transactional handle, for reads outside a transaction.
func (r *TxRunner) DB() *gorm.DB {
	return r.db
}

// Run executes fn inside a single database transaction. Each attempt gets its
// own deadline. Conflicts are retried with jittered exponential backoff; once
// attempts are exhausted the caller gets ErrConcurrencyConflict, which is
// safe to retry. If ctx ends first the caller gets ErrRequestAborted wrapping
// ctx.Err(). Any other error aborts immediately and is returned as is.
// Every failed attempt is rolled back, so a returned error means no writes.
func (r *TxRunner) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, r.delay(attempt-1)); err != nil {
				return apperrors.Wrap(apperrors.ErrRequestAborted, err)
			}
		}

		err := r.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return apperrors.Wrap(apperrors.ErrRequestAborted, ctx.Err())
		}
		if !IsRetryable(err) {
			return err
		}

		lastErr = err
		logger.Get().Debugw("transaction conflict, retrying",
			"attempt", attempt,
			"max_attempts", r.opts.MaxAttempts,
			"error", err,
		)
	}

	logger.Get().Warnw("transaction abandoned after repeated conflicts",
		"attempts", r.opts.MaxAttempts,
		"error", lastErr,
	)
	return apperrors.Wrap(apperrors.ErrConcurrencyConflict, lastErr)
}

func (r *TxRunner) attempt(ctx context.Context, fn func(tx *gorm.DB) error) error {
	attemptCtx, cancel := context.WithTimeout(ctx, r.opts.AttemptTimeout)
	defer cancel()
	return r.db.WithContext(attemptCtx).Transaction(fn)
}

// delay is full-jitter exponential backoff: a random duration in
// [0, BaseDelay * 2^(retry-1)), capped at one attempt timeout.
func (r *TxRunner) delay(retry int) time.Duration {
	ceiling := r.opts.BaseDelay << (retry - 1)
	if ceiling <= 0 || ceiling > r.opts.AttemptTimeout {
		ceiling = r.opts.AttemptTimeout
	}
	return time.Duration(rand.Int63n(int64(ceiling)))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsRetryable reports whether err means the transaction lost a race and
// re-running it from the start may succeed.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	// An attempt deadline expiring is contention from the caller's view; Run
	// checks the caller's own context before asking.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Retryable {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}

package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
)

type txContextKey struct{}

type txState struct {
	tx        *sqlx.Tx
	isolation sql.IsolationLevel
}

var (
	ErrAlreadyInTx = errors.New("already executing in existing db tx")
	ErrNotInTx     = errors.New("not executing in existing db tx")

	errIsolationTooLow = errors.New("current tx doesn't meet isolation level requirements")
)

// ExecuteRetryable reruns fn while it fails with a serialization failure.
func ExecuteRetryable(fn func() error) error {
	for {
		err := fn()
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.SerializationFailure {
			return err
		}
	}
}

// ExecuteTxWithinCtx opens a transaction, makes it visible to stores via the
// context passed to fn, and commits when fn succeeds. Any error rolls the
// transaction back.
func ExecuteTxWithinCtx(ctx context.Context, db *sqlx.DB, isolation sql.IsolationLevel, fn func(context.Context) error) error {
	if ctx.Value(txContextKey{}) != nil {
		return ErrAlreadyInTx
	}

	isolation = normalizeIsolation(isolation)

	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: isolation})
	if err != nil {
		return err
	}

	ctx = context.WithValue(ctx, txContextKey{}, &txState{tx: tx, isolation: isolation})
	if err := fn(ctx); err != nil {
		return rollback(tx, err)
	}
	return tx.Commit()
}

// ExecuteInTx runs fn against the transaction carried by ctx, or a new one
// scoped to this call when there is none. Only the owner of the transaction
// commits or rolls it back.
func ExecuteInTx(ctx context.Context, db *sqlx.DB, isolation sql.IsolationLevel, fn func(tx *sqlx.Tx) error) error {
	isolation = normalizeIsolation(isolation)

	existing, err := txFromCtx(ctx, isolation)
	switch err {
	case nil:
		return fn(existing)
	case ErrNotInTx:
	default:
		return err
	}

	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: isolation})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}
	return tx.Commit()
}

func txFromCtx(ctx context.Context, desired sql.IsolationLevel) (*sqlx.Tx, error) {
	state, ok := ctx.Value(txContextKey{}).(*txState)
	if !ok || state == nil {
		return nil, ErrNotInTx
	}
	if state.isolation < desired {
		return nil, errIsolationTooLow
	}
	return state.tx, nil
}

func normalizeIsolation(isolation sql.IsolationLevel) sql.IsolationLevel {
	if isolation == sql.LevelDefault {
		return sql.LevelReadCommitted
	}
	return isolation
}

func rollback(tx *sqlx.Tx, cause error) error {
	// Rollback is always required so sql.DB releases the connection.
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w (cause: %v)", err, cause)
	}
	return cause
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/balance"
	pgutil "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
)

const (
	tableName = "boltick__system_lamportbalance"

	allColumns = `id, account, lamports, version, created_at, last_updated_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Account  string `db:"account"`
	Lamports uint64 `db:"lamports"`

	Version uint64 `db:"version"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *balance.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Account:       obj.Account,
		Lamports:      obj.Lamports,
		Version:       obj.Version,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *balance.Record {
	return &balance.Record{
		Id:            uint64(obj.Id.Int64),
		Account:       obj.Account,
		Lamports:      obj.Lamports,
		Version:       obj.Version,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(account, lamports, version, created_at, last_updated_at)
			VALUES ($1, $2, 1, $3, $3)
			RETURNING ` + allColumns

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Account,
			m.Lamports,
			m.CreatedAt.UTC(),
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, balance.ErrExists)
	})
}

func (m *model) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET lamports = $2, version = version + 1, last_updated_at = $3
			WHERE account = $1 AND version = $4
			RETURNING ` + allColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Account,
			m.Lamports,
			time.Now().UTC(),
			m.Version,
		).StructScan(m)
		if pgutil.IsNoRows(err) {
			return dbCheckExists(ctx, tx, m.Account)
		}
		return err
	})
}

func dbCheckExists(ctx context.Context, tx *sqlx.Tx, account string) error {
	var count int
	query := `SELECT COUNT(*) FROM ` + tableName + ` WHERE account = $1`
	if err := tx.GetContext(ctx, &count, query, account); err != nil {
		return err
	}
	if count == 0 {
		return balance.ErrNotFound
	}
	return balance.ErrStaleVersion
}

func dbGet(ctx context.Context, db *sqlx.DB, account string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE account = $1
		LIMIT 1`

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, res, query, account)
	})
	if err != nil {
		return nil, pgutil.CheckNoRows(err, balance.ErrNotFound)
	}
	return res, nil
}

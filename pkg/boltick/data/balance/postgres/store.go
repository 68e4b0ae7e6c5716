package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/balance"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) balance.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements balance.Store.Put
func (s *store) Put(ctx context.Context, record *balance.Record) error {
	m, err := toModel(record)
	if err != nil {
		return err
	}

	if err := m.dbPut(ctx, s.db); err != nil {
		return err
	}

	fromModel(m).CopyTo(record)
	return nil
}

// Update implements balance.Store.Update
func (s *store) Update(ctx context.Context, record *balance.Record) error {
	m, err := toModel(record)
	if err != nil {
		return err
	}

	if err := m.dbUpdate(ctx, s.db); err != nil {
		return err
	}

	fromModel(m).CopyTo(record)
	return nil
}

// Get implements balance.Store.Get
func (s *store) Get(ctx context.Context, account string) (*balance.Record, error) {
	m, err := dbGet(ctx, s.db, account)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) metadata.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements metadata.Store.Put
func (s *store) Put(ctx context.Context, record *metadata.Record) error {
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

// Update implements metadata.Store.Update
func (s *store) Update(ctx context.Context, record *metadata.Record) error {
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

// GetByMint implements metadata.Store.GetByMint
func (s *store) GetByMint(ctx context.Context, mint string) (*metadata.Record, error) {
	m, err := dbGetByMint(ctx, s.db, mint)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) ticketconfig.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements ticketconfig.Store.Put
func (s *store) Put(ctx context.Context, record *ticketconfig.Record) error {
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

// Update implements ticketconfig.Store.Update
func (s *store) Update(ctx context.Context, record *ticketconfig.Record) error {
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

// Get implements ticketconfig.Store.Get
func (s *store) Get(ctx context.Context, address string) (*ticketconfig.Record, error) {
	m, err := dbGet(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) digitalaccess.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements digitalaccess.Store.Put
func (s *store) Put(ctx context.Context, record *digitalaccess.Record) error {
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

// Update implements digitalaccess.Store.Update
func (s *store) Update(ctx context.Context, record *digitalaccess.Record) error {
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

// Get implements digitalaccess.Store.Get
func (s *store) Get(ctx context.Context, address string) (*digitalaccess.Record, error) {
	m, err := dbGet(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

// GetAllByEvent implements digitalaccess.Store.GetAllByEvent
func (s *store) GetAllByEvent(ctx context.Context, event string) ([]*digitalaccess.Record, error) {
	models, err := dbGetAllByEvent(ctx, s.db, event)
	if err != nil {
		return nil, err
	}

	res := make([]*digitalaccess.Record, len(models))
	for i, m := range models {
		res[i] = fromModel(m)
	}
	return res, nil
}

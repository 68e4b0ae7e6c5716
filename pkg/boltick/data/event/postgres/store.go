package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) event.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements event.Store.Put
func (s *store) Put(ctx context.Context, record *event.Record) error {
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

// Update implements event.Store.Update
func (s *store) Update(ctx context.Context, record *event.Record) error {
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

// Get implements event.Store.Get
func (s *store) Get(ctx context.Context, address string) (*event.Record, error) {
	m, err := dbGet(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

// GetByEventId implements event.Store.GetByEventId
func (s *store) GetByEventId(ctx context.Context, eventId uint64) (*event.Record, error) {
	m, err := dbGetByEventId(ctx, s.db, eventId)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

// GetAllByCreator implements event.Store.GetAllByCreator
func (s *store) GetAllByCreator(ctx context.Context, creator string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*event.Record, error) {
	models, err := dbGetAllByCreator(ctx, s.db, creator, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*event.Record, len(models))
	for i, m := range models {
		res[i] = fromModel(m)
	}
	return res, nil
}

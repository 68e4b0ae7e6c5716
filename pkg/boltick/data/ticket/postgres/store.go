package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticket"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) ticket.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements ticket.Store.Put
func (s *store) Put(ctx context.Context, record *ticket.Record) error {
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

// Get implements ticket.Store.Get
func (s *store) Get(ctx context.Context, event string, nftId uint64) (*ticket.Record, error) {
	m, err := dbGet(ctx, s.db, event, nftId)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

// GetByMint implements ticket.Store.GetByMint
func (s *store) GetByMint(ctx context.Context, mint string) (*ticket.Record, error) {
	m, err := dbGetByMint(ctx, s.db, mint)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

// GetAllByOwner implements ticket.Store.GetAllByOwner
func (s *store) GetAllByOwner(ctx context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*ticket.Record, error) {
	models, err := dbGetAllByOwner(ctx, s.db, owner, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*ticket.Record, len(models))
	for i, m := range models {
		res[i] = fromModel(m)
	}
	return res, nil
}

// CountByDigitalAccess implements ticket.Store.CountByDigitalAccess
func (s *store) CountByDigitalAccess(ctx context.Context, digitalAccess string) (uint64, error) {
	return dbCountBy(ctx, s.db, "digital_access", digitalAccess)
}

// CountByEvent implements ticket.Store.CountByEvent
func (s *store) CountByEvent(ctx context.Context, event string) (uint64, error) {
	return dbCountBy(ctx, s.db, "event", event)
}

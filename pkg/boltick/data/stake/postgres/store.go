package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) stake.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// PutConfig implements stake.Store.PutConfig
func (s *store) PutConfig(ctx context.Context, record *stake.ConfigRecord) error {
	m, err := toConfigModel(record)
	if err != nil {
		return err
	}

	if err := m.dbPut(ctx, s.db); err != nil {
		return err
	}
	return copyConfig(m, record)
}

// UpdateConfig implements stake.Store.UpdateConfig
func (s *store) UpdateConfig(ctx context.Context, record *stake.ConfigRecord) error {
	m, err := toConfigModel(record)
	if err != nil {
		return err
	}

	if err := m.dbUpdate(ctx, s.db); err != nil {
		return err
	}
	return copyConfig(m, record)
}

// GetConfig implements stake.Store.GetConfig
func (s *store) GetConfig(ctx context.Context, address string) (*stake.ConfigRecord, error) {
	m, err := dbGetConfig(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromConfigModel(m)
}

// PutPosition implements stake.Store.PutPosition
func (s *store) PutPosition(ctx context.Context, record *stake.PositionRecord) error {
	m, err := toPositionModel(record)
	if err != nil {
		return err
	}

	if err := m.dbPut(ctx, s.db); err != nil {
		return err
	}
	return copyPosition(m, record)
}

// UpdatePosition implements stake.Store.UpdatePosition
func (s *store) UpdatePosition(ctx context.Context, record *stake.PositionRecord) error {
	m, err := toPositionModel(record)
	if err != nil {
		return err
	}

	if err := m.dbUpdate(ctx, s.db); err != nil {
		return err
	}
	return copyPosition(m, record)
}

// GetPosition implements stake.Store.GetPosition
func (s *store) GetPosition(ctx context.Context, address string) (*stake.PositionRecord, error) {
	m, err := dbGetPosition(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromPositionModel(m)
}

// GetAllPositions implements stake.Store.GetAllPositions
func (s *store) GetAllPositions(ctx context.Context, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*stake.PositionRecord, error) {
	models, err := dbGetAllPositions(ctx, s.db, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*stake.PositionRecord, len(models))
	for i, m := range models {
		res[i], err = fromPositionModel(m)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// SumPositionAmounts implements stake.Store.SumPositionAmounts
func (s *store) SumPositionAmounts(ctx context.Context) (uint64, error) {
	return dbSumPositionAmounts(ctx, s.db)
}

func copyConfig(m *configModel, dst *stake.ConfigRecord) error {
	updated, err := fromConfigModel(m)
	if err != nil {
		return err
	}
	updated.CopyTo(dst)
	return nil
}

func copyPosition(m *positionModel, dst *stake.PositionRecord) error {
	updated, err := fromPositionModel(m)
	if err != nil {
		return err
	}
	updated.CopyTo(dst)
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess"
	pgutil "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
)

const (
	tableName = "boltick__ticketing_digitalaccess"

	allColumns = `id, address, event, access_id, price, max_supply, current_minted, name, symbol, description, uri, bump, version, created_at, last_updated_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Address  string `db:"address"`
	Event    string `db:"event"`
	AccessId uint8  `db:"access_id"`

	Price         uint64 `db:"price"`
	MaxSupply     uint64 `db:"max_supply"`
	CurrentMinted uint64 `db:"current_minted"`

	Name        string `db:"name"`
	Symbol      string `db:"symbol"`
	Description string `db:"description"`
	Uri         string `db:"uri"`

	Bump uint8 `db:"bump"`

	Version uint64 `db:"version"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *digitalaccess.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Address:       obj.Address,
		Event:         obj.Event,
		AccessId:      obj.AccessId,
		Price:         obj.Price,
		MaxSupply:     obj.MaxSupply,
		CurrentMinted: obj.CurrentMinted,
		Name:          obj.Name,
		Symbol:        obj.Symbol,
		Description:   obj.Description,
		Uri:           obj.Uri,
		Bump:          obj.Bump,
		Version:       obj.Version,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *digitalaccess.Record {
	return &digitalaccess.Record{
		Id:            uint64(obj.Id.Int64),
		Address:       obj.Address,
		Event:         obj.Event,
		AccessId:      obj.AccessId,
		Price:         obj.Price,
		MaxSupply:     obj.MaxSupply,
		CurrentMinted: obj.CurrentMinted,
		Name:          obj.Name,
		Symbol:        obj.Symbol,
		Description:   obj.Description,
		Uri:           obj.Uri,
		Bump:          obj.Bump,
		Version:       obj.Version,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(address, event, access_id, price, max_supply, current_minted, name, symbol, description, uri, bump, version, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, $12, $12)
			RETURNING ` + allColumns

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Event,
			m.AccessId,
			m.Price,
			m.MaxSupply,
			m.CurrentMinted,
			m.Name,
			m.Symbol,
			m.Description,
			m.Uri,
			m.Bump,
			m.CreatedAt.UTC(),
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, digitalaccess.ErrExists)
	})
}

func (m *model) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET current_minted = $2, version = version + 1, last_updated_at = $3
			WHERE address = $1 AND version = $4 AND $2 <= max_supply
			RETURNING ` + allColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.CurrentMinted,
			time.Now().UTC(),
			m.Version,
		).StructScan(m)
		if pgutil.IsNoRows(err) {
			return dbCheckExists(ctx, tx, m.Address)
		}
		return err
	})
}

func dbCheckExists(ctx context.Context, tx *sqlx.Tx, address string) error {
	var count int
	query := `SELECT COUNT(*) FROM ` + tableName + ` WHERE address = $1`
	if err := tx.GetContext(ctx, &count, query, address); err != nil {
		return err
	}
	if count == 0 {
		return digitalaccess.ErrNotFound
	}
	return digitalaccess.ErrStaleVersion
}

func dbGet(ctx context.Context, db *sqlx.DB, address string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE address = $1
		LIMIT 1`

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, res, query, address)
	})
	if err != nil {
		return nil, pgutil.CheckNoRows(err, digitalaccess.ErrNotFound)
	}
	return res, nil
}

func dbGetAllByEvent(ctx context.Context, db *sqlx.DB, event string) ([]*model, error) {
	res := []*model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE event = $1
		ORDER BY access_id ASC`

	err := db.SelectContext(ctx, &res, query, event)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, digitalaccess.ErrNotFound)
	}
	if len(res) == 0 {
		return nil, digitalaccess.ErrNotFound
	}
	return res, nil
}

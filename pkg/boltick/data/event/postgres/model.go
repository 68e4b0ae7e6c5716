package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event"
	pgutil "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
	q "github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

const (
	tableName = "boltick__ticketing_event"

	allColumns = `id, address, event_id, creator, collection_mint, name, description, date, current_digital_access_count, current_nft_count, bump, version, created_at, last_updated_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Address string `db:"address"`
	EventId uint64 `db:"event_id"`

	Creator        string `db:"creator"`
	CollectionMint string `db:"collection_mint"`

	Name        string    `db:"name"`
	Description string    `db:"description"`
	Date        time.Time `db:"date"`

	CurrentDigitalAccessCount uint8  `db:"current_digital_access_count"`
	CurrentNftCount           uint64 `db:"current_nft_count"`

	Bump uint8 `db:"bump"`

	Version uint64 `db:"version"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *event.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Address:                   obj.Address,
		EventId:                   obj.EventId,
		Creator:                   obj.Creator,
		CollectionMint:            obj.CollectionMint,
		Name:                      obj.Name,
		Description:               obj.Description,
		Date:                      obj.Date,
		CurrentDigitalAccessCount: obj.CurrentDigitalAccessCount,
		CurrentNftCount:           obj.CurrentNftCount,
		Bump:                      obj.Bump,
		Version:                   obj.Version,
		CreatedAt:                 obj.CreatedAt,
		LastUpdatedAt:             obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *event.Record {
	return &event.Record{
		Id:                        uint64(obj.Id.Int64),
		Address:                   obj.Address,
		EventId:                   obj.EventId,
		Creator:                   obj.Creator,
		CollectionMint:            obj.CollectionMint,
		Name:                      obj.Name,
		Description:               obj.Description,
		Date:                      obj.Date,
		CurrentDigitalAccessCount: obj.CurrentDigitalAccessCount,
		CurrentNftCount:           obj.CurrentNftCount,
		Bump:                      obj.Bump,
		Version:                   obj.Version,
		CreatedAt:                 obj.CreatedAt,
		LastUpdatedAt:             obj.LastUpdatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(address, event_id, creator, collection_mint, name, description, date, current_digital_access_count, current_nft_count, bump, version, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $11)
			RETURNING ` + allColumns

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.EventId,
			m.Creator,
			m.CollectionMint,
			m.Name,
			m.Description,
			m.Date.UTC(),
			m.CurrentDigitalAccessCount,
			m.CurrentNftCount,
			m.Bump,
			m.CreatedAt.UTC(),
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, event.ErrExists)
	})
}

func (m *model) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET current_digital_access_count = $2, current_nft_count = $3, version = version + 1, last_updated_at = $4
			WHERE address = $1 AND version = $5
			RETURNING ` + allColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.CurrentDigitalAccessCount,
			m.CurrentNftCount,
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
		return event.ErrNotFound
	}
	return event.ErrStaleVersion
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
		return nil, pgutil.CheckNoRows(err, event.ErrNotFound)
	}
	return res, nil
}

func dbGetByEventId(ctx context.Context, db *sqlx.DB, eventId uint64) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE event_id = $1
		LIMIT 1`

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, res, query, eventId)
	})
	if err != nil {
		return nil, pgutil.CheckNoRows(err, event.ErrNotFound)
	}
	return res, nil
}

func dbGetAllByCreator(ctx context.Context, db *sqlx.DB, creator string, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*model, error) {
	res := []*model{}

	query, args := q.PaginateQuery(
		`SELECT `+allColumns+` FROM `+tableName+` WHERE (creator = $1)`,
		[]interface{}{creator},
		cursor,
		limit,
		direction,
	)

	err := db.SelectContext(ctx, &res, query, args...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, event.ErrNotFound)
	}
	if len(res) == 0 {
		return nil, event.ErrNotFound
	}
	return res, nil
}

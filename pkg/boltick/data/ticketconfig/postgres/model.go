package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig"
	pgutil "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
)

const (
	tableName = "boltick__ticketing_config"

	allColumns = `id, address, authority, treasury, event_count, treasury_bump, bump, version, created_at, last_updated_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Address   string `db:"address"`
	Authority string `db:"authority"`
	Treasury  string `db:"treasury"`

	EventCount uint64 `db:"event_count"`

	TreasuryBump uint8 `db:"treasury_bump"`
	Bump         uint8 `db:"bump"`

	Version uint64 `db:"version"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *ticketconfig.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Address:       obj.Address,
		Authority:     obj.Authority,
		Treasury:      obj.Treasury,
		EventCount:    obj.EventCount,
		TreasuryBump:  obj.TreasuryBump,
		Bump:          obj.Bump,
		Version:       obj.Version,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *ticketconfig.Record {
	return &ticketconfig.Record{
		Id:            uint64(obj.Id.Int64),
		Address:       obj.Address,
		Authority:     obj.Authority,
		Treasury:      obj.Treasury,
		EventCount:    obj.EventCount,
		TreasuryBump:  obj.TreasuryBump,
		Bump:          obj.Bump,
		Version:       obj.Version,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(address, authority, treasury, event_count, treasury_bump, bump, version, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $7)
			RETURNING ` + allColumns

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Authority,
			m.Treasury,
			m.EventCount,
			m.TreasuryBump,
			m.Bump,
			m.CreatedAt.UTC(),
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, ticketconfig.ErrExists)
	})
}

func (m *model) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET event_count = $2, version = version + 1, last_updated_at = $3
			WHERE address = $1 AND version = $4
			RETURNING ` + allColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.EventCount,
			time.Now().UTC(),
			m.Version,
		).StructScan(m)
		if pgutil.IsNoRows(err) {
			return dbCheckExists(ctx, tx, m.Address)
		}
		return err
	})
}

// dbCheckExists resolves a failed versioned update into ErrNotFound or
// ErrStaleVersion.
func dbCheckExists(ctx context.Context, tx *sqlx.Tx, address string) error {
	var count int
	query := `SELECT COUNT(*) FROM ` + tableName + ` WHERE address = $1`
	if err := tx.GetContext(ctx, &count, query, address); err != nil {
		return err
	}
	if count == 0 {
		return ticketconfig.ErrNotFound
	}
	return ticketconfig.ErrStaleVersion
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
		return nil, pgutil.CheckNoRows(err, ticketconfig.ErrNotFound)
	}
	return res, nil
}

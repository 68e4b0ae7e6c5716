package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticket"
	pgutil "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
	q "github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

const (
	tableName = "boltick__ticketing_ticket"

	allColumns = `id, event, nft_id, digital_access, access_id, mint, metadata, owner, token_account, price, created_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Event         string `db:"event"`
	NftId         uint64 `db:"nft_id"`
	DigitalAccess string `db:"digital_access"`
	AccessId      uint8  `db:"access_id"`

	Mint         string `db:"mint"`
	Metadata     string `db:"metadata"`
	Owner        string `db:"owner"`
	TokenAccount string `db:"token_account"`

	Price uint64 `db:"price"`

	CreatedAt time.Time `db:"created_at"`
}

func toModel(obj *ticket.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Event:         obj.Event,
		NftId:         obj.NftId,
		DigitalAccess: obj.DigitalAccess,
		AccessId:      obj.AccessId,
		Mint:          obj.Mint,
		Metadata:      obj.Metadata,
		Owner:         obj.Owner,
		TokenAccount:  obj.TokenAccount,
		Price:         obj.Price,
		CreatedAt:     obj.CreatedAt,
	}, nil
}

func fromModel(obj *model) *ticket.Record {
	return &ticket.Record{
		Id:            uint64(obj.Id.Int64),
		Event:         obj.Event,
		NftId:         obj.NftId,
		DigitalAccess: obj.DigitalAccess,
		AccessId:      obj.AccessId,
		Mint:          obj.Mint,
		Metadata:      obj.Metadata,
		Owner:         obj.Owner,
		TokenAccount:  obj.TokenAccount,
		Price:         obj.Price,
		CreatedAt:     obj.CreatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(event, nft_id, digital_access, access_id, mint, metadata, owner, token_account, price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING ` + allColumns

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Event,
			m.NftId,
			m.DigitalAccess,
			m.AccessId,
			m.Mint,
			m.Metadata,
			m.Owner,
			m.TokenAccount,
			m.Price,
			m.CreatedAt.UTC(),
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, ticket.ErrExists)
	})
}

func dbGet(ctx context.Context, db *sqlx.DB, event string, nftId uint64) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE event = $1 AND nft_id = $2
		LIMIT 1`

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, res, query, event, nftId)
	})
	if err != nil {
		return nil, pgutil.CheckNoRows(err, ticket.ErrNotFound)
	}
	return res, nil
}

func dbGetByMint(ctx context.Context, db *sqlx.DB, mint string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE mint = $1
		LIMIT 1`

	err := db.GetContext(ctx, res, query, mint)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, ticket.ErrNotFound)
	}
	return res, nil
}

func dbGetAllByOwner(ctx context.Context, db *sqlx.DB, owner string, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*model, error) {
	res := []*model{}

	query, args := q.PaginateQuery(
		`SELECT `+allColumns+` FROM `+tableName+` WHERE (owner = $1)`,
		[]interface{}{owner},
		cursor,
		limit,
		direction,
	)

	err := db.SelectContext(ctx, &res, query, args...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, ticket.ErrNotFound)
	}
	if len(res) == 0 {
		return nil, ticket.ErrNotFound
	}
	return res, nil
}

func dbCountBy(ctx context.Context, db *sqlx.DB, column, value string) (uint64, error) {
	var res uint64

	query := `SELECT COUNT(*) FROM ` + tableName + ` WHERE ` + column + ` = $1`

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &res, query, value)
	})
	if err != nil {
		return 0, err
	}
	return res, nil
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata"
	pgutil "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
)

const (
	tableName = "boltick__token_metadata"

	allColumns = `id, address, mint, update_authority, name, symbol, uri, seller_fee_basis_points, creator, creator_share, creator_verified, collection, collection_verified, is_collection, master_edition, is_mutable, version, created_at, last_updated_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Address         string `db:"address"`
	Mint            string `db:"mint"`
	UpdateAuthority string `db:"update_authority"`

	Name   string `db:"name"`
	Symbol string `db:"symbol"`
	Uri    string `db:"uri"`

	SellerFeeBasisPoints uint16         `db:"seller_fee_basis_points"`
	Creator              sql.NullString `db:"creator"`
	CreatorShare         uint8          `db:"creator_share"`
	CreatorVerified      bool           `db:"creator_verified"`

	Collection         sql.NullString `db:"collection"`
	CollectionVerified bool           `db:"collection_verified"`
	IsCollection       bool           `db:"is_collection"`

	MasterEdition sql.NullString `db:"master_edition"`
	IsMutable     bool           `db:"is_mutable"`

	Version uint64 `db:"version"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *metadata.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Address:              obj.Address,
		Mint:                 obj.Mint,
		UpdateAuthority:      obj.UpdateAuthority,
		Name:                 obj.Name,
		Symbol:               obj.Symbol,
		Uri:                  obj.Uri,
		SellerFeeBasisPoints: obj.SellerFeeBasisPoints,
		Creator:              toNullString(obj.Creator),
		CreatorShare:         obj.CreatorShare,
		CreatorVerified:      obj.CreatorVerified,
		Collection:           toNullString(obj.Collection),
		CollectionVerified:   obj.CollectionVerified,
		IsCollection:         obj.IsCollection,
		MasterEdition:        toNullString(obj.MasterEdition),
		IsMutable:            obj.IsMutable,
		Version:              obj.Version,
		CreatedAt:            obj.CreatedAt,
		LastUpdatedAt:        obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *metadata.Record {
	return &metadata.Record{
		Id:                   uint64(obj.Id.Int64),
		Address:              obj.Address,
		Mint:                 obj.Mint,
		UpdateAuthority:      obj.UpdateAuthority,
		Name:                 obj.Name,
		Symbol:               obj.Symbol,
		Uri:                  obj.Uri,
		SellerFeeBasisPoints: obj.SellerFeeBasisPoints,
		Creator:              obj.Creator.String,
		CreatorShare:         obj.CreatorShare,
		CreatorVerified:      obj.CreatorVerified,
		Collection:           obj.Collection.String,
		CollectionVerified:   obj.CollectionVerified,
		IsCollection:         obj.IsCollection,
		MasterEdition:        obj.MasterEdition.String,
		IsMutable:            obj.IsMutable,
		Version:              obj.Version,
		CreatedAt:            obj.CreatedAt,
		LastUpdatedAt:        obj.LastUpdatedAt,
	}
}

func toNullString(value string) sql.NullString {
	return sql.NullString{
		Valid:  len(value) > 0,
		String: value,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(address, mint, update_authority, name, symbol, uri, seller_fee_basis_points, creator, creator_share, creator_verified, collection, collection_verified, is_collection, master_edition, is_mutable, version, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1, $16, $16)
			RETURNING ` + allColumns

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Mint,
			m.UpdateAuthority,
			m.Name,
			m.Symbol,
			m.Uri,
			m.SellerFeeBasisPoints,
			m.Creator,
			m.CreatorShare,
			m.CreatorVerified,
			m.Collection,
			m.CollectionVerified,
			m.IsCollection,
			m.MasterEdition,
			m.IsMutable,
			m.CreatedAt.UTC(),
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, metadata.ErrExists)
	})
}

func (m *model) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET name = $2, symbol = $3, uri = $4, version = version + 1, last_updated_at = $5
			WHERE mint = $1 AND version = $6
			RETURNING ` + allColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Mint,
			m.Name,
			m.Symbol,
			m.Uri,
			time.Now().UTC(),
			m.Version,
		).StructScan(m)
		if pgutil.IsNoRows(err) {
			return dbCheckExists(ctx, tx, m.Mint)
		}
		return err
	})
}

func dbCheckExists(ctx context.Context, tx *sqlx.Tx, mint string) error {
	var count int
	query := `SELECT COUNT(*) FROM ` + tableName + ` WHERE mint = $1`
	if err := tx.GetContext(ctx, &count, query, mint); err != nil {
		return err
	}
	if count == 0 {
		return metadata.ErrNotFound
	}
	return metadata.ErrStaleVersion
}

func dbGetByMint(ctx context.Context, db *sqlx.DB, mint string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE mint = $1
		LIMIT 1`

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, res, query, mint)
	})
	if err != nil {
		return nil, pgutil.CheckNoRows(err, metadata.ErrNotFound)
	}
	return res, nil
}

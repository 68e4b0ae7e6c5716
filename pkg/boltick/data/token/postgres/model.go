package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
	pgutil "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
)

const (
	mintTableName    = "boltick__token_mint"
	accountTableName = "boltick__token_account"

	mintColumns    = `id, address, mint_authority, decimals, supply, version, created_at, last_updated_at`
	accountColumns = `id, address, owner, mint, amount, version, created_at, last_updated_at`
)

type mintModel struct {
	Id sql.NullInt64 `db:"id"`

	Address       string `db:"address"`
	MintAuthority string `db:"mint_authority"`
	Decimals      uint8  `db:"decimals"`
	Supply        uint64 `db:"supply"`

	Version uint64 `db:"version"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

type accountModel struct {
	Id sql.NullInt64 `db:"id"`

	Address string `db:"address"`
	Owner   string `db:"owner"`
	Mint    string `db:"mint"`
	Amount  uint64 `db:"amount"`

	Version uint64 `db:"version"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toMintModel(obj *token.MintRecord) (*mintModel, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &mintModel{
		Address:       obj.Address,
		MintAuthority: obj.MintAuthority,
		Decimals:      obj.Decimals,
		Supply:        obj.Supply,
		Version:       obj.Version,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromMintModel(obj *mintModel) *token.MintRecord {
	return &token.MintRecord{
		Id:            uint64(obj.Id.Int64),
		Address:       obj.Address,
		MintAuthority: obj.MintAuthority,
		Decimals:      obj.Decimals,
		Supply:        obj.Supply,
		Version:       obj.Version,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func toAccountModel(obj *token.AccountRecord) (*accountModel, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &accountModel{
		Address:       obj.Address,
		Owner:         obj.Owner,
		Mint:          obj.Mint,
		Amount:        obj.Amount,
		Version:       obj.Version,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromAccountModel(obj *accountModel) *token.AccountRecord {
	return &token.AccountRecord{
		Id:            uint64(obj.Id.Int64),
		Address:       obj.Address,
		Owner:         obj.Owner,
		Mint:          obj.Mint,
		Amount:        obj.Amount,
		Version:       obj.Version,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *mintModel) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + mintTableName + `
			(address, mint_authority, decimals, supply, version, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, 1, $5, $5)
			RETURNING ` + mintColumns

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.MintAuthority,
			m.Decimals,
			m.Supply,
			m.CreatedAt.UTC(),
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, token.ErrMintExists)
	})
}

func (m *mintModel) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + mintTableName + `
			SET supply = $2, version = version + 1, last_updated_at = $3
			WHERE address = $1 AND version = $4
			RETURNING ` + mintColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Supply,
			time.Now().UTC(),
			m.Version,
		).StructScan(m)
		if pgutil.IsNoRows(err) {
			return dbCheckExists(ctx, tx, mintTableName, m.Address, token.ErrMintNotFound, token.ErrStaleMintVersion)
		}
		return err
	})
}

func dbGetMint(ctx context.Context, db *sqlx.DB, address string) (*mintModel, error) {
	res := &mintModel{}

	query := `SELECT ` + mintColumns + ` FROM ` + mintTableName + `
		WHERE address = $1
		LIMIT 1`

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, res, query, address)
	})
	if err != nil {
		return nil, pgutil.CheckNoRows(err, token.ErrMintNotFound)
	}
	return res, nil
}

func (m *accountModel) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + accountTableName + `
			(address, owner, mint, amount, version, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, 1, $5, $5)
			RETURNING ` + accountColumns

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Owner,
			m.Mint,
			m.Amount,
			m.CreatedAt.UTC(),
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, token.ErrAccountExists)
	})
}

func (m *accountModel) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + accountTableName + `
			SET amount = $2, version = version + 1, last_updated_at = $3
			WHERE address = $1 AND version = $4
			RETURNING ` + accountColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Amount,
			time.Now().UTC(),
			m.Version,
		).StructScan(m)
		if pgutil.IsNoRows(err) {
			return dbCheckExists(ctx, tx, accountTableName, m.Address, token.ErrAccountNotFound, token.ErrStaleAccountVersion)
		}
		return err
	})
}

func dbGetAccount(ctx context.Context, db *sqlx.DB, address string) (*accountModel, error) {
	res := &accountModel{}

	query := `SELECT ` + accountColumns + ` FROM ` + accountTableName + `
		WHERE address = $1
		LIMIT 1`

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, res, query, address)
	})
	if err != nil {
		return nil, pgutil.CheckNoRows(err, token.ErrAccountNotFound)
	}
	return res, nil
}

func dbGetAccountsByOwner(ctx context.Context, db *sqlx.DB, owner string) ([]*accountModel, error) {
	res := []*accountModel{}

	query := `SELECT ` + accountColumns + ` FROM ` + accountTableName + `
		WHERE owner = $1
		ORDER BY id ASC`

	err := db.SelectContext(ctx, &res, query, owner)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, token.ErrAccountNotFound)
	}
	if len(res) == 0 {
		return nil, token.ErrAccountNotFound
	}
	return res, nil
}

func dbCheckExists(ctx context.Context, tx *sqlx.Tx, table, address string, notFound, stale error) error {
	var count int
	query := `SELECT COUNT(*) FROM ` + table + ` WHERE address = $1`
	if err := tx.GetContext(ctx, &count, query, address); err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return stale
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) token.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// PutMint implements token.Store.PutMint
func (s *store) PutMint(ctx context.Context, record *token.MintRecord) error {
	m, err := toMintModel(record)
	if err != nil {
		return err
	}

	if err := m.dbPut(ctx, s.db); err != nil {
		return err
	}

	fromMintModel(m).CopyTo(record)
	return nil
}

// UpdateMint implements token.Store.UpdateMint
func (s *store) UpdateMint(ctx context.Context, record *token.MintRecord) error {
	m, err := toMintModel(record)
	if err != nil {
		return err
	}

	if err := m.dbUpdate(ctx, s.db); err != nil {
		return err
	}

	fromMintModel(m).CopyTo(record)
	return nil
}

// GetMint implements token.Store.GetMint
func (s *store) GetMint(ctx context.Context, address string) (*token.MintRecord, error) {
	m, err := dbGetMint(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromMintModel(m), nil
}

// PutAccount implements token.Store.PutAccount
func (s *store) PutAccount(ctx context.Context, record *token.AccountRecord) error {
	m, err := toAccountModel(record)
	if err != nil {
		return err
	}

	if err := m.dbPut(ctx, s.db); err != nil {
		return err
	}

	fromAccountModel(m).CopyTo(record)
	return nil
}

// UpdateAccount implements token.Store.UpdateAccount
func (s *store) UpdateAccount(ctx context.Context, record *token.AccountRecord) error {
	m, err := toAccountModel(record)
	if err != nil {
		return err
	}

	if err := m.dbUpdate(ctx, s.db); err != nil {
		return err
	}

	fromAccountModel(m).CopyTo(record)
	return nil
}

// GetAccount implements token.Store.GetAccount
func (s *store) GetAccount(ctx context.Context, address string) (*token.AccountRecord, error) {
	m, err := dbGetAccount(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromAccountModel(m), nil
}

// GetAccountsByOwner implements token.Store.GetAccountsByOwner
func (s *store) GetAccountsByOwner(ctx context.Context, owner string) ([]*token.AccountRecord, error) {
	models, err := dbGetAccountsByOwner(ctx, s.db, owner)
	if err != nil {
		return nil, err
	}

	res := make([]*token.AccountRecord, len(models))
	for i, m := range models {
		res[i] = fromAccountModel(m)
	}
	return res, nil
}

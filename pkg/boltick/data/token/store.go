package token

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMintNotFound     = errors.New("mint not found")
	ErrMintExists       = errors.New("mint already exists")
	ErrStaleMintVersion = errors.New("mint version is stale")

	ErrAccountNotFound     = errors.New("token account not found")
	ErrAccountExists       = errors.New("token account already exists")
	ErrStaleAccountVersion = errors.New("token account version is stale")
)

type MintRecord struct {
	Id uint64

	Address       string
	MintAuthority string
	Decimals      uint8
	Supply        uint64

	Version uint64

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

type AccountRecord struct {
	Id uint64

	Address string
	Owner   string
	Mint    string
	Amount  uint64

	Version uint64

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

// Store is the ledger of token mints and the accounts holding their units.
type Store interface {
	// PutMint creates a mint. ErrMintExists is returned if the address is
	// taken.
	PutMint(ctx context.Context, record *MintRecord) error

	// UpdateMint persists a mint's supply. The record's version must match the
	// stored version, otherwise ErrStaleMintVersion is returned.
	UpdateMint(ctx context.Context, record *MintRecord) error

	// GetMint returns the mint at the address, or ErrMintNotFound.
	GetMint(ctx context.Context, address string) (*MintRecord, error)

	// PutAccount creates a token account. ErrAccountExists is returned if the
	// address is taken.
	PutAccount(ctx context.Context, record *AccountRecord) error

	// UpdateAccount persists an account's amount. The record's version must
	// match the stored version, otherwise ErrStaleAccountVersion is returned.
	UpdateAccount(ctx context.Context, record *AccountRecord) error

	// GetAccount returns the token account at the address, or
	// ErrAccountNotFound.
	GetAccount(ctx context.Context, address string) (*AccountRecord, error)

	// GetAccountsByOwner returns every token account held by the owner.
	// ErrAccountNotFound is returned when there are none.
	GetAccountsByOwner(ctx context.Context, owner string) ([]*AccountRecord, error)
}

func (r *MintRecord) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}
	if len(r.MintAuthority) == 0 {
		return errors.New("mint authority is required")
	}
	return nil
}

func (r *MintRecord) Clone() MintRecord {
	return MintRecord{
		Id:            r.Id,
		Address:       r.Address,
		MintAuthority: r.MintAuthority,
		Decimals:      r.Decimals,
		Supply:        r.Supply,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *MintRecord) CopyTo(dst *MintRecord) {
	dst.Id = r.Id
	dst.Address = r.Address
	dst.MintAuthority = r.MintAuthority
	dst.Decimals = r.Decimals
	dst.Supply = r.Supply
	dst.Version = r.Version
	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}

func (r *AccountRecord) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}
	if len(r.Owner) == 0 {
		return errors.New("owner is required")
	}
	if len(r.Mint) == 0 {
		return errors.New("mint is required")
	}
	return nil
}

func (r *AccountRecord) Clone() AccountRecord {
	return AccountRecord{
		Id:            r.Id,
		Address:       r.Address,
		Owner:         r.Owner,
		Mint:          r.Mint,
		Amount:        r.Amount,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *AccountRecord) CopyTo(dst *AccountRecord) {
	dst.Id = r.Id
	dst.Address = r.Address
	dst.Owner = r.Owner
	dst.Mint = r.Mint
	dst.Amount = r.Amount
	dst.Version = r.Version
	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}

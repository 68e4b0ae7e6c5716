package balance

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("lamport balance not found")
	ErrExists       = errors.New("lamport balance already exists")
	ErrStaleVersion = errors.New("lamport balance version is stale")
)

// Record is the native lamport balance held by an account.
type Record struct {
	Id uint64

	Account  string
	Lamports uint64

	Version uint64

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

type Store interface {
	// Put opens a balance. ErrExists is returned if the account already has
	// one.
	Put(ctx context.Context, record *Record) error

	// Update persists the lamport amount. The record's version must match the
	// stored version, otherwise ErrStaleVersion is returned.
	Update(ctx context.Context, record *Record) error

	// Get returns the account's balance, or ErrNotFound.
	Get(ctx context.Context, account string) (*Record, error)
}

func (r *Record) Validate() error {
	if len(r.Account) == 0 {
		return errors.New("account is required")
	}
	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id:            r.Id,
		Account:       r.Account,
		Lamports:      r.Lamports,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id
	dst.Account = r.Account
	dst.Lamports = r.Lamports
	dst.Version = r.Version
	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}

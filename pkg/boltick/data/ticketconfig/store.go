package ticketconfig

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("ticketing config not found")
	ErrExists       = errors.New("ticketing config already exists")
	ErrStaleVersion = errors.New("ticketing config version is stale")
)

// Record is the ticketing program's singleton config account.
type Record struct {
	Id uint64

	Address   string
	Authority string
	Treasury  string

	EventCount uint64

	TreasuryBump uint8
	Bump         uint8

	Version uint64

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

type Store interface {
	// Put creates the config. ErrExists is returned if a config already
	// lives at the address.
	Put(ctx context.Context, record *Record) error

	// Update persists the mutable fields of the config. The record's version
	// must match the stored version, otherwise ErrStaleVersion is returned.
	// The record is updated in place with the new version.
	Update(ctx context.Context, record *Record) error

	// Get returns the config at the address, or ErrNotFound.
	Get(ctx context.Context, address string) (*Record, error)
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}
	if len(r.Authority) == 0 {
		return errors.New("authority is required")
	}
	if len(r.Treasury) == 0 {
		return errors.New("treasury is required")
	}
	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id:            r.Id,
		Address:       r.Address,
		Authority:     r.Authority,
		Treasury:      r.Treasury,
		EventCount:    r.EventCount,
		TreasuryBump:  r.TreasuryBump,
		Bump:          r.Bump,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id
	dst.Address = r.Address
	dst.Authority = r.Authority
	dst.Treasury = r.Treasury
	dst.EventCount = r.EventCount
	dst.TreasuryBump = r.TreasuryBump
	dst.Bump = r.Bump
	dst.Version = r.Version
	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}

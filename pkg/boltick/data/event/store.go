package event

import (
	"context"
	"errors"
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

var (
	ErrNotFound     = errors.New("event not found")
	ErrExists       = errors.New("event already exists")
	ErrStaleVersion = errors.New("event version is stale")
)

type Record struct {
	Id uint64

	Address string
	EventId uint64

	Creator        string
	CollectionMint string

	Name        string
	Description string
	Date        time.Time

	CurrentDigitalAccessCount uint8
	CurrentNftCount           uint64

	Bump uint8

	Version uint64

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

type Store interface {
	// Put creates an event. ErrExists is returned if the address or event id
	// is already taken.
	Put(ctx context.Context, record *Record) error

	// Update persists the event counters. The record's version must match the
	// stored version, otherwise ErrStaleVersion is returned.
	Update(ctx context.Context, record *Record) error

	// Get returns the event at the address, or ErrNotFound.
	Get(ctx context.Context, address string) (*Record, error)

	// GetByEventId returns the event with the program assigned id, or
	// ErrNotFound.
	GetByEventId(ctx context.Context, eventId uint64) (*Record, error)

	// GetAllByCreator pages through events created by the creator. ErrNotFound
	// is returned when the page is empty.
	GetAllByCreator(ctx context.Context, creator string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}
	if len(r.Creator) == 0 {
		return errors.New("creator is required")
	}
	if len(r.CollectionMint) == 0 {
		return errors.New("collection mint is required")
	}
	if len(r.Name) == 0 {
		return errors.New("name is required")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id:                        r.Id,
		Address:                   r.Address,
		EventId:                   r.EventId,
		Creator:                   r.Creator,
		CollectionMint:            r.CollectionMint,
		Name:                      r.Name,
		Description:               r.Description,
		Date:                      r.Date,
		CurrentDigitalAccessCount: r.CurrentDigitalAccessCount,
		CurrentNftCount:           r.CurrentNftCount,
		Bump:                      r.Bump,
		Version:                   r.Version,
		CreatedAt:                 r.CreatedAt,
		LastUpdatedAt:             r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id
	dst.Address = r.Address
	dst.EventId = r.EventId
	dst.Creator = r.Creator
	dst.CollectionMint = r.CollectionMint
	dst.Name = r.Name
	dst.Description = r.Description
	dst.Date = r.Date
	dst.CurrentDigitalAccessCount = r.CurrentDigitalAccessCount
	dst.CurrentNftCount = r.CurrentNftCount
	dst.Bump = r.Bump
	dst.Version = r.Version
	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}

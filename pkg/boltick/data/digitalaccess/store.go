package digitalaccess

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("digital access not found")
	ErrExists       = errors.New("digital access already exists")
	ErrStaleVersion = errors.New("digital access version is stale")
)

// Record is an access tier of an event.
type Record struct {
	Id uint64

	Address  string
	Event    string
	AccessId uint8

	Price         uint64
	MaxSupply     uint64
	CurrentMinted uint64

	Name        string
	Symbol      string
	Description string
	Uri         string

	Bump uint8

	Version uint64

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

type Store interface {
	// Put creates a tier. ErrExists is returned if the address or the
	// (event, access id) pair is already taken.
	Put(ctx context.Context, record *Record) error

	// Update persists the minted counter. The record's version must match the
	// stored version, otherwise ErrStaleVersion is returned.
	Update(ctx context.Context, record *Record) error

	// Get returns the tier at the address, or ErrNotFound.
	Get(ctx context.Context, address string) (*Record, error)

	// GetAllByEvent returns an event's tiers ordered by access id. ErrNotFound
	// is returned when the event has none.
	GetAllByEvent(ctx context.Context, event string) ([]*Record, error)
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}
	if len(r.Event) == 0 {
		return errors.New("event is required")
	}
	if r.MaxSupply == 0 {
		return errors.New("max supply must be positive")
	}
	if r.CurrentMinted > r.MaxSupply {
		return errors.New("minted count exceeds max supply")
	}
	if len(r.Name) == 0 {
		return errors.New("name is required")
	}
	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id:            r.Id,
		Address:       r.Address,
		Event:         r.Event,
		AccessId:      r.AccessId,
		Price:         r.Price,
		MaxSupply:     r.MaxSupply,
		CurrentMinted: r.CurrentMinted,
		Name:          r.Name,
		Symbol:        r.Symbol,
		Description:   r.Description,
		Uri:           r.Uri,
		Bump:          r.Bump,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id
	dst.Address = r.Address
	dst.Event = r.Event
	dst.AccessId = r.AccessId
	dst.Price = r.Price
	dst.MaxSupply = r.MaxSupply
	dst.CurrentMinted = r.CurrentMinted
	dst.Name = r.Name
	dst.Symbol = r.Symbol
	dst.Description = r.Description
	dst.Uri = r.Uri
	dst.Bump = r.Bump
	dst.Version = r.Version
	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}

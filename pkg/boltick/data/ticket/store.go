package ticket

import (
	"context"
	"errors"
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

var (
	ErrNotFound = errors.New("ticket not found")
	ErrExists   = errors.New("ticket already exists")
)

// Record is an issued ticket. Tickets are never mutated or deleted, and the
// owner is the wallet the ticket was first minted to.
type Record struct {
	Id uint64

	Event         string
	NftId         uint64
	DigitalAccess string
	AccessId      uint8

	Mint         string
	Metadata     string
	Owner        string
	TokenAccount string

	// Price paid in lamports, zero on the authority path
	Price uint64

	CreatedAt time.Time
}

type Store interface {
	// Put records an issued ticket. ErrExists is returned if the (event, nft
	// id) pair or the mint is already taken.
	Put(ctx context.Context, record *Record) error

	// Get returns the ticket with the nft id within the event, or ErrNotFound.
	Get(ctx context.Context, event string, nftId uint64) (*Record, error)

	// GetByMint returns the ticket for a mint, or ErrNotFound.
	GetByMint(ctx context.Context, mint string) (*Record, error)

	// GetAllByOwner pages through tickets minted to the owner. ErrNotFound is
	// returned when the page is empty.
	GetAllByOwner(ctx context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)

	// CountByDigitalAccess counts tickets issued under a tier.
	CountByDigitalAccess(ctx context.Context, digitalAccess string) (uint64, error)

	// CountByEvent counts tickets issued under an event.
	CountByEvent(ctx context.Context, event string) (uint64, error)
}

func (r *Record) Validate() error {
	if len(r.Event) == 0 {
		return errors.New("event is required")
	}
	if len(r.DigitalAccess) == 0 {
		return errors.New("digital access is required")
	}
	if len(r.Mint) == 0 {
		return errors.New("mint is required")
	}
	if len(r.Metadata) == 0 {
		return errors.New("metadata is required")
	}
	if len(r.Owner) == 0 {
		return errors.New("owner is required")
	}
	if len(r.TokenAccount) == 0 {
		return errors.New("token account is required")
	}
	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id:            r.Id,
		Event:         r.Event,
		NftId:         r.NftId,
		DigitalAccess: r.DigitalAccess,
		AccessId:      r.AccessId,
		Mint:          r.Mint,
		Metadata:      r.Metadata,
		Owner:         r.Owner,
		TokenAccount:  r.TokenAccount,
		Price:         r.Price,
		CreatedAt:     r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id
	dst.Event = r.Event
	dst.NftId = r.NftId
	dst.DigitalAccess = r.DigitalAccess
	dst.AccessId = r.AccessId
	dst.Mint = r.Mint
	dst.Metadata = r.Metadata
	dst.Owner = r.Owner
	dst.TokenAccount = r.TokenAccount
	dst.Price = r.Price
	dst.CreatedAt = r.CreatedAt
}

package metadata

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("token metadata not found")
	ErrExists       = errors.New("token metadata already exists")
	ErrStaleVersion = errors.New("token metadata version is stale")
)

// Record is the metadata attached to a mint. Only the name, symbol and uri
// change after creation.
type Record struct {
	Id uint64

	Address         string
	Mint            string
	UpdateAuthority string

	Name   string
	Symbol string
	Uri    string

	SellerFeeBasisPoints uint16
	Creator              string
	CreatorShare         uint8
	CreatorVerified      bool

	// Collection mint this token belongs to, empty for collections
	Collection         string
	CollectionVerified bool

	// Set on collection mints, which carry sized collection details
	IsCollection bool

	MasterEdition string
	IsMutable     bool

	Version uint64

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

type Store interface {
	// Put creates metadata for a mint. ErrExists is returned if the mint
	// already has metadata.
	Put(ctx context.Context, record *Record) error

	// Update persists the name, symbol and uri. The record's version must
	// match the stored version, otherwise ErrStaleVersion is returned.
	Update(ctx context.Context, record *Record) error

	// GetByMint returns the metadata for a mint, or ErrNotFound.
	GetByMint(ctx context.Context, mint string) (*Record, error)
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}
	if len(r.Mint) == 0 {
		return errors.New("mint is required")
	}
	if len(r.UpdateAuthority) == 0 {
		return errors.New("update authority is required")
	}
	if len(r.Name) == 0 {
		return errors.New("name is required")
	}
	if r.CreatorShare > 100 {
		return errors.New("creator share exceeds 100")
	}
	if r.SellerFeeBasisPoints > 10000 {
		return errors.New("seller fee exceeds 10000 basis points")
	}
	if r.IsCollection && len(r.Collection) > 0 {
		return errors.New("collections cannot belong to a collection")
	}
	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id:                   r.Id,
		Address:              r.Address,
		Mint:                 r.Mint,
		UpdateAuthority:      r.UpdateAuthority,
		Name:                 r.Name,
		Symbol:               r.Symbol,
		Uri:                  r.Uri,
		SellerFeeBasisPoints: r.SellerFeeBasisPoints,
		Creator:              r.Creator,
		CreatorShare:         r.CreatorShare,
		CreatorVerified:      r.CreatorVerified,
		Collection:           r.Collection,
		CollectionVerified:   r.CollectionVerified,
		IsCollection:         r.IsCollection,
		MasterEdition:        r.MasterEdition,
		IsMutable:            r.IsMutable,
		Version:              r.Version,
		CreatedAt:            r.CreatedAt,
		LastUpdatedAt:        r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id
	dst.Address = r.Address
	dst.Mint = r.Mint
	dst.UpdateAuthority = r.UpdateAuthority
	dst.Name = r.Name
	dst.Symbol = r.Symbol
	dst.Uri = r.Uri
	dst.SellerFeeBasisPoints = r.SellerFeeBasisPoints
	dst.Creator = r.Creator
	dst.CreatorShare = r.CreatorShare
	dst.CreatorVerified = r.CreatorVerified
	dst.Collection = r.Collection
	dst.CollectionVerified = r.CollectionVerified
	dst.IsCollection = r.IsCollection
	dst.MasterEdition = r.MasterEdition
	dst.IsMutable = r.IsMutable
	dst.Version = r.Version
	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}

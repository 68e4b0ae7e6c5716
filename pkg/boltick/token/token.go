package token

import (
	"context"

	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
)

var (
	ErrInsufficientBalance    = errors.New("insufficient token balance")
	ErrInvalidMintAuthority   = errors.New("signer is not the mint authority")
	ErrInvalidUpdateAuthority = errors.New("signer is not the update authority")
	ErrInvalidOwner           = errors.New("signer does not own the token account")
	ErrMintMismatch           = errors.New("token account belongs to another mint")
	ErrOwnerMismatch          = errors.New("token account belongs to another owner")
	ErrSupplyOverflow         = errors.New("token amount would overflow")
	ErrImmutableRecord        = errors.New("token record is immutable")
	ErrInvalidRecord          = errors.New("invalid token record")
)

type CreateMintArgs struct {
	Mint      string
	Authority string
	Decimals  uint8
}

// CreateRecordArgs describes the metadata record of a mint. The mint
// authority is also the update authority.
type CreateRecordArgs struct {
	Mint            string
	UpdateAuthority string

	Name   string
	Symbol string
	Uri    string

	SellerFeeBasisPoints uint16
	Creator              string
	CreatorShare         uint8
	CreatorVerified      bool

	Collection         string
	CollectionVerified bool
	IsCollection       bool

	IsMutable     bool
	MasterEdition bool
}

type MintArgs struct {
	Mint      string
	Authority string

	// Destination token account, opened for Owner when it doesn't exist
	Destination string
	Owner       string

	Amount uint64
}

type UpdateRecordArgs struct {
	Mint            string
	UpdateAuthority string

	Name   string
	Symbol string
	Uri    string
}

type TransferArgs struct {
	Source    string
	Authority string

	// Destination token account, opened for DestinationOwner when it doesn't
	// exist
	Destination      string
	DestinationOwner string

	Mint   string
	Amount uint64
}

// Issuer is the token minting and metadata capability programs invoke.
type Issuer interface {
	// CreateMint initializes a mint with zero supply
	CreateMint(ctx context.Context, args *CreateMintArgs) error

	// CreateRecord creates the metadata record, and optionally the master
	// edition, of an existing mint
	CreateRecord(ctx context.Context, args *CreateRecordArgs) (*metadata.Record, error)

	// Mint issues Amount new units of a mint into a token account. Only the
	// mint authority may mint.
	Mint(ctx context.Context, args *MintArgs) error

	// UpdateRecord rewrites the name, symbol and uri of a mutable record
	UpdateRecord(ctx context.Context, args *UpdateRecordArgs) (*metadata.Record, error)

	GetMint(ctx context.Context, mint string) (*token.MintRecord, error)
	GetRecord(ctx context.Context, mint string) (*metadata.Record, error)
}

// Custodian holds token balances.
type Custodian interface {
	// OpenAccount creates an empty token account. Opening an account that
	// already exists for the same owner and mint is a no-op.
	OpenAccount(ctx context.Context, address, owner, mint string) error

	// Transfer moves Amount units between token accounts of the same mint,
	// signed by the source owner
	Transfer(ctx context.Context, args *TransferArgs) error

	// GetBalance returns the units held by a token account, zero if it
	// doesn't exist
	GetBalance(ctx context.Context, address string) (uint64, error)

	GetAccount(ctx context.Context, address string) (*token.AccountRecord, error)
}

// Ledger is both halves of the token capability over a single store.
type Ledger interface {
	Issuer
	Custodian
}

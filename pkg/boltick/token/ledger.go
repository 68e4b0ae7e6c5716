package token

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
	metadata_program "github.com/franRappazzini/boltick-contracts/pkg/solana/metadata"
)

type ledger struct {
	log  *logrus.Entry
	data data.Provider
}

// NewLedger returns a Ledger persisting to the provider. Calls do not lock;
// callers hold the account locks and run inside a store transaction.
func NewLedger(data data.Provider) Ledger {
	return &ledger{
		log:  logrus.StandardLogger().WithField("type", "token/ledger"),
		data: data,
	}
}

func (l *ledger) CreateMint(ctx context.Context, args *CreateMintArgs) error {
	return l.data.CreateMint(ctx, &token.MintRecord{
		Address:       args.Mint,
		MintAuthority: args.Authority,
		Decimals:      args.Decimals,
	})
}

func (l *ledger) CreateRecord(ctx context.Context, args *CreateRecordArgs) (*metadata.Record, error) {
	if err := validateRecordFields(args.Name, args.Symbol, args.Uri); err != nil {
		return nil, err
	}

	mintRecord, err := l.data.GetMint(ctx, args.Mint)
	if err != nil {
		return nil, err
	}
	if mintRecord.MintAuthority != args.UpdateAuthority {
		return nil, ErrInvalidMintAuthority
	}

	mintAccount, err := common.NewAccountFromPublicKeyString(args.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mint address")
	}

	metadataAddress, err := metadata_program.GetMetadataAddress(mintAccount.ToBytes())
	if err != nil {
		return nil, errors.Wrap(err, "error deriving metadata address")
	}

	var masterEdition string
	if args.MasterEdition {
		address, err := metadata_program.GetMasterEditionAddress(mintAccount.ToBytes())
		if err != nil {
			return nil, errors.Wrap(err, "error deriving master edition address")
		}
		masterEdition = common.EncodeAddress(address)
	}

	record := &metadata.Record{
		Address:              common.EncodeAddress(metadataAddress),
		Mint:                 args.Mint,
		UpdateAuthority:      args.UpdateAuthority,
		Name:                 args.Name,
		Symbol:               args.Symbol,
		Uri:                  args.Uri,
		SellerFeeBasisPoints: args.SellerFeeBasisPoints,
		Creator:              args.Creator,
		CreatorShare:         args.CreatorShare,
		CreatorVerified:      args.CreatorVerified,
		Collection:           args.Collection,
		CollectionVerified:   args.CollectionVerified,
		IsCollection:         args.IsCollection,
		MasterEdition:        masterEdition,
		IsMutable:            args.IsMutable,
	}
	if err := record.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidRecord, err.Error())
	}

	if err := l.data.CreateTokenMetadata(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (l *ledger) Mint(ctx context.Context, args *MintArgs) error {
	mintRecord, err := l.data.GetMint(ctx, args.Mint)
	if err != nil {
		return err
	}
	if mintRecord.MintAuthority != args.Authority {
		return ErrInvalidMintAuthority
	}
	if mintRecord.Supply > math.MaxUint64-args.Amount {
		return ErrSupplyOverflow
	}

	destination, err := l.loadOrNewAccount(ctx, args.Destination, args.Owner, args.Mint)
	if err != nil {
		return err
	}
	if destination.Amount > math.MaxUint64-args.Amount {
		return ErrSupplyOverflow
	}

	destination.Amount += args.Amount
	if err := l.saveAccount(ctx, destination); err != nil {
		return err
	}

	mintRecord.Supply += args.Amount
	if err := l.data.UpdateMint(ctx, mintRecord); err != nil {
		return err
	}

	l.log.WithFields(logrus.Fields{
		"mint":        args.Mint,
		"destination": args.Destination,
		"amount":      args.Amount,
	}).Trace("tokens minted")
	return nil
}

func (l *ledger) UpdateRecord(ctx context.Context, args *UpdateRecordArgs) (*metadata.Record, error) {
	if err := validateRecordFields(args.Name, args.Symbol, args.Uri); err != nil {
		return nil, err
	}

	record, err := l.data.GetTokenMetadataByMint(ctx, args.Mint)
	if err != nil {
		return nil, err
	}
	if record.UpdateAuthority != args.UpdateAuthority {
		return nil, ErrInvalidUpdateAuthority
	}
	if !record.IsMutable {
		return nil, ErrImmutableRecord
	}

	record.Name = args.Name
	record.Symbol = args.Symbol
	record.Uri = args.Uri
	if err := l.data.UpdateTokenMetadata(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (l *ledger) GetMint(ctx context.Context, mint string) (*token.MintRecord, error) {
	return l.data.GetMint(ctx, mint)
}

func (l *ledger) GetRecord(ctx context.Context, mint string) (*metadata.Record, error) {
	return l.data.GetTokenMetadataByMint(ctx, mint)
}

func (l *ledger) OpenAccount(ctx context.Context, address, owner, mint string) error {
	if _, err := l.data.GetMint(ctx, mint); err != nil {
		return err
	}

	account, err := l.loadOrNewAccount(ctx, address, owner, mint)
	if err != nil {
		return err
	}
	if account.Version > 0 {
		return nil
	}
	return l.data.CreateTokenAccount(ctx, account)
}

func (l *ledger) Transfer(ctx context.Context, args *TransferArgs) error {
	source, err := l.data.GetTokenAccount(ctx, args.Source)
	if err == token.ErrAccountNotFound {
		return ErrInsufficientBalance
	} else if err != nil {
		return err
	}
	if source.Owner != args.Authority {
		return ErrInvalidOwner
	}
	if source.Mint != args.Mint {
		return ErrMintMismatch
	}
	if source.Amount < args.Amount {
		return ErrInsufficientBalance
	}

	if args.Source == args.Destination || args.Amount == 0 {
		return nil
	}

	destination, err := l.loadOrNewAccount(ctx, args.Destination, args.DestinationOwner, args.Mint)
	if err != nil {
		return err
	}
	if destination.Amount > math.MaxUint64-args.Amount {
		return ErrSupplyOverflow
	}

	source.Amount -= args.Amount
	if err := l.data.UpdateTokenAccount(ctx, source); err != nil {
		return err
	}

	destination.Amount += args.Amount
	if err := l.saveAccount(ctx, destination); err != nil {
		return err
	}

	l.log.WithFields(logrus.Fields{
		"mint":        args.Mint,
		"source":      args.Source,
		"destination": args.Destination,
		"amount":      args.Amount,
	}).Trace("tokens transferred")
	return nil
}

func (l *ledger) GetBalance(ctx context.Context, address string) (uint64, error) {
	account, err := l.data.GetTokenAccount(ctx, address)
	if err == token.ErrAccountNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return account.Amount, nil
}

func (l *ledger) GetAccount(ctx context.Context, address string) (*token.AccountRecord, error) {
	return l.data.GetTokenAccount(ctx, address)
}

// loadOrNewAccount returns the stored account, or an unsaved one with a zero
// version when it doesn't exist yet
func (l *ledger) loadOrNewAccount(ctx context.Context, address, owner, mint string) (*token.AccountRecord, error) {
	account, err := l.data.GetTokenAccount(ctx, address)
	switch err {
	case nil:
		if account.Mint != mint {
			return nil, ErrMintMismatch
		}
		if len(owner) > 0 && account.Owner != owner {
			return nil, ErrOwnerMismatch
		}
		return account, nil
	case token.ErrAccountNotFound:
		return &token.AccountRecord{
			Address: address,
			Owner:   owner,
			Mint:    mint,
		}, nil
	default:
		return nil, err
	}
}

func (l *ledger) saveAccount(ctx context.Context, account *token.AccountRecord) error {
	if account.Version == 0 {
		return l.data.CreateTokenAccount(ctx, account)
	}
	return l.data.UpdateTokenAccount(ctx, account)
}

func validateRecordFields(name, symbol, uri string) error {
	if len(name) == 0 || len(name) > metadata_program.MaxNameLength {
		return errors.Wrapf(ErrInvalidRecord, "name must be 1 to %d bytes", metadata_program.MaxNameLength)
	}
	if len(symbol) > metadata_program.MaxSymbolLength {
		return errors.Wrapf(ErrInvalidRecord, "symbol exceeds %d bytes", metadata_program.MaxSymbolLength)
	}
	if len(uri) > metadata_program.MaxUriLength {
		return errors.Wrapf(ErrInvalidRecord, "uri exceeds %d bytes", metadata_program.MaxUriLength)
	}
	return nil
}

package ticketing

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/balance"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticket"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig"
	token_data "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/eventlog"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/system"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/token"
	"github.com/franRappazzini/boltick-contracts/pkg/metrics"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/boltick"
	token_program "github.com/franRappazzini/boltick-contracts/pkg/solana/token"
)

const (
	metricsStructName = "ticketing.program"

	ticketIssuedEventName = "TicketIssued"
)

// Store errors raised when another invocation committed to the same account
// first
var staleErrors = []error{
	ticketconfig.ErrStaleVersion,
	ticketconfig.ErrExists,
	event.ErrStaleVersion,
	event.ErrExists,
	digitalaccess.ErrStaleVersion,
	digitalaccess.ErrExists,
	ticket.ErrExists,
	token_data.ErrStaleMintVersion,
	token_data.ErrMintExists,
	token_data.ErrStaleAccountVersion,
	token_data.ErrAccountExists,
	metadata.ErrStaleVersion,
	metadata.ErrExists,
	balance.ErrStaleVersion,
	balance.ErrExists,
}

// Program is the ticketing program: a singleton config, events with their
// collections, digital access tiers and the tickets minted under them.
type Program struct {
	log    *logrus.Entry
	conf   *conf
	data   data.Provider
	tokens token.Ledger
	bank   system.Bank
	locker *program.AccountLocker
	events eventlog.Emitter
	clock  program.Clock

	configAddress   string
	configBump      uint8
	treasuryAddress string
	treasuryBump    uint8
}

type Option func(*Program)

// WithClock overrides the clock used to date events
func WithClock(clock program.Clock) Option {
	return func(p *Program) {
		p.clock = clock
	}
}

func New(
	data data.Provider,
	tokens token.Ledger,
	bank system.Bank,
	locker *program.AccountLocker,
	events eventlog.Emitter,
	configProvider ConfigProvider,
	opts ...Option,
) (*Program, error) {
	configAddress, configBump, err := boltick.GetConfigAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving config address")
	}

	treasuryAddress, treasuryBump, err := boltick.GetTreasuryAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving treasury address")
	}

	p := &Program{
		log:             logrus.StandardLogger().WithField("type", "program/ticketing"),
		conf:            configProvider(),
		data:            data,
		tokens:          tokens,
		bank:            bank,
		locker:          locker,
		events:          events,
		clock:           program.SystemClock,
		configAddress:   common.EncodeAddress(configAddress),
		configBump:      configBump,
		treasuryAddress: common.EncodeAddress(treasuryAddress),
		treasuryBump:    treasuryBump,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Program) ConfigAddress() string {
	return p.configAddress
}

// InitializeConfig creates the program config with the signer as its
// authority. It can only succeed once.
func (p *Program) InitializeConfig(ctx context.Context, authority *common.Account) (*ticketconfig.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "InitializeConfig")
	defer tracer.End()

	log := p.log.WithFields(logrus.Fields{
		"method":    "InitializeConfig",
		"authority": authority.ToBase58(),
	})

	unlock := p.locker.Lock(p.configAddress)
	defer unlock()

	record := &ticketconfig.Record{
		Address:      p.configAddress,
		Authority:    authority.ToBase58(),
		Treasury:     p.treasuryAddress,
		TreasuryBump: p.treasuryBump,
		Bump:         p.configBump,
	}

	err := p.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		_, err := p.data.GetTicketingConfig(ctx, p.configAddress)
		switch err {
		case nil:
			return ErrAccountAlreadyInitialized
		case ticketconfig.ErrNotFound:
		default:
			return errors.Wrap(err, "error getting config")
		}

		return p.data.CreateTicketingConfig(ctx, record)
	})
	if err != nil {
		err = program.CheckStale(err, staleErrors...)
		tracer.OnError(err)
		log.WithError(err).Debug("config not initialized")
		return nil, err
	}

	log.Info("config initialized")
	p.emit(ctx, eventlog.TypeTicketingConfigInitialized, p.configAddress, record.Authority, map[string]string{
		"treasury": record.Treasury,
	})
	return record, nil
}

type InitializeEventArgs struct {
	Creator *common.Account

	// Name of the event and its collection
	Name   string
	Symbol string
	Uri    string

	Description string
}

// InitializeEvent creates an event at the next event id along with its
// collection: a mint with one unit held by the collection token account, an
// immutable metadata record and a master edition.
func (p *Program) InitializeEvent(ctx context.Context, args *InitializeEventArgs) (*event.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "InitializeEvent")
	defer tracer.End()

	log := p.log.WithFields(logrus.Fields{
		"method":  "InitializeEvent",
		"creator": args.Creator.ToBase58(),
	})

	if err := validateEventFields(args); err != nil {
		return nil, err
	}

	// The event id comes from the config, which serializes event creation
	unlock := p.locker.Lock(p.configAddress)
	defer unlock()

	var record *event.Record
	err := p.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		config, err := p.getConfig(ctx)
		if err != nil {
			return err
		}
		if config.EventCount == math.MaxUint64 {
			return ErrArithmeticOverflow
		}

		eventId := config.EventCount
		addresses, err := deriveEventAddresses(eventId)
		if err != nil {
			return err
		}

		eventAddress := common.EncodeAddress(addresses.event)
		collection := common.EncodeAddress(addresses.collection)
		collectionTokenAccount := common.EncodeAddress(addresses.collectionTokenAccount)

		if err := p.checkEventAbsent(ctx, eventAddress, collection); err != nil {
			return err
		}

		if err := p.tokens.CreateMint(ctx, &token.CreateMintArgs{
			Mint:      collection,
			Authority: collection,
			Decimals:  token_program.NonFungibleDecimals,
		}); err != nil {
			return errors.Wrap(err, "error creating collection mint")
		}

		if err := p.tokens.Mint(ctx, &token.MintArgs{
			Mint:        collection,
			Authority:   collection,
			Destination: collectionTokenAccount,
			Owner:       collection,
			Amount:      1,
		}); err != nil {
			return errors.Wrap(err, "error minting collection")
		}

		if _, err := p.tokens.CreateRecord(ctx, &token.CreateRecordArgs{
			Mint:            collection,
			UpdateAuthority: collection,
			Name:            args.Name,
			Symbol:          args.Symbol,
			Uri:             args.Uri,
			Creator:         collection,
			CreatorShare:    100,
			CreatorVerified: true,
			IsCollection:    true,
			IsMutable:       false,
			MasterEdition:   true,
		}); err != nil {
			return errors.Wrap(err, "error creating collection record")
		}

		record = &event.Record{
			Address:        eventAddress,
			EventId:        eventId,
			Creator:        args.Creator.ToBase58(),
			CollectionMint: collection,
			Name:           args.Name,
			Description:    args.Description,
			Date:           p.clock(),
			Bump:           addresses.eventBump,
		}
		if err := p.data.CreateEvent(ctx, record); err != nil {
			return errors.Wrap(err, "error creating event")
		}

		config.EventCount++
		return p.data.UpdateTicketingConfig(ctx, config)
	})
	if err != nil {
		err = program.CheckStale(err, staleErrors...)
		tracer.OnError(err)
		log.WithError(err).Debug("event not initialized")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"event_id": record.EventId,
		"event":    record.Address,
	}).Info("event initialized")
	p.emit(ctx, eventlog.TypeEventInitialized, record.Address, record.Creator, map[string]string{
		"event_id":        strconv.FormatUint(record.EventId, 10),
		"collection_mint": record.CollectionMint,
		"name":            record.Name,
	})
	return record, nil
}

type AddDigitalAccessArgs struct {
	Creator *common.Account
	EventId uint64

	Price     uint64
	MaxSupply uint64

	Name        string
	Symbol      string
	Description string
	Uri         string
}

// AddDigitalAccess adds the next access tier to an event. Only the event
// creator may add tiers.
func (p *Program) AddDigitalAccess(ctx context.Context, args *AddDigitalAccessArgs) (*digitalaccess.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "AddDigitalAccess")
	defer tracer.End()

	log := p.log.WithFields(logrus.Fields{
		"method":   "AddDigitalAccess",
		"creator":  args.Creator.ToBase58(),
		"event_id": args.EventId,
	})

	if err := validateDigitalAccessFields(args); err != nil {
		return nil, err
	}

	addresses, err := deriveEventAddresses(args.EventId)
	if err != nil {
		return nil, err
	}
	eventAddress := common.EncodeAddress(addresses.event)

	// Tier ids come from the event, which serializes tier creation
	unlock := p.locker.Lock(eventAddress)
	defer unlock()

	var record *digitalaccess.Record
	err = p.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		eventRecord, err := p.getEvent(ctx, args.EventId, addresses)
		if err != nil {
			return err
		}
		if eventRecord.Creator != args.Creator.ToBase58() {
			return ErrInvalidCreator
		}
		if eventRecord.CurrentDigitalAccessCount == math.MaxUint8 {
			return ErrArithmeticOverflow
		}

		accessId := eventRecord.CurrentDigitalAccessCount
		address, bump, err := deriveDigitalAccessAddress(addresses.event, accessId)
		if err != nil {
			return err
		}
		encoded := common.EncodeAddress(address)

		_, err = p.data.GetDigitalAccess(ctx, encoded)
		switch err {
		case nil:
			return ErrAccountAlreadyInitialized
		case digitalaccess.ErrNotFound:
		default:
			return errors.Wrap(err, "error getting digital access")
		}

		record = &digitalaccess.Record{
			Address:     encoded,
			Event:       eventAddress,
			AccessId:    accessId,
			Price:       args.Price,
			MaxSupply:   args.MaxSupply,
			Name:        args.Name,
			Symbol:      args.Symbol,
			Description: args.Description,
			Uri:         args.Uri,
			Bump:        bump,
		}
		if err := p.data.CreateDigitalAccess(ctx, record); err != nil {
			return errors.Wrap(err, "error creating digital access")
		}

		eventRecord.CurrentDigitalAccessCount++
		return p.data.UpdateEvent(ctx, eventRecord)
	})
	if err != nil {
		err = program.CheckStale(err, staleErrors...)
		tracer.OnError(err)
		log.WithError(err).Debug("digital access not added")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"access_id":  record.AccessId,
		"price":      record.Price,
		"max_supply": record.MaxSupply,
	}).Info("digital access added")
	p.emit(ctx, eventlog.TypeDigitalAccessAdded, record.Address, args.Creator.ToBase58(), map[string]string{
		"event":      record.Event,
		"access_id":  strconv.Itoa(int(record.AccessId)),
		"price":      strconv.FormatUint(record.Price, 10),
		"max_supply": strconv.FormatUint(record.MaxSupply, 10),
	})
	return record, nil
}

type MintTokenArgs struct {
	Authority *common.Account

	EventId         uint64
	DigitalAccessId uint8

	Destination *common.Account
}

// MintToken issues a ticket to the destination without payment. Only the
// config authority may mint on this path.
func (p *Program) MintToken(ctx context.Context, args *MintTokenArgs) (*ticket.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "MintToken")
	defer tracer.End()

	record, err := p.issue(ctx, &issueRequest{
		method:          "MintToken",
		signer:          args.Authority,
		eventId:         args.EventId,
		digitalAccessId: args.DigitalAccessId,
		owner:           args.Destination,
	})
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	p.emit(ctx, eventlog.TypeTicketMinted, record.Mint, args.Authority.ToBase58(), ticketAttributes(record))
	return record, nil
}

type BuyTokenArgs struct {
	Buyer *common.Account

	EventId         uint64
	DigitalAccessId uint8

	// Must be the event's creator, who receives the price
	EventCreator *common.Account
}

// BuyToken issues a ticket to the buyer after moving the tier price from the
// buyer to the event creator.
func (p *Program) BuyToken(ctx context.Context, args *BuyTokenArgs) (*ticket.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "BuyToken")
	defer tracer.End()

	record, err := p.issue(ctx, &issueRequest{
		method:          "BuyToken",
		signer:          args.Buyer,
		eventId:         args.EventId,
		digitalAccessId: args.DigitalAccessId,
		owner:           args.Buyer,
		eventCreator:    args.EventCreator,
		paid:            true,
	})
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	p.emit(ctx, eventlog.TypeTicketBought, record.Mint, args.Buyer.ToBase58(), ticketAttributes(record))
	return record, nil
}

type issueRequest struct {
	method string

	signer          *common.Account
	eventId         uint64
	digitalAccessId uint8
	owner           *common.Account

	// Paid path only
	eventCreator *common.Account
	paid         bool
}

func (p *Program) issue(ctx context.Context, req *issueRequest) (*ticket.Record, error) {
	log := p.log.WithFields(logrus.Fields{
		"method":            req.method,
		"signer":            req.signer.ToBase58(),
		"event_id":          req.eventId,
		"digital_access_id": req.digitalAccessId,
	})

	addresses, err := deriveEventAddresses(req.eventId)
	if err != nil {
		return nil, err
	}
	accessAddress, _, err := deriveDigitalAccessAddress(addresses.event, req.digitalAccessId)
	if err != nil {
		return nil, err
	}

	eventAddress := common.EncodeAddress(addresses.event)
	digitalAccessAddress := common.EncodeAddress(accessAddress)
	collection := common.EncodeAddress(addresses.collection)
	owner := req.owner.ToBase58()

	lockSet := []string{eventAddress, digitalAccessAddress}
	if req.paid {
		lockSet = append(lockSet, req.signer.ToBase58(), req.eventCreator.ToBase58())
	}
	unlock := p.locker.Lock(lockSet...)
	defer unlock()

	var record *ticket.Record
	err = p.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		config, err := p.getConfig(ctx)
		if err != nil {
			return err
		}

		eventRecord, err := p.getEvent(ctx, req.eventId, addresses)
		if err != nil {
			return err
		}

		tier, err := p.getDigitalAccess(ctx, addresses.event, digitalAccessAddress)
		if err != nil {
			return err
		}
		if tier.Event != eventRecord.Address {
			return ErrAccountMismatch
		}

		if req.paid {
			if req.eventCreator.ToBase58() != eventRecord.Creator {
				return ErrInvalidCreator
			}
		} else {
			if req.signer.ToBase58() != config.Authority {
				return ErrInvalidAuthority
			}
			if tier.Price > 0 && !p.conf.allowPaidTierAuthorityMint.Get(ctx) {
				return errors.Wrap(ErrInvalidArgument, "digital access requires payment")
			}
		}

		if tier.CurrentMinted >= tier.MaxSupply {
			return ErrMaxSupplyReached
		}
		if eventRecord.CurrentNftCount == math.MaxUint64 {
			return ErrArithmeticOverflow
		}

		nftId := eventRecord.CurrentNftCount
		ticketAddrs, err := deriveTicketAddresses(addresses.collection, nftId, req.owner.ToBytes())
		if err != nil {
			return err
		}
		mint := common.EncodeAddress(ticketAddrs.mint)
		tokenAccount := common.EncodeAddress(ticketAddrs.tokenAccount)

		_, err = p.tokens.GetMint(ctx, mint)
		switch err {
		case nil:
			return ErrAccountAlreadyInitialized
		case token_data.ErrMintNotFound:
		default:
			return errors.Wrap(err, "error getting token mint")
		}

		var price uint64
		if req.paid {
			price = tier.Price

			available, err := p.bank.GetBalance(ctx, req.signer.ToBase58())
			if err != nil {
				return errors.Wrap(err, "error getting buyer balance")
			}
			if available < price {
				return ErrInsufficientFunds
			}

			err = p.bank.Transfer(ctx, req.signer.ToBase58(), eventRecord.Creator, price)
			switch err {
			case nil:
			case system.ErrInsufficientFunds:
				return ErrInsufficientFunds
			case system.ErrBalanceOverflow:
				return ErrArithmeticOverflow
			default:
				return errors.Wrap(err, "error paying event creator")
			}
		}

		if err := p.tokens.CreateMint(ctx, &token.CreateMintArgs{
			Mint:      mint,
			Authority: collection,
			Decimals:  token_program.NonFungibleDecimals,
		}); err != nil {
			return errors.Wrap(err, "error creating token mint")
		}

		if err := p.tokens.Mint(ctx, &token.MintArgs{
			Mint:        mint,
			Authority:   collection,
			Destination: tokenAccount,
			Owner:       owner,
			Amount:      1,
		}); err != nil {
			return errors.Wrap(err, "error minting ticket")
		}

		metadataRecord, err := p.tokens.CreateRecord(ctx, &token.CreateRecordArgs{
			Mint:               mint,
			UpdateAuthority:    collection,
			Name:               ticketName(tier.Name, nftId),
			Symbol:             tier.Symbol,
			Uri:                tier.Uri,
			Creator:            collection,
			CreatorShare:       100,
			CreatorVerified:    true,
			Collection:         collection,
			CollectionVerified: true,
			IsMutable:          true,
			MasterEdition:      true,
		})
		if err != nil {
			return errors.Wrap(err, "error creating ticket record")
		}

		tier.CurrentMinted++
		if err := p.data.UpdateDigitalAccess(ctx, tier); err != nil {
			return errors.Wrap(err, "error updating digital access")
		}

		eventRecord.CurrentNftCount++
		if err := p.data.UpdateEvent(ctx, eventRecord); err != nil {
			return errors.Wrap(err, "error updating event")
		}

		record = &ticket.Record{
			Event:         eventRecord.Address,
			NftId:         nftId,
			DigitalAccess: tier.Address,
			AccessId:      tier.AccessId,
			Mint:          mint,
			Metadata:      metadataRecord.Address,
			Owner:         owner,
			TokenAccount:  tokenAccount,
			Price:         price,
		}
		return p.data.CreateTicket(ctx, record)
	})
	if err != nil {
		err = program.CheckStale(err, staleErrors...)
		log.WithError(err).Debug("ticket not issued")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"nft_id": record.NftId,
		"mint":   record.Mint,
		"owner":  record.Owner,
		"price":  record.Price,
	}).Info("ticket issued")

	metrics.RecordEvent(ctx, ticketIssuedEventName, map[string]interface{}{
		"event_id":          req.eventId,
		"digital_access_id": req.digitalAccessId,
		"nft_id":            record.NftId,
		"price":             record.Price,
		"paid":              req.paid,
	})

	return record, nil
}

type UpdateTokenMetadataArgs struct {
	Creator *common.Account

	EventId uint64
	NftId   uint64

	Name   string
	Symbol string
	Uri    string
}

// UpdateTokenMetadata rewrites the metadata record of an issued ticket. The
// stored name is "<name> #<nft id>". Only the event creator may update.
func (p *Program) UpdateTokenMetadata(ctx context.Context, args *UpdateTokenMetadataArgs) (*metadata.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "UpdateTokenMetadata")
	defer tracer.End()

	log := p.log.WithFields(logrus.Fields{
		"method":   "UpdateTokenMetadata",
		"creator":  args.Creator.ToBase58(),
		"event_id": args.EventId,
		"nft_id":   args.NftId,
	})

	if len(args.Name) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "name is required")
	}
	if len(args.Symbol) > boltick.MaxAccessSymbolLength {
		return nil, errors.Wrapf(ErrInvalidArgument, "symbol exceeds %d bytes", boltick.MaxAccessSymbolLength)
	}
	if len(args.Uri) > boltick.MaxAccessUriLength {
		return nil, errors.Wrapf(ErrInvalidArgument, "uri exceeds %d bytes", boltick.MaxAccessUriLength)
	}

	addresses, err := deriveEventAddresses(args.EventId)
	if err != nil {
		return nil, err
	}
	ticketAddrs, err := deriveTicketAddresses(addresses.collection, args.NftId, nil)
	if err != nil {
		return nil, err
	}
	mint := common.EncodeAddress(ticketAddrs.mint)

	unlock := p.locker.Lock(mint)
	defer unlock()

	var updated *metadata.Record
	err = p.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		eventRecord, err := p.getEvent(ctx, args.EventId, addresses)
		if err != nil {
			return err
		}
		if eventRecord.Creator != args.Creator.ToBase58() {
			return ErrInvalidCreator
		}

		issued, err := p.data.GetTicket(ctx, eventRecord.Address, args.NftId)
		if err == ticket.ErrNotFound {
			return errors.Wrap(ErrAccountNotInitialized, "ticket")
		} else if err != nil {
			return errors.Wrap(err, "error getting ticket")
		}
		if issued.Mint != mint {
			return ErrAccountMismatch
		}

		updated, err = p.tokens.UpdateRecord(ctx, &token.UpdateRecordArgs{
			Mint:            mint,
			UpdateAuthority: eventRecord.CollectionMint,
			Name:            ticketName(args.Name, args.NftId),
			Symbol:          args.Symbol,
			Uri:             args.Uri,
		})
		switch errors.Cause(err) {
		case nil:
			return nil
		case token.ErrInvalidUpdateAuthority:
			return ErrAccountMismatch
		case metadata.ErrNotFound:
			return errors.Wrap(ErrAccountNotInitialized, "token metadata")
		default:
			return errors.Wrap(err, "error updating token record")
		}
	})
	if err != nil {
		err = program.CheckStale(err, staleErrors...)
		tracer.OnError(err)
		log.WithError(err).Debug("token metadata not updated")
		return nil, err
	}

	log.Info("token metadata updated")
	p.emit(ctx, eventlog.TypeTicketMetadataUpdated, mint, args.Creator.ToBase58(), map[string]string{
		"event_id": strconv.FormatUint(args.EventId, 10),
		"nft_id":   strconv.FormatUint(args.NftId, 10),
		"name":     updated.Name,
	})
	return updated, nil
}

func (p *Program) getConfig(ctx context.Context) (*ticketconfig.Record, error) {
	config, err := p.data.GetTicketingConfig(ctx, p.configAddress)
	if err == ticketconfig.ErrNotFound {
		return nil, errors.Wrap(ErrAccountNotInitialized, "config")
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting config")
	}
	return config, nil
}

// getEvent loads the event at its derived address and checks it against its
// seeds and collection
func (p *Program) getEvent(ctx context.Context, eventId uint64, addresses *eventAddresses) (*event.Record, error) {
	record, err := p.data.GetEvent(ctx, common.EncodeAddress(addresses.event))
	if err == event.ErrNotFound {
		return nil, errors.Wrap(ErrAccountNotInitialized, "event")
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting event")
	}

	if record.EventId != eventId {
		return nil, ErrAccountMismatch
	}
	err = verifyStoredAddress(record.Address, func(address ed25519.PublicKey) error {
		return boltick.VerifyEventAddress(address, record.Bump, eventId)
	})
	if err != nil {
		return nil, err
	}
	if record.CollectionMint != common.EncodeAddress(addresses.collection) {
		return nil, ErrAccountMismatch
	}
	return record, nil
}

func (p *Program) getDigitalAccess(ctx context.Context, event ed25519.PublicKey, address string) (*digitalaccess.Record, error) {
	record, err := p.data.GetDigitalAccess(ctx, address)
	if err == digitalaccess.ErrNotFound {
		return nil, errors.Wrap(ErrAccountNotInitialized, "digital access")
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting digital access")
	}

	err = verifyStoredAddress(record.Address, func(stored ed25519.PublicKey) error {
		return boltick.VerifyDigitalAccessAddress(stored, record.Bump, event, record.AccessId)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (p *Program) checkEventAbsent(ctx context.Context, eventAddress, collection string) error {
	_, err := p.data.GetEvent(ctx, eventAddress)
	switch err {
	case nil:
		return ErrAccountAlreadyInitialized
	case event.ErrNotFound:
	default:
		return errors.Wrap(err, "error getting event")
	}

	_, err = p.tokens.GetMint(ctx, collection)
	switch err {
	case nil:
		return ErrAccountAlreadyInitialized
	case token_data.ErrMintNotFound:
		return nil
	default:
		return errors.Wrap(err, "error getting collection mint")
	}
}

// emit publishes a committed transition. Delivery failures are logged since
// the invocation has already committed.
func (p *Program) emit(ctx context.Context, eventType eventlog.Type, account, signer string, attributes map[string]string) {
	err := p.events.Emit(ctx, eventlog.NewEvent(eventType, account, signer, attributes, p.clock()))
	if err != nil {
		p.log.WithError(err).WithField("event_type", eventType).Warn("failure emitting program event")
	}
}

func ticketAttributes(record *ticket.Record) map[string]string {
	return map[string]string{
		"event":          record.Event,
		"nft_id":         strconv.FormatUint(record.NftId, 10),
		"digital_access": record.DigitalAccess,
		"owner":          record.Owner,
		"price":          strconv.FormatUint(record.Price, 10),
	}
}

func validateEventFields(args *InitializeEventArgs) error {
	if len(args.Name) == 0 {
		return errors.Wrap(ErrInvalidArgument, "name is required")
	}
	if len(args.Name) > boltick.MaxEventNameLength {
		return errors.Wrapf(ErrInvalidArgument, "name exceeds %d bytes", boltick.MaxEventNameLength)
	}
	if len(args.Symbol) > boltick.MaxAccessSymbolLength {
		return errors.Wrapf(ErrInvalidArgument, "symbol exceeds %d bytes", boltick.MaxAccessSymbolLength)
	}
	if len(args.Uri) > boltick.MaxAccessUriLength {
		return errors.Wrapf(ErrInvalidArgument, "uri exceeds %d bytes", boltick.MaxAccessUriLength)
	}
	if len(args.Description) > boltick.MaxEventDescriptionLength {
		return errors.Wrapf(ErrInvalidArgument, "description exceeds %d bytes", boltick.MaxEventDescriptionLength)
	}
	return nil
}

func validateDigitalAccessFields(args *AddDigitalAccessArgs) error {
	if args.MaxSupply == 0 {
		return errors.Wrap(ErrInvalidArgument, "max supply must be at least 1")
	}
	if len(args.Name) == 0 {
		return errors.Wrap(ErrInvalidArgument, "name is required")
	}
	if len(args.Name) > boltick.MaxAccessNameLength {
		return errors.Wrapf(ErrInvalidArgument, "name exceeds %d bytes", boltick.MaxAccessNameLength)
	}
	if len(args.Symbol) > boltick.MaxAccessSymbolLength {
		return errors.Wrapf(ErrInvalidArgument, "symbol exceeds %d bytes", boltick.MaxAccessSymbolLength)
	}
	if len(args.Description) > boltick.MaxAccessDescriptionLength {
		return errors.Wrapf(ErrInvalidArgument, "description exceeds %d bytes", boltick.MaxAccessDescriptionLength)
	}
	if len(args.Uri) > boltick.MaxAccessUriLength {
		return errors.Wrapf(ErrInvalidArgument, "uri exceeds %d bytes", boltick.MaxAccessUriLength)
	}
	return nil
}

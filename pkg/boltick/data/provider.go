package data

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/balance"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticket"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
	pg "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"

	balance_memory_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/balance/memory"
	balance_postgres_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/balance/postgres"
	digitalaccess_memory_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess/memory"
	digitalaccess_postgres_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess/postgres"
	event_memory_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event/memory"
	event_postgres_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event/postgres"
	metadata_memory_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata/memory"
	metadata_postgres_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata/postgres"
	stake_memory_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake/memory"
	stake_postgres_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake/postgres"
	ticket_memory_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticket/memory"
	ticket_postgres_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticket/postgres"
	ticketconfig_memory_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig/memory"
	ticketconfig_postgres_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig/postgres"
	token_memory_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token/memory"
	token_postgres_client "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token/postgres"
)

// Provider is every account store the programs persist to.
type Provider interface {
	// Ticketing Config
	// --------------------------------------------------------------------------------
	CreateTicketingConfig(ctx context.Context, record *ticketconfig.Record) error
	UpdateTicketingConfig(ctx context.Context, record *ticketconfig.Record) error
	GetTicketingConfig(ctx context.Context, address string) (*ticketconfig.Record, error)

	// Events
	// --------------------------------------------------------------------------------
	CreateEvent(ctx context.Context, record *event.Record) error
	UpdateEvent(ctx context.Context, record *event.Record) error
	GetEvent(ctx context.Context, address string) (*event.Record, error)
	GetEventByEventId(ctx context.Context, eventId uint64) (*event.Record, error)
	GetAllEventsByCreator(ctx context.Context, creator string, opts ...query.Option) ([]*event.Record, error)

	// Digital Access
	// --------------------------------------------------------------------------------
	CreateDigitalAccess(ctx context.Context, record *digitalaccess.Record) error
	UpdateDigitalAccess(ctx context.Context, record *digitalaccess.Record) error
	GetDigitalAccess(ctx context.Context, address string) (*digitalaccess.Record, error)
	GetAllDigitalAccessByEvent(ctx context.Context, event string) ([]*digitalaccess.Record, error)

	// Tickets
	// --------------------------------------------------------------------------------
	CreateTicket(ctx context.Context, record *ticket.Record) error
	GetTicket(ctx context.Context, event string, nftId uint64) (*ticket.Record, error)
	GetTicketByMint(ctx context.Context, mint string) (*ticket.Record, error)
	GetAllTicketsByOwner(ctx context.Context, owner string, opts ...query.Option) ([]*ticket.Record, error)
	CountTicketsByDigitalAccess(ctx context.Context, digitalAccess string) (uint64, error)
	CountTicketsByEvent(ctx context.Context, event string) (uint64, error)

	// Token Ledger
	// --------------------------------------------------------------------------------
	CreateMint(ctx context.Context, record *token.MintRecord) error
	UpdateMint(ctx context.Context, record *token.MintRecord) error
	GetMint(ctx context.Context, address string) (*token.MintRecord, error)
	CreateTokenAccount(ctx context.Context, record *token.AccountRecord) error
	UpdateTokenAccount(ctx context.Context, record *token.AccountRecord) error
	GetTokenAccount(ctx context.Context, address string) (*token.AccountRecord, error)
	GetTokenAccountsByOwner(ctx context.Context, owner string) ([]*token.AccountRecord, error)

	// Token Metadata
	// --------------------------------------------------------------------------------
	CreateTokenMetadata(ctx context.Context, record *metadata.Record) error
	UpdateTokenMetadata(ctx context.Context, record *metadata.Record) error
	GetTokenMetadataByMint(ctx context.Context, mint string) (*metadata.Record, error)

	// Lamport Balances
	// --------------------------------------------------------------------------------
	CreateLamportBalance(ctx context.Context, record *balance.Record) error
	UpdateLamportBalance(ctx context.Context, record *balance.Record) error
	GetLamportBalance(ctx context.Context, account string) (*balance.Record, error)

	// Staking
	// --------------------------------------------------------------------------------
	CreateStakingConfig(ctx context.Context, record *stake.ConfigRecord) error
	UpdateStakingConfig(ctx context.Context, record *stake.ConfigRecord) error
	GetStakingConfig(ctx context.Context, address string) (*stake.ConfigRecord, error)
	CreateStakePosition(ctx context.Context, record *stake.PositionRecord) error
	UpdateStakePosition(ctx context.Context, record *stake.PositionRecord) error
	GetStakePosition(ctx context.Context, address string) (*stake.PositionRecord, error)
	GetAllStakePositions(ctx context.Context, opts ...query.Option) ([]*stake.PositionRecord, error)
	SumStakePositionAmounts(ctx context.Context) (uint64, error)

	// ExecuteInTx executes fn with a single DB transaction that is scoped to the call.
	// Every store joins the transaction carried by the context, so fn either
	// commits entirely or not at all. The memory provider runs one transaction
	// at a time and restores every store when fn fails. Writes made outside a
	// transaction are not protected from that restore.
	ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error
}

type provider struct {
	ticketingConfigs ticketconfig.Store
	events           event.Store
	digitalAccess    digitalaccess.Store
	tickets          ticket.Store
	tokens           token.Store
	metadata         metadata.Store
	balances         balance.Store
	stakes           stake.Store

	db *sqlx.DB

	memoryTxMu sync.Mutex
}

// snapshotter is implemented by the in-memory stores
type snapshotter interface {
	Snapshot() (restore func())
}

type memoryTxContextKey struct{}

// NewDataProvider connects to Postgres and returns a provider backed by it
func NewDataProvider(dbConfig *pg.Config) (Provider, error) {
	db, err := pg.New(dbConfig)
	if err != nil {
		return nil, err
	}

	return NewDataProviderFromDB(db), nil
}

// NewDataProviderFromDB returns a Postgres backed provider over an existing
// connection pool
func NewDataProviderFromDB(db *sql.DB) Provider {
	return &provider{
		ticketingConfigs: ticketconfig_postgres_client.New(db),
		events:           event_postgres_client.New(db),
		digitalAccess:    digitalaccess_postgres_client.New(db),
		tickets:          ticket_postgres_client.New(db),
		tokens:           token_postgres_client.New(db),
		metadata:         metadata_postgres_client.New(db),
		balances:         balance_postgres_client.New(db),
		stakes:           stake_postgres_client.New(db),

		db: sqlx.NewDb(db, "pgx"),
	}
}

func NewTestDataProvider() Provider {
	return &provider{
		ticketingConfigs: ticketconfig_memory_client.New(),
		events:           event_memory_client.New(),
		digitalAccess:    digitalaccess_memory_client.New(),
		tickets:          ticket_memory_client.New(),
		tokens:           token_memory_client.New(),
		metadata:         metadata_memory_client.New(),
		balances:         balance_memory_client.New(),
		stakes:           stake_memory_client.New(),
	}
}

func (p *provider) ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error {
	if p.db == nil {
		return p.executeInMemoryTx(ctx, fn)
	}

	return pg.ExecuteTxWithinCtx(ctx, p.db, isolation, fn)
}

func (p *provider) executeInMemoryTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memoryTxContextKey{}) != nil {
		return pg.ErrAlreadyInTx
	}

	p.memoryTxMu.Lock()
	defer p.memoryTxMu.Unlock()

	var restores []func()
	for _, store := range []any{
		p.ticketingConfigs,
		p.events,
		p.digitalAccess,
		p.tickets,
		p.tokens,
		p.metadata,
		p.balances,
		p.stakes,
	} {
		if s, ok := store.(snapshotter); ok {
			restores = append(restores, s.Snapshot())
		}
	}

	if err := fn(context.WithValue(ctx, memoryTxContextKey{}, true)); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// Ticketing Config
// --------------------------------------------------------------------------------
func (p *provider) CreateTicketingConfig(ctx context.Context, record *ticketconfig.Record) error {
	return p.ticketingConfigs.Put(ctx, record)
}
func (p *provider) UpdateTicketingConfig(ctx context.Context, record *ticketconfig.Record) error {
	return p.ticketingConfigs.Update(ctx, record)
}
func (p *provider) GetTicketingConfig(ctx context.Context, address string) (*ticketconfig.Record, error) {
	return p.ticketingConfigs.Get(ctx, address)
}

// Events
// --------------------------------------------------------------------------------
func (p *provider) CreateEvent(ctx context.Context, record *event.Record) error {
	return p.events.Put(ctx, record)
}
func (p *provider) UpdateEvent(ctx context.Context, record *event.Record) error {
	return p.events.Update(ctx, record)
}
func (p *provider) GetEvent(ctx context.Context, address string) (*event.Record, error) {
	return p.events.Get(ctx, address)
}
func (p *provider) GetEventByEventId(ctx context.Context, eventId uint64) (*event.Record, error) {
	return p.events.GetByEventId(ctx, eventId)
}
func (p *provider) GetAllEventsByCreator(ctx context.Context, creator string, opts ...query.Option) ([]*event.Record, error) {
	req, err := query.DefaultPaginationHandler(opts...)
	if err != nil {
		return nil, err
	}
	return p.events.GetAllByCreator(ctx, creator, req.Cursor, req.Limit, req.SortBy)
}

// Digital Access
// --------------------------------------------------------------------------------
func (p *provider) CreateDigitalAccess(ctx context.Context, record *digitalaccess.Record) error {
	return p.digitalAccess.Put(ctx, record)
}
func (p *provider) UpdateDigitalAccess(ctx context.Context, record *digitalaccess.Record) error {
	return p.digitalAccess.Update(ctx, record)
}
func (p *provider) GetDigitalAccess(ctx context.Context, address string) (*digitalaccess.Record, error) {
	return p.digitalAccess.Get(ctx, address)
}
func (p *provider) GetAllDigitalAccessByEvent(ctx context.Context, event string) ([]*digitalaccess.Record, error) {
	return p.digitalAccess.GetAllByEvent(ctx, event)
}

// Tickets
// --------------------------------------------------------------------------------
func (p *provider) CreateTicket(ctx context.Context, record *ticket.Record) error {
	return p.tickets.Put(ctx, record)
}
func (p *provider) GetTicket(ctx context.Context, event string, nftId uint64) (*ticket.Record, error) {
	return p.tickets.Get(ctx, event, nftId)
}
func (p *provider) GetTicketByMint(ctx context.Context, mint string) (*ticket.Record, error) {
	return p.tickets.GetByMint(ctx, mint)
}
func (p *provider) GetAllTicketsByOwner(ctx context.Context, owner string, opts ...query.Option) ([]*ticket.Record, error) {
	req, err := query.DefaultPaginationHandler(opts...)
	if err != nil {
		return nil, err
	}
	return p.tickets.GetAllByOwner(ctx, owner, req.Cursor, req.Limit, req.SortBy)
}
func (p *provider) CountTicketsByDigitalAccess(ctx context.Context, digitalAccess string) (uint64, error) {
	return p.tickets.CountByDigitalAccess(ctx, digitalAccess)
}
func (p *provider) CountTicketsByEvent(ctx context.Context, event string) (uint64, error) {
	return p.tickets.CountByEvent(ctx, event)
}

// Token Ledger
// --------------------------------------------------------------------------------
func (p *provider) CreateMint(ctx context.Context, record *token.MintRecord) error {
	return p.tokens.PutMint(ctx, record)
}
func (p *provider) UpdateMint(ctx context.Context, record *token.MintRecord) error {
	return p.tokens.UpdateMint(ctx, record)
}
func (p *provider) GetMint(ctx context.Context, address string) (*token.MintRecord, error) {
	return p.tokens.GetMint(ctx, address)
}
func (p *provider) CreateTokenAccount(ctx context.Context, record *token.AccountRecord) error {
	return p.tokens.PutAccount(ctx, record)
}
func (p *provider) UpdateTokenAccount(ctx context.Context, record *token.AccountRecord) error {
	return p.tokens.UpdateAccount(ctx, record)
}
func (p *provider) GetTokenAccount(ctx context.Context, address string) (*token.AccountRecord, error) {
	return p.tokens.GetAccount(ctx, address)
}
func (p *provider) GetTokenAccountsByOwner(ctx context.Context, owner string) ([]*token.AccountRecord, error) {
	return p.tokens.GetAccountsByOwner(ctx, owner)
}

// Token Metadata
// --------------------------------------------------------------------------------
func (p *provider) CreateTokenMetadata(ctx context.Context, record *metadata.Record) error {
	return p.metadata.Put(ctx, record)
}
func (p *provider) UpdateTokenMetadata(ctx context.Context, record *metadata.Record) error {
	return p.metadata.Update(ctx, record)
}
func (p *provider) GetTokenMetadataByMint(ctx context.Context, mint string) (*metadata.Record, error) {
	return p.metadata.GetByMint(ctx, mint)
}

// Lamport Balances
// --------------------------------------------------------------------------------
func (p *provider) CreateLamportBalance(ctx context.Context, record *balance.Record) error {
	return p.balances.Put(ctx, record)
}
func (p *provider) UpdateLamportBalance(ctx context.Context, record *balance.Record) error {
	return p.balances.Update(ctx, record)
}
func (p *provider) GetLamportBalance(ctx context.Context, account string) (*balance.Record, error) {
	return p.balances.Get(ctx, account)
}

// Staking
// --------------------------------------------------------------------------------
func (p *provider) CreateStakingConfig(ctx context.Context, record *stake.ConfigRecord) error {
	return p.stakes.PutConfig(ctx, record)
}
func (p *provider) UpdateStakingConfig(ctx context.Context, record *stake.ConfigRecord) error {
	return p.stakes.UpdateConfig(ctx, record)
}
func (p *provider) GetStakingConfig(ctx context.Context, address string) (*stake.ConfigRecord, error) {
	return p.stakes.GetConfig(ctx, address)
}
func (p *provider) CreateStakePosition(ctx context.Context, record *stake.PositionRecord) error {
	return p.stakes.PutPosition(ctx, record)
}
func (p *provider) UpdateStakePosition(ctx context.Context, record *stake.PositionRecord) error {
	return p.stakes.UpdatePosition(ctx, record)
}
func (p *provider) GetStakePosition(ctx context.Context, address string) (*stake.PositionRecord, error) {
	return p.stakes.GetPosition(ctx, address)
}
func (p *provider) GetAllStakePositions(ctx context.Context, opts ...query.Option) ([]*stake.PositionRecord, error) {
	req, err := query.DefaultPaginationHandler(opts...)
	if err != nil {
		return nil, err
	}
	return p.stakes.GetAllPositions(ctx, req.Cursor, req.Limit, req.SortBy)
}
func (p *provider) SumStakePositionAmounts(ctx context.Context) (uint64, error) {
	return p.stakes.SumPositionAmounts(ctx)
}

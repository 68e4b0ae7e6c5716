package ticketing

import (
	"context"

	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticket"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

func (p *Program) GetConfig(ctx context.Context) (*ticketconfig.Record, error) {
	return p.getConfig(ctx)
}

func (p *Program) GetEvent(ctx context.Context, eventId uint64) (*event.Record, error) {
	addresses, err := deriveEventAddresses(eventId)
	if err != nil {
		return nil, err
	}
	return p.getEvent(ctx, eventId, addresses)
}

// GetEventsByCreator pages through the events created by a wallet. An empty
// page is not an error.
func (p *Program) GetEventsByCreator(ctx context.Context, creator *common.Account, opts ...query.Option) ([]*event.Record, error) {
	records, err := p.data.GetAllEventsByCreator(ctx, creator.ToBase58(), opts...)
	if err == event.ErrNotFound {
		return nil, nil
	}
	return records, err
}

func (p *Program) GetDigitalAccess(ctx context.Context, eventId uint64, accessId uint8) (*digitalaccess.Record, error) {
	addresses, err := deriveEventAddresses(eventId)
	if err != nil {
		return nil, err
	}
	address, _, err := deriveDigitalAccessAddress(addresses.event, accessId)
	if err != nil {
		return nil, err
	}
	return p.getDigitalAccess(ctx, addresses.event, common.EncodeAddress(address))
}

// GetDigitalAccessByEvent returns an event's tiers ordered by id
func (p *Program) GetDigitalAccessByEvent(ctx context.Context, eventId uint64) ([]*digitalaccess.Record, error) {
	eventRecord, err := p.GetEvent(ctx, eventId)
	if err != nil {
		return nil, err
	}

	records, err := p.data.GetAllDigitalAccessByEvent(ctx, eventRecord.Address)
	if err == digitalaccess.ErrNotFound {
		return nil, nil
	}
	return records, err
}

func (p *Program) GetTicket(ctx context.Context, eventId, nftId uint64) (*ticket.Record, error) {
	addresses, err := deriveEventAddresses(eventId)
	if err != nil {
		return nil, err
	}

	record, err := p.data.GetTicket(ctx, common.EncodeAddress(addresses.event), nftId)
	if err == ticket.ErrNotFound {
		return nil, errors.Wrap(ErrAccountNotInitialized, "ticket")
	}
	return record, err
}

// GetTicketMetadata returns the current metadata record of an issued ticket
func (p *Program) GetTicketMetadata(ctx context.Context, eventId, nftId uint64) (*metadata.Record, error) {
	issued, err := p.GetTicket(ctx, eventId, nftId)
	if err != nil {
		return nil, err
	}

	record, err := p.tokens.GetRecord(ctx, issued.Mint)
	if err == metadata.ErrNotFound {
		return nil, errors.Wrap(ErrAccountNotInitialized, "token metadata")
	}
	return record, err
}

// GetTicketsByOwner pages through the tickets issued to a wallet. An empty
// page is not an error.
func (p *Program) GetTicketsByOwner(ctx context.Context, owner *common.Account, opts ...query.Option) ([]*ticket.Record, error) {
	records, err := p.data.GetAllTicketsByOwner(ctx, owner.ToBase58(), opts...)
	if err == ticket.ErrNotFound {
		return nil, nil
	}
	return records, err
}

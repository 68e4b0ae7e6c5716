package eventlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeTicketingConfigInitialized Type = "ticketing.config_initialized"
	TypeEventInitialized           Type = "ticketing.event_initialized"
	TypeDigitalAccessAdded         Type = "ticketing.digital_access_added"
	TypeTicketMinted               Type = "ticketing.ticket_minted"
	TypeTicketBought               Type = "ticketing.ticket_bought"
	TypeTicketMetadataUpdated      Type = "ticketing.ticket_metadata_updated"

	TypeStakingConfigInitialized Type = "staking.config_initialized"
	TypeStakingConfigUpdated     Type = "staking.config_updated"
	TypeStakeDeposited           Type = "staking.stake_deposited"
	TypeStakeWithdrawn           Type = "staking.stake_withdrawn"
)

// Event is a committed state transition of a program.
type Event struct {
	Id   string `json:"id"`
	Type Type   `json:"type"`

	// Account is the primary account written. Events for the same account
	// are delivered in commit order.
	Account string `json:"account"`
	Signer  string `json:"signer"`

	Attributes map[string]string `json:"attributes,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(eventType Type, account, signer string, attributes map[string]string, timestamp time.Time) *Event {
	return &Event{
		Id:         uuid.NewString(),
		Type:       eventType,
		Account:    account,
		Signer:     signer,
		Attributes: attributes,
		Timestamp:  timestamp.UTC(),
	}
}

// Emitter delivers program events. Programs emit after the invocation has
// committed, so an error never rolls anything back.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}

// NoopEmitter drops every event
type NoopEmitter struct{}

func (NoopEmitter) Emit(context.Context, *Event) error {
	return nil
}

// MultiEmitter delivers to each emitter in order and returns the first error
type MultiEmitter []Emitter

func (m MultiEmitter) Emit(ctx context.Context, event *Event) error {
	var first error
	for _, emitter := range m {
		if err := emitter.Emit(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

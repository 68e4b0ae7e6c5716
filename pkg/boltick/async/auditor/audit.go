package async_auditor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig"
	"github.com/franRappazzini/boltick-contracts/pkg/metrics"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/boltick"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/stakespl"
)

type Invariant string

const (
	// The config's total staked equals the sum of position amounts
	InvariantStakeSum Invariant = "stake_sum"
	// The vault holds exactly the total staked
	InvariantVaultCustody Invariant = "vault_custody"
	// Every event id below the config's event count has an event
	InvariantEventExists Invariant = "event_exists"
	// An event's tier counter equals its number of tiers
	InvariantEventTierCount Invariant = "event_tier_count"
	// An event's ticket counter equals its number of tickets
	InvariantEventTicketCount Invariant = "event_ticket_count"
	// An event's ticket counter equals the sum of its tiers' minted counters
	InvariantEventTierSum Invariant = "event_tier_sum"
	// A tier never mints beyond its max supply
	InvariantTierSupply Invariant = "tier_supply"
	// A tier's minted counter equals its number of tickets
	InvariantTierTicketCount Invariant = "tier_ticket_count"
)

type Violation struct {
	Invariant Invariant
	Account   string
	Expected  uint64
	Actual    uint64
}

type Report struct {
	Violations    []*Violation
	EventsChecked int
	StakeChecked  bool
	CompletedAt   time.Time
}

func (r *Report) add(invariant Invariant, account string, expected, actual uint64) {
	r.Violations = append(r.Violations, &Violation{
		Invariant: invariant,
		Account:   account,
		Expected:  expected,
		Actual:    actual,
	})
}

// Audit runs a single pass. Staking is checked in full. Events are checked in
// batches, resuming after the last event checked by the previous pass.
func (p *Auditor) Audit(ctx context.Context) (*Report, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Audit")
	defer tracer.End()

	report := &Report{}

	if p.conf.auditStaking.Get(ctx) {
		if err := p.auditStaking(ctx, report); err != nil {
			tracer.OnError(err)
			return nil, err
		}
	}

	if p.conf.auditTicketing.Get(ctx) {
		if err := p.auditTicketing(ctx, report); err != nil {
			tracer.OnError(err)
			return nil, err
		}
	}

	report.CompletedAt = time.Now()
	for _, violation := range report.Violations {
		p.log.WithFields(logrus.Fields{
			"invariant": violation.Invariant,
			"account":   violation.Account,
			"expected":  violation.Expected,
			"actual":    violation.Actual,
		}).Error("invariant violation")
		recordViolationEvent(ctx, violation)
	}
	metrics.RecordCount(ctx, violationCountMetricName, uint64(len(report.Violations)))

	p.mu.Lock()
	p.lastReport = report
	p.mu.Unlock()

	return report, nil
}

func (p *Auditor) auditStaking(ctx context.Context, report *Report) error {
	unlock := p.locker.Lock(p.stakingConfigAddress, p.stakingVaultAddress)
	defer unlock()

	config, err := p.data.GetStakingConfig(ctx, p.stakingConfigAddress)
	if err == stake.ErrConfigNotFound {
		return nil
	} else if err != nil {
		return errors.Wrap(err, "error getting staking config")
	}

	// Every movement also locks the config, so no position changes underneath
	sum, err := p.data.SumStakePositionAmounts(ctx)
	if err != nil {
		return errors.Wrap(err, "error summing stake positions")
	}
	if sum != config.TotalStaked {
		report.add(InvariantStakeSum, config.Address, config.TotalStaked, sum)
	}

	held, err := p.tokens.GetBalance(ctx, config.Vault)
	if err != nil {
		return errors.Wrap(err, "error getting vault balance")
	}
	if held != config.TotalStaked {
		report.add(InvariantVaultCustody, config.Vault, config.TotalStaked, held)
	}

	report.StakeChecked = true
	return nil
}

func (p *Auditor) auditTicketing(ctx context.Context, report *Report) error {
	config, err := p.data.GetTicketingConfig(ctx, p.ticketingConfigAddress)
	if err == ticketconfig.ErrNotFound {
		return nil
	} else if err != nil {
		return errors.Wrap(err, "error getting ticketing config")
	}
	if config.EventCount == 0 {
		return nil
	}

	batchSize := p.conf.eventBatchSize.Get(ctx)
	if batchSize == 0 || batchSize > config.EventCount {
		batchSize = config.EventCount
	}

	// Batches roll over the event ids and wrap, so every event is checked
	// once per ceil(EventCount / batchSize) audits
	p.mu.Lock()
	start := p.nextEventId % config.EventCount
	p.mu.Unlock()

	for i := uint64(0); i < batchSize; i++ {
		eventId := (start + i) % config.EventCount
		if err := p.auditEvent(ctx, eventId, report); err != nil {
			return err
		}
		report.EventsChecked++
	}

	p.mu.Lock()
	p.nextEventId = (start + batchSize) % config.EventCount
	p.mu.Unlock()

	return nil
}

func (p *Auditor) auditEvent(ctx context.Context, eventId uint64, report *Report) error {
	address, _, err := boltick.GetEventAddress(eventId)
	if err != nil {
		return errors.Wrap(err, "error deriving event address")
	}
	eventAddress := common.EncodeAddress(address)

	unlock := p.locker.Lock(eventAddress)
	defer unlock()

	record, err := p.data.GetEventByEventId(ctx, eventId)
	if err == event.ErrNotFound {
		report.add(InvariantEventExists, eventAddress, 1, 0)
		return nil
	} else if err != nil {
		return errors.Wrap(err, "error getting event")
	}

	tiers, err := p.data.GetAllDigitalAccessByEvent(ctx, record.Address)
	if err != nil && err != digitalaccess.ErrNotFound {
		return errors.Wrap(err, "error getting digital access tiers")
	}
	if uint64(len(tiers)) != uint64(record.CurrentDigitalAccessCount) {
		report.add(InvariantEventTierCount, record.Address, uint64(record.CurrentDigitalAccessCount), uint64(len(tiers)))
	}

	var minted uint64
	for _, tier := range tiers {
		minted += tier.CurrentMinted

		if tier.CurrentMinted > tier.MaxSupply {
			report.add(InvariantTierSupply, tier.Address, tier.MaxSupply, tier.CurrentMinted)
		}

		count, err := p.data.CountTicketsByDigitalAccess(ctx, tier.Address)
		if err != nil {
			return errors.Wrap(err, "error counting tier tickets")
		}
		if count != tier.CurrentMinted {
			report.add(InvariantTierTicketCount, tier.Address, tier.CurrentMinted, count)
		}
	}
	if minted != record.CurrentNftCount {
		report.add(InvariantEventTierSum, record.Address, record.CurrentNftCount, minted)
	}

	count, err := p.data.CountTicketsByEvent(ctx, record.Address)
	if err != nil {
		return errors.Wrap(err, "error counting event tickets")
	}
	if count != record.CurrentNftCount {
		report.add(InvariantEventTicketCount, record.Address, record.CurrentNftCount, count)
	}
	return nil
}

type programAddresses struct {
	ticketingConfig string
	stakingConfig   string
	stakingVault    string
}

func deriveProgramAddresses() (*programAddresses, error) {
	ticketingConfig, _, err := boltick.GetConfigAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving ticketing config address")
	}
	stakingConfig, _, err := stakespl.GetConfigAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving staking config address")
	}
	stakingVault, _, err := stakespl.GetVaultAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving staking vault address")
	}

	return &programAddresses{
		ticketingConfig: common.EncodeAddress(ticketingConfig),
		stakingConfig:   common.EncodeAddress(stakingConfig),
		stakingVault:    common.EncodeAddress(stakingVault),
	}, nil
}

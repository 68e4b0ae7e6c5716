package web

import (
	"time"

	async_auditor "github.com/franRappazzini/boltick-contracts/pkg/boltick/async/auditor"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticket"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig"
)

// Request bodies. Every body is signed and carries a unix timestamp.

type initializeTicketingConfigRequest struct {
	signedEnvelope
}

type initializeEventRequest struct {
	signedEnvelope

	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Uri         string `json:"uri"`
	Description string `json:"description"`
}

type addDigitalAccessRequest struct {
	signedEnvelope

	EventId     uint64 `json:"event_id"`
	Price       uint64 `json:"price"`
	MaxSupply   uint64 `json:"max_supply"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Uri         string `json:"uri"`
}

type mintTokenRequest struct {
	signedEnvelope

	EventId         uint64 `json:"event_id"`
	DigitalAccessId uint8  `json:"digital_access_id"`
	Destination     string `json:"destination"`
}

type buyTokenRequest struct {
	signedEnvelope

	EventId         uint64 `json:"event_id"`
	DigitalAccessId uint8  `json:"digital_access_id"`
	EventCreator    string `json:"event_creator"`
}

type updateTokenMetadataRequest struct {
	signedEnvelope

	EventId uint64 `json:"event_id"`
	NftId   uint64 `json:"nft_id"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Uri     string `json:"uri"`
}

type initializeStakingConfigRequest struct {
	signedEnvelope

	Mint string `json:"mint"`
}

type stakeRequest struct {
	signedEnvelope

	Mint   string `json:"mint"`
	Amount uint64 `json:"amount"`
}

type updateStakingConfigRequest struct {
	signedEnvelope

	RewardRate      *uint64 `json:"reward_rate,omitempty"`
	RewardDuration  *uint64 `json:"reward_duration,omitempty"`
	LockPeriod      *uint64 `json:"lock_period,omitempty"`
	MaxStakePerUser *uint64 `json:"max_stake_per_user,omitempty"`
	Paused          *bool   `json:"paused,omitempty"`
}

type airdropRequest struct {
	signedEnvelope

	Lamports uint64 `json:"lamports"`
}

type requestTokensRequest struct {
	signedEnvelope

	Amount uint64 `json:"amount"`
}

// Response views

type ticketingConfigView struct {
	Address    string `json:"address"`
	Authority  string `json:"authority"`
	Treasury   string `json:"treasury"`
	EventCount uint64 `json:"event_count"`
}

func toTicketingConfigView(record *ticketconfig.Record) *ticketingConfigView {
	return &ticketingConfigView{
		Address:    record.Address,
		Authority:  record.Authority,
		Treasury:   record.Treasury,
		EventCount: record.EventCount,
	}
}

type eventView struct {
	Address            string    `json:"address"`
	EventId            uint64    `json:"event_id"`
	Creator            string    `json:"creator"`
	CollectionMint     string    `json:"collection_mint"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Date               time.Time `json:"date"`
	DigitalAccessCount uint8     `json:"digital_access_count"`
	NftCount           uint64    `json:"nft_count"`
}

func toEventView(record *event.Record) *eventView {
	return &eventView{
		Address:            record.Address,
		EventId:            record.EventId,
		Creator:            record.Creator,
		CollectionMint:     record.CollectionMint,
		Name:               record.Name,
		Description:        record.Description,
		Date:               record.Date,
		DigitalAccessCount: record.CurrentDigitalAccessCount,
		NftCount:           record.CurrentNftCount,
	}
}

type digitalAccessView struct {
	Address       string `json:"address"`
	Event         string `json:"event"`
	AccessId      uint8  `json:"access_id"`
	Price         uint64 `json:"price"`
	MaxSupply     uint64 `json:"max_supply"`
	CurrentMinted uint64 `json:"current_minted"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Description   string `json:"description"`
	Uri           string `json:"uri"`
}

func toDigitalAccessView(record *digitalaccess.Record) *digitalAccessView {
	return &digitalAccessView{
		Address:       record.Address,
		Event:         record.Event,
		AccessId:      record.AccessId,
		Price:         record.Price,
		MaxSupply:     record.MaxSupply,
		CurrentMinted: record.CurrentMinted,
		Name:          record.Name,
		Symbol:        record.Symbol,
		Description:   record.Description,
		Uri:           record.Uri,
	}
}

type ticketView struct {
	Event         string `json:"event"`
	NftId         uint64 `json:"nft_id"`
	DigitalAccess string `json:"digital_access"`
	AccessId      uint8  `json:"access_id"`
	Mint          string `json:"mint"`
	Metadata      string `json:"metadata"`
	Owner         string `json:"owner"`
	TokenAccount  string `json:"token_account"`
	Price         uint64 `json:"price"`
}

func toTicketView(record *ticket.Record) *ticketView {
	return &ticketView{
		Event:         record.Event,
		NftId:         record.NftId,
		DigitalAccess: record.DigitalAccess,
		AccessId:      record.AccessId,
		Mint:          record.Mint,
		Metadata:      record.Metadata,
		Owner:         record.Owner,
		TokenAccount:  record.TokenAccount,
		Price:         record.Price,
	}
}

type metadataView struct {
	Address         string `json:"address"`
	Mint            string `json:"mint"`
	UpdateAuthority string `json:"update_authority"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Uri             string `json:"uri"`
	Collection      string `json:"collection,omitempty"`
	IsMutable       bool   `json:"is_mutable"`
}

func toMetadataView(record *metadata.Record) *metadataView {
	return &metadataView{
		Address:         record.Address,
		Mint:            record.Mint,
		UpdateAuthority: record.UpdateAuthority,
		Name:            record.Name,
		Symbol:          record.Symbol,
		Uri:             record.Uri,
		Collection:      record.Collection,
		IsMutable:       record.IsMutable,
	}
}

type stakingConfigView struct {
	Address         string `json:"address"`
	Authority       string `json:"authority"`
	Mint            string `json:"mint"`
	Vault           string `json:"vault"`
	RewardVault     string `json:"reward_vault"`
	RewardRate      uint64 `json:"reward_rate"`
	RewardPerToken  string `json:"reward_per_token"`
	LastUpdateTime  uint64 `json:"last_update_time"`
	RewardDuration  uint64 `json:"reward_duration"`
	LockPeriod      uint64 `json:"lock_period"`
	TotalStaked     uint64 `json:"total_staked"`
	MaxStakePerUser uint64 `json:"max_stake_per_user"`
	Paused          bool   `json:"paused"`
}

func toStakingConfigView(record *stake.ConfigRecord) *stakingConfigView {
	view := &stakingConfigView{
		Address:         record.Address,
		Authority:       record.Authority,
		Mint:            record.Mint,
		Vault:           record.Vault,
		RewardVault:     record.RewardVault,
		RewardRate:      record.RewardRate,
		RewardPerToken:  "0",
		LastUpdateTime:  record.LastUpdateTime,
		RewardDuration:  record.RewardDuration,
		LockPeriod:      record.LockPeriod,
		TotalStaked:     record.TotalStaked,
		MaxStakePerUser: record.MaxStakePerUser,
		Paused:          record.Paused,
	}
	if record.RewardPerToken != nil {
		view.RewardPerToken = record.RewardPerToken.Dec()
	}
	return view
}

type positionView struct {
	Address           string `json:"address"`
	Depositor         string `json:"depositor"`
	Amount            uint64 `json:"amount"`
	RewardDebt        string `json:"reward_debt"`
	AccumulatedReward uint64 `json:"accumulated_reward"`
}

func toPositionView(record *stake.PositionRecord) *positionView {
	view := &positionView{
		Address:           record.Address,
		Depositor:         record.Depositor,
		Amount:            record.Amount,
		RewardDebt:        "0",
		AccumulatedReward: record.AccumulatedReward,
	}
	if record.RewardDebt != nil {
		view.RewardDebt = record.RewardDebt.Dec()
	}
	return view
}

type violationView struct {
	Invariant string `json:"invariant"`
	Account   string `json:"account"`
	Expected  uint64 `json:"expected"`
	Actual    uint64 `json:"actual"`
}

type auditReportView struct {
	Violations    []*violationView `json:"violations"`
	EventsChecked int              `json:"events_checked"`
	StakeChecked  bool             `json:"stake_checked"`
	CompletedAt   time.Time        `json:"completed_at"`
}

func toAuditReportView(report *async_auditor.Report) *auditReportView {
	view := &auditReportView{
		Violations:    make([]*violationView, 0, len(report.Violations)),
		EventsChecked: report.EventsChecked,
		StakeChecked:  report.StakeChecked,
		CompletedAt:   report.CompletedAt,
	}
	for _, violation := range report.Violations {
		view.Violations = append(view.Violations, &violationView{
			Invariant: string(violation.Invariant),
			Account:   violation.Account,
			Expected:  violation.Expected,
			Actual:    violation.Actual,
		})
	}
	return view
}

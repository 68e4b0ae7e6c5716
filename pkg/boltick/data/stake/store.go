package stake

import (
	"context"
	"errors"
	"time"

	"github.com/holiman/uint256"

	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

var (
	ErrConfigNotFound     = errors.New("staking config not found")
	ErrConfigExists       = errors.New("staking config already exists")
	ErrStaleConfigVersion = errors.New("staking config version is stale")

	ErrPositionNotFound     = errors.New("stake position not found")
	ErrPositionExists       = errors.New("stake position already exists")
	ErrStalePositionVersion = errors.New("stake position version is stale")
)

// ConfigRecord is the staking program's singleton config account.
type ConfigRecord struct {
	Id uint64

	Address     string
	Authority   string
	Mint        string
	Vault       string
	RewardVault string

	RewardRate              uint64
	RewardPerToken          *uint256.Int
	LastUpdateTime          uint64
	RewardDuration          uint64
	LockPeriod              uint64
	TotalRewardsDistributed uint64

	TotalStaked     uint64
	MaxStakePerUser uint64
	Paused          bool

	VaultBump uint8
	Bump      uint8

	Version uint64

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

// PositionRecord is a depositor's stake.
type PositionRecord struct {
	Id uint64

	Address   string
	Depositor string

	Amount            uint64
	RewardDebt        *uint256.Int
	AccumulatedReward uint64

	Bump uint8

	Version uint64

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

type Store interface {
	// PutConfig creates the staking config. ErrConfigExists is returned if one
	// already lives at the address.
	PutConfig(ctx context.Context, record *ConfigRecord) error

	// UpdateConfig persists the mutable config fields. The record's version
	// must match the stored version, otherwise ErrStaleConfigVersion is
	// returned.
	UpdateConfig(ctx context.Context, record *ConfigRecord) error

	// GetConfig returns the config at the address, or ErrConfigNotFound.
	GetConfig(ctx context.Context, address string) (*ConfigRecord, error)

	// PutPosition opens a stake position. ErrPositionExists is returned if the
	// address is taken.
	PutPosition(ctx context.Context, record *PositionRecord) error

	// UpdatePosition persists the position's amount and reward fields. The
	// record's version must match the stored version, otherwise
	// ErrStalePositionVersion is returned.
	UpdatePosition(ctx context.Context, record *PositionRecord) error

	// GetPosition returns the position at the address, or ErrPositionNotFound.
	GetPosition(ctx context.Context, address string) (*PositionRecord, error)

	// GetAllPositions pages through every position. ErrPositionNotFound is
	// returned when the page is empty.
	GetAllPositions(ctx context.Context, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*PositionRecord, error)

	// SumPositionAmounts totals the amount across all positions.
	SumPositionAmounts(ctx context.Context) (uint64, error)
}

func (r *ConfigRecord) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}
	if len(r.Authority) == 0 {
		return errors.New("authority is required")
	}
	if len(r.Mint) == 0 {
		return errors.New("mint is required")
	}
	if len(r.Vault) == 0 {
		return errors.New("vault is required")
	}
	if len(r.RewardVault) == 0 {
		return errors.New("reward vault is required")
	}
	if r.RewardPerToken == nil {
		return errors.New("reward per token is required")
	}
	return nil
}

func (r *ConfigRecord) Clone() ConfigRecord {
	return ConfigRecord{
		Id:                      r.Id,
		Address:                 r.Address,
		Authority:               r.Authority,
		Mint:                    r.Mint,
		Vault:                   r.Vault,
		RewardVault:             r.RewardVault,
		RewardRate:              r.RewardRate,
		RewardPerToken:          cloneInt(r.RewardPerToken),
		LastUpdateTime:          r.LastUpdateTime,
		RewardDuration:          r.RewardDuration,
		LockPeriod:              r.LockPeriod,
		TotalRewardsDistributed: r.TotalRewardsDistributed,
		TotalStaked:             r.TotalStaked,
		MaxStakePerUser:         r.MaxStakePerUser,
		Paused:                  r.Paused,
		VaultBump:               r.VaultBump,
		Bump:                    r.Bump,
		Version:                 r.Version,
		CreatedAt:               r.CreatedAt,
		LastUpdatedAt:           r.LastUpdatedAt,
	}
}

func (r *ConfigRecord) CopyTo(dst *ConfigRecord) {
	dst.Id = r.Id
	dst.Address = r.Address
	dst.Authority = r.Authority
	dst.Mint = r.Mint
	dst.Vault = r.Vault
	dst.RewardVault = r.RewardVault
	dst.RewardRate = r.RewardRate
	dst.RewardPerToken = cloneInt(r.RewardPerToken)
	dst.LastUpdateTime = r.LastUpdateTime
	dst.RewardDuration = r.RewardDuration
	dst.LockPeriod = r.LockPeriod
	dst.TotalRewardsDistributed = r.TotalRewardsDistributed
	dst.TotalStaked = r.TotalStaked
	dst.MaxStakePerUser = r.MaxStakePerUser
	dst.Paused = r.Paused
	dst.VaultBump = r.VaultBump
	dst.Bump = r.Bump
	dst.Version = r.Version
	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}

func (r *PositionRecord) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}
	if len(r.Depositor) == 0 {
		return errors.New("depositor is required")
	}
	if r.RewardDebt == nil {
		return errors.New("reward debt is required")
	}
	return nil
}

func (r *PositionRecord) Clone() PositionRecord {
	return PositionRecord{
		Id:                r.Id,
		Address:           r.Address,
		Depositor:         r.Depositor,
		Amount:            r.Amount,
		RewardDebt:        cloneInt(r.RewardDebt),
		AccumulatedReward: r.AccumulatedReward,
		Bump:              r.Bump,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		LastUpdatedAt:     r.LastUpdatedAt,
	}
}

func (r *PositionRecord) CopyTo(dst *PositionRecord) {
	dst.Id = r.Id
	dst.Address = r.Address
	dst.Depositor = r.Depositor
	dst.Amount = r.Amount
	dst.RewardDebt = cloneInt(r.RewardDebt)
	dst.AccumulatedReward = r.AccumulatedReward
	dst.Bump = r.Bump
	dst.Version = r.Version
	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}

func cloneInt(v *uint256.Int) *uint256.Int {
	if v == nil {
		return nil
	}
	return v.Clone()
}

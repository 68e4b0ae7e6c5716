package staking

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	token_data "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/eventlog"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/token"
	"github.com/franRappazzini/boltick-contracts/pkg/metrics"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/stakespl"
	token_program "github.com/franRappazzini/boltick-contracts/pkg/solana/token"
)

const (
	metricsStructName = "staking.program"

	stakeMovementEventName = "StakeMovement"
)

var staleErrors = []error{
	stake.ErrStaleConfigVersion,
	stake.ErrConfigExists,
	stake.ErrStalePositionVersion,
	stake.ErrPositionExists,
	token_data.ErrStaleAccountVersion,
	token_data.ErrAccountExists,
}

// Program is the staking program. Depositors move units of the bound mint
// into a vault owned by the config and accrue reward accounting against
// their position.
type Program struct {
	log    *logrus.Entry
	data   data.Provider
	tokens token.Ledger
	locker *program.AccountLocker
	events eventlog.Emitter
	clock  program.Clock

	configAddress      string
	configBump         uint8
	vaultAddress       string
	vaultBump          uint8
	rewardVaultAddress string
}

type Option func(*Program)

// WithClock overrides the clock driving reward accrual
func WithClock(clock program.Clock) Option {
	return func(p *Program) {
		p.clock = clock
	}
}

func New(
	data data.Provider,
	tokens token.Ledger,
	locker *program.AccountLocker,
	events eventlog.Emitter,
	opts ...Option,
) (*Program, error) {
	configAddress, configBump, err := stakespl.GetConfigAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving config address")
	}

	vaultAddress, vaultBump, err := stakespl.GetVaultAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving vault address")
	}

	rewardVaultAddress, _, err := stakespl.GetRewardVaultAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving reward vault address")
	}

	p := &Program{
		log:                logrus.StandardLogger().WithField("type", "program/staking"),
		data:               data,
		tokens:             tokens,
		locker:             locker,
		events:             events,
		clock:              program.SystemClock,
		configAddress:      common.EncodeAddress(configAddress),
		configBump:         configBump,
		vaultAddress:       common.EncodeAddress(vaultAddress),
		vaultBump:          vaultBump,
		rewardVaultAddress: common.EncodeAddress(rewardVaultAddress),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Program) ConfigAddress() string {
	return p.configAddress
}

func (p *Program) VaultAddress() string {
	return p.vaultAddress
}

// InitializeConfig binds the program to a mint and opens the vault and reward
// vault token accounts, both owned by the config. It can only succeed once.
func (p *Program) InitializeConfig(ctx context.Context, authority *common.Account, mint string) (*stake.ConfigRecord, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "InitializeConfig")
	defer tracer.End()

	log := p.log.WithFields(logrus.Fields{
		"method":    "InitializeConfig",
		"authority": authority.ToBase58(),
		"mint":      mint,
	})

	unlock := p.locker.Lock(p.configAddress, p.vaultAddress, p.rewardVaultAddress)
	defer unlock()

	record := &stake.ConfigRecord{
		Address:        p.configAddress,
		Authority:      authority.ToBase58(),
		Mint:           mint,
		Vault:          p.vaultAddress,
		RewardVault:    p.rewardVaultAddress,
		RewardPerToken: new(uint256.Int),
		VaultBump:      p.vaultBump,
		Bump:           p.configBump,
	}

	err := p.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		_, err := p.data.GetStakingConfig(ctx, p.configAddress)
		switch err {
		case nil:
			return ErrAccountAlreadyInitialized
		case stake.ErrConfigNotFound:
		default:
			return errors.Wrap(err, "error getting config")
		}

		_, err = p.tokens.GetMint(ctx, mint)
		if err == token_data.ErrMintNotFound {
			return errors.Wrap(ErrAccountNotInitialized, "mint")
		} else if err != nil {
			return errors.Wrap(err, "error getting mint")
		}

		for _, vault := range []string{p.vaultAddress, p.rewardVaultAddress} {
			account, err := p.tokens.GetAccount(ctx, vault)
			switch err {
			case nil:
				if account.Owner != p.configAddress || account.Mint != mint {
					return ErrAccountMismatch
				}
			case token_data.ErrAccountNotFound:
			default:
				return errors.Wrap(err, "error getting vault")
			}
		}

		if err := p.data.CreateStakingConfig(ctx, record); err != nil {
			return errors.Wrap(err, "error creating config")
		}
		if err := p.tokens.OpenAccount(ctx, p.vaultAddress, p.configAddress, mint); err != nil {
			return errors.Wrap(err, "error opening vault")
		}
		if err := p.tokens.OpenAccount(ctx, p.rewardVaultAddress, p.configAddress, mint); err != nil {
			return errors.Wrap(err, "error opening reward vault")
		}
		return nil
	})
	if err != nil {
		err = program.CheckStale(err, staleErrors...)
		tracer.OnError(err)
		log.WithError(err).Debug("config not initialized")
		return nil, err
	}

	log.Info("config initialized")
	p.emit(ctx, eventlog.TypeStakingConfigInitialized, p.configAddress, record.Authority, map[string]string{
		"mint":  mint,
		"vault": p.vaultAddress,
	})
	return record, nil
}

type DepositStakeArgs struct {
	Depositor *common.Account

	// Must be the mint bound at initialization
	Mint   string
	Amount uint64
}

// DepositStake moves Amount units from the depositor's associated token
// account into the vault and credits the depositor's position.
func (p *Program) DepositStake(ctx context.Context, args *DepositStakeArgs) (*stake.PositionRecord, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "DepositStake")
	defer tracer.End()

	position, err := p.move(ctx, &moveRequest{
		method:    "DepositStake",
		depositor: args.Depositor,
		mint:      args.Mint,
		amount:    args.Amount,
		deposit:   true,
	})
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return position, nil
}

type WithdrawStakeArgs struct {
	Depositor *common.Account

	Mint   string
	Amount uint64
}

// WithdrawStake moves Amount units from the vault back to the depositor's
// associated token account and debits the depositor's position.
func (p *Program) WithdrawStake(ctx context.Context, args *WithdrawStakeArgs) (*stake.PositionRecord, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "WithdrawStake")
	defer tracer.End()

	position, err := p.move(ctx, &moveRequest{
		method:    "WithdrawStake",
		depositor: args.Depositor,
		mint:      args.Mint,
		amount:    args.Amount,
	})
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return position, nil
}

type moveRequest struct {
	method    string
	depositor *common.Account
	mint      string
	amount    uint64
	deposit   bool
}

func (p *Program) move(ctx context.Context, req *moveRequest) (*stake.PositionRecord, error) {
	depositor := req.depositor.ToBase58()

	log := p.log.WithFields(logrus.Fields{
		"method":    req.method,
		"depositor": depositor,
		"amount":    req.amount,
	})

	if req.amount == 0 {
		return nil, ErrZeroAmount
	}

	positionAddress, positionBump, err := stakespl.GetStakeAddress(req.depositor.ToBytes())
	if err != nil {
		return nil, errors.Wrap(err, "error deriving stake address")
	}
	encodedPosition := common.EncodeAddress(positionAddress)

	mintAccount, err := common.NewAccountFromPublicKeyString(req.mint)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidArgument, "mint is not a valid address")
	}
	depositorTokenAccount, err := token_program.GetAssociatedAccount(req.depositor.ToBytes(), mintAccount.ToBytes())
	if err != nil {
		return nil, errors.Wrap(err, "error deriving depositor token account")
	}
	encodedTokenAccount := common.EncodeAddress(depositorTokenAccount)

	unlock := p.locker.Lock(p.configAddress, p.vaultAddress, encodedPosition, encodedTokenAccount)
	defer unlock()

	var position *stake.PositionRecord
	err = p.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		config, err := p.getConfig(ctx)
		if err != nil {
			return err
		}
		if config.Mint != req.mint {
			return ErrMintMismatch
		}
		if config.Paused {
			return ErrStakingPaused
		}

		position, err = p.loadPosition(ctx, encodedPosition, depositor, positionBump, req.deposit)
		if err != nil {
			return err
		}

		var newAmount, newTotal uint64
		if req.deposit {
			var overflow bool
			newAmount, overflow = addUint64(position.Amount, req.amount)
			if overflow {
				return ErrArithmeticOverflow
			}
			if config.MaxStakePerUser > 0 && newAmount > config.MaxStakePerUser {
				return ErrAmountExceedsLimit
			}
			newTotal, overflow = addUint64(config.TotalStaked, req.amount)
			if overflow {
				return ErrArithmeticOverflow
			}

			available, err := p.tokens.GetBalance(ctx, encodedTokenAccount)
			if err != nil {
				return errors.Wrap(err, "error getting depositor balance")
			}
			if available < req.amount {
				return ErrInsufficientFunds
			}
		} else {
			if position.Amount < req.amount {
				return ErrInsufficientStake
			}
			if config.TotalStaked < req.amount {
				return ErrArithmeticUnderflow
			}
			newAmount = position.Amount - req.amount
			newTotal = config.TotalStaked - req.amount

			held, err := p.tokens.GetBalance(ctx, p.vaultAddress)
			if err != nil {
				return errors.Wrap(err, "error getting vault balance")
			}
			if held < req.amount {
				return ErrArithmeticUnderflow
			}
		}

		// Reward accounting settles at the old amount before the stake moves
		now := uint64(p.clock().Unix())
		rewardPerToken, err := accrueRewardPerToken(config, now)
		if err != nil {
			return err
		}
		accumulated, err := accumulate(position, rewardPerToken)
		if err != nil {
			return err
		}
		debt, err := entitlement(newAmount, rewardPerToken)
		if err != nil {
			return err
		}

		if req.deposit {
			err = p.tokens.Transfer(ctx, &token.TransferArgs{
				Source:           encodedTokenAccount,
				Authority:        depositor,
				Destination:      p.vaultAddress,
				DestinationOwner: p.configAddress,
				Mint:             req.mint,
				Amount:           req.amount,
			})
		} else {
			err = p.tokens.Transfer(ctx, &token.TransferArgs{
				Source:           p.vaultAddress,
				Authority:        p.configAddress,
				Destination:      encodedTokenAccount,
				DestinationOwner: depositor,
				Mint:             req.mint,
				Amount:           req.amount,
			})
		}
		switch errors.Cause(err) {
		case nil:
		case token.ErrInsufficientBalance:
			if req.deposit {
				return ErrInsufficientFunds
			}
			return ErrArithmeticUnderflow
		case token.ErrInvalidOwner, token.ErrMintMismatch, token.ErrOwnerMismatch:
			return ErrAccountMismatch
		default:
			return errors.Wrap(err, "error transferring stake")
		}

		position.Amount = newAmount
		position.RewardDebt = debt
		position.AccumulatedReward = accumulated
		if position.Version == 0 {
			err = p.data.CreateStakePosition(ctx, position)
		} else {
			err = p.data.UpdateStakePosition(ctx, position)
		}
		if err != nil {
			return errors.Wrap(err, "error saving position")
		}

		config.RewardPerToken = rewardPerToken
		config.LastUpdateTime = now
		config.TotalStaked = newTotal
		return p.data.UpdateStakingConfig(ctx, config)
	})
	if err != nil {
		err = program.CheckStale(err, staleErrors...)
		log.WithError(err).Debug("stake not moved")
		return nil, err
	}

	log.WithField("position_amount", position.Amount).Info("stake moved")

	eventType := eventlog.TypeStakeWithdrawn
	direction := "withdraw"
	if req.deposit {
		eventType = eventlog.TypeStakeDeposited
		direction = "deposit"
	}

	metrics.RecordEvent(ctx, stakeMovementEventName, map[string]interface{}{
		"direction": direction,
		"amount":    req.amount,
	})
	p.emit(ctx, eventType, position.Address, depositor, map[string]string{
		"amount":             strconv.FormatUint(req.amount, 10),
		"position_amount":    strconv.FormatUint(position.Amount, 10),
		"accumulated_reward": strconv.FormatUint(position.AccumulatedReward, 10),
	})
	return position, nil
}

type UpdateConfigArgs struct {
	Authority *common.Account

	// Nil fields are left unchanged
	RewardRate      *uint64
	RewardDuration  *uint64
	LockPeriod      *uint64
	MaxStakePerUser *uint64
	Paused          *bool
}

// UpdateConfig changes the reward and limit parameters. Rewards accrued under
// the previous parameters are settled into the reward per token first. Only
// the config authority may update.
func (p *Program) UpdateConfig(ctx context.Context, args *UpdateConfigArgs) (*stake.ConfigRecord, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "UpdateConfig")
	defer tracer.End()

	log := p.log.WithFields(logrus.Fields{
		"method":    "UpdateConfig",
		"authority": args.Authority.ToBase58(),
	})

	unlock := p.locker.Lock(p.configAddress)
	defer unlock()

	var config *stake.ConfigRecord
	err := p.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		var err error
		config, err = p.getConfig(ctx)
		if err != nil {
			return err
		}
		if config.Authority != args.Authority.ToBase58() {
			return ErrInvalidAuthority
		}

		now := uint64(p.clock().Unix())
		rewardPerToken, err := accrueRewardPerToken(config, now)
		if err != nil {
			return err
		}
		config.RewardPerToken = rewardPerToken
		config.LastUpdateTime = now

		if args.RewardRate != nil {
			config.RewardRate = *args.RewardRate
		}
		if args.RewardDuration != nil {
			config.RewardDuration = *args.RewardDuration
		}
		if args.LockPeriod != nil {
			config.LockPeriod = *args.LockPeriod
		}
		if args.MaxStakePerUser != nil {
			config.MaxStakePerUser = *args.MaxStakePerUser
		}
		if args.Paused != nil {
			config.Paused = *args.Paused
		}

		return p.data.UpdateStakingConfig(ctx, config)
	})
	if err != nil {
		err = program.CheckStale(err, staleErrors...)
		tracer.OnError(err)
		log.WithError(err).Debug("config not updated")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"reward_rate":        config.RewardRate,
		"reward_duration":    config.RewardDuration,
		"max_stake_per_user": config.MaxStakePerUser,
		"paused":             config.Paused,
	}).Info("config updated")
	p.emit(ctx, eventlog.TypeStakingConfigUpdated, p.configAddress, config.Authority, map[string]string{
		"reward_rate":        strconv.FormatUint(config.RewardRate, 10),
		"reward_duration":    strconv.FormatUint(config.RewardDuration, 10),
		"lock_period":        strconv.FormatUint(config.LockPeriod, 10),
		"max_stake_per_user": strconv.FormatUint(config.MaxStakePerUser, 10),
		"paused":             strconv.FormatBool(config.Paused),
	})
	return config, nil
}

func (p *Program) getConfig(ctx context.Context) (*stake.ConfigRecord, error) {
	config, err := p.data.GetStakingConfig(ctx, p.configAddress)
	if err == stake.ErrConfigNotFound {
		return nil, errors.Wrap(ErrAccountNotInitialized, "config")
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting config")
	}
	return config, nil
}

// loadPosition returns the depositor's position. Deposits get an unsaved
// empty position when none exists, withdrawals fail.
func (p *Program) loadPosition(ctx context.Context, address, depositor string, bump uint8, createIfMissing bool) (*stake.PositionRecord, error) {
	position, err := p.data.GetStakePosition(ctx, address)
	switch err {
	case nil:
		if position.Depositor != depositor {
			return nil, ErrAccountMismatch
		}
		err = verifyPositionAddress(position)
		if err != nil {
			return nil, err
		}
		return position, nil
	case stake.ErrPositionNotFound:
		if !createIfMissing {
			return nil, errors.Wrap(ErrAccountNotInitialized, "stake position")
		}
		return &stake.PositionRecord{
			Address:    address,
			Depositor:  depositor,
			RewardDebt: new(uint256.Int),
			Bump:       bump,
		}, nil
	default:
		return nil, errors.Wrap(err, "error getting stake position")
	}
}

func verifyPositionAddress(position *stake.PositionRecord) error {
	address, err := common.NewAccountFromPublicKeyString(position.Address)
	if err != nil {
		return ErrAccountMismatch
	}
	depositor, err := common.NewAccountFromPublicKeyString(position.Depositor)
	if err != nil {
		return ErrAccountMismatch
	}
	if err := stakespl.VerifyStakeAddress(ed25519.PublicKey(address.ToBytes()), position.Bump, depositor.ToBytes()); err != nil {
		return ErrAccountMismatch
	}
	return nil
}

// emit publishes a committed transition. Delivery failures are logged since
// the invocation has already committed.
func (p *Program) emit(ctx context.Context, eventType eventlog.Type, account, signer string, attributes map[string]string) {
	err := p.events.Emit(ctx, eventlog.NewEvent(eventType, account, signer, attributes, p.clock()))
	if err != nil {
		p.log.WithError(err).WithField("event_type", eventType).Warn("failure emitting program event")
	}
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/holiman/uint256"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	pgutil "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
	q "github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

const (
	configTableName   = "boltick__staking_config"
	positionTableName = "boltick__staking_position"

	configColumns   = `id, address, authority, mint, vault, reward_vault, reward_rate, reward_per_token, last_update_time, reward_duration, lock_period, total_rewards_distributed, total_staked, max_stake_per_user, paused, vault_bump, bump, version, created_at, last_updated_at`
	positionColumns = `id, address, depositor, amount, reward_debt, accumulated_reward, bump, version, created_at, last_updated_at`
)

type configModel struct {
	Id sql.NullInt64 `db:"id"`

	Address     string `db:"address"`
	Authority   string `db:"authority"`
	Mint        string `db:"mint"`
	Vault       string `db:"vault"`
	RewardVault string `db:"reward_vault"`

	RewardRate              uint64 `db:"reward_rate"`
	RewardPerToken          string `db:"reward_per_token"`
	LastUpdateTime          uint64 `db:"last_update_time"`
	RewardDuration          uint64 `db:"reward_duration"`
	LockPeriod              uint64 `db:"lock_period"`
	TotalRewardsDistributed uint64 `db:"total_rewards_distributed"`

	TotalStaked     uint64 `db:"total_staked"`
	MaxStakePerUser uint64 `db:"max_stake_per_user"`
	Paused          bool   `db:"paused"`

	VaultBump uint8 `db:"vault_bump"`
	Bump      uint8 `db:"bump"`

	Version uint64 `db:"version"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

type positionModel struct {
	Id sql.NullInt64 `db:"id"`

	Address   string `db:"address"`
	Depositor string `db:"depositor"`

	Amount            uint64 `db:"amount"`
	RewardDebt        string `db:"reward_debt"`
	AccumulatedReward uint64 `db:"accumulated_reward"`

	Bump uint8 `db:"bump"`

	Version uint64 `db:"version"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toConfigModel(obj *stake.ConfigRecord) (*configModel, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &configModel{
		Address:                 obj.Address,
		Authority:               obj.Authority,
		Mint:                    obj.Mint,
		Vault:                   obj.Vault,
		RewardVault:             obj.RewardVault,
		RewardRate:              obj.RewardRate,
		RewardPerToken:          obj.RewardPerToken.Dec(),
		LastUpdateTime:          obj.LastUpdateTime,
		RewardDuration:          obj.RewardDuration,
		LockPeriod:              obj.LockPeriod,
		TotalRewardsDistributed: obj.TotalRewardsDistributed,
		TotalStaked:             obj.TotalStaked,
		MaxStakePerUser:         obj.MaxStakePerUser,
		Paused:                  obj.Paused,
		VaultBump:               obj.VaultBump,
		Bump:                    obj.Bump,
		Version:                 obj.Version,
		CreatedAt:               obj.CreatedAt,
		LastUpdatedAt:           obj.LastUpdatedAt,
	}, nil
}

func fromConfigModel(obj *configModel) (*stake.ConfigRecord, error) {
	rewardPerToken, err := uint256.FromDecimal(obj.RewardPerToken)
	if err != nil {
		return nil, errors.Wrap(err, "invalid reward per token")
	}

	return &stake.ConfigRecord{
		Id:                      uint64(obj.Id.Int64),
		Address:                 obj.Address,
		Authority:               obj.Authority,
		Mint:                    obj.Mint,
		Vault:                   obj.Vault,
		RewardVault:             obj.RewardVault,
		RewardRate:              obj.RewardRate,
		RewardPerToken:          rewardPerToken,
		LastUpdateTime:          obj.LastUpdateTime,
		RewardDuration:          obj.RewardDuration,
		LockPeriod:              obj.LockPeriod,
		TotalRewardsDistributed: obj.TotalRewardsDistributed,
		TotalStaked:             obj.TotalStaked,
		MaxStakePerUser:         obj.MaxStakePerUser,
		Paused:                  obj.Paused,
		VaultBump:               obj.VaultBump,
		Bump:                    obj.Bump,
		Version:                 obj.Version,
		CreatedAt:               obj.CreatedAt,
		LastUpdatedAt:           obj.LastUpdatedAt,
	}, nil
}

func toPositionModel(obj *stake.PositionRecord) (*positionModel, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &positionModel{
		Address:           obj.Address,
		Depositor:         obj.Depositor,
		Amount:            obj.Amount,
		RewardDebt:        obj.RewardDebt.Dec(),
		AccumulatedReward: obj.AccumulatedReward,
		Bump:              obj.Bump,
		Version:           obj.Version,
		CreatedAt:         obj.CreatedAt,
		LastUpdatedAt:     obj.LastUpdatedAt,
	}, nil
}

func fromPositionModel(obj *positionModel) (*stake.PositionRecord, error) {
	rewardDebt, err := uint256.FromDecimal(obj.RewardDebt)
	if err != nil {
		return nil, errors.Wrap(err, "invalid reward debt")
	}

	return &stake.PositionRecord{
		Id:                uint64(obj.Id.Int64),
		Address:           obj.Address,
		Depositor:         obj.Depositor,
		Amount:            obj.Amount,
		RewardDebt:        rewardDebt,
		AccumulatedReward: obj.AccumulatedReward,
		Bump:              obj.Bump,
		Version:           obj.Version,
		CreatedAt:         obj.CreatedAt,
		LastUpdatedAt:     obj.LastUpdatedAt,
	}, nil
}

func (m *configModel) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + configTableName + `
			(address, authority, mint, vault, reward_vault, reward_rate, reward_per_token, last_update_time, reward_duration, lock_period, total_rewards_distributed, total_staked, max_stake_per_user, paused, vault_bump, bump, version, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 1, $17, $17)
			RETURNING ` + configColumns

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Authority,
			m.Mint,
			m.Vault,
			m.RewardVault,
			m.RewardRate,
			m.RewardPerToken,
			m.LastUpdateTime,
			m.RewardDuration,
			m.LockPeriod,
			m.TotalRewardsDistributed,
			m.TotalStaked,
			m.MaxStakePerUser,
			m.Paused,
			m.VaultBump,
			m.Bump,
			m.CreatedAt.UTC(),
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, stake.ErrConfigExists)
	})
}

func (m *configModel) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + configTableName + `
			SET reward_rate = $2, reward_per_token = $3, last_update_time = $4, reward_duration = $5, lock_period = $6,
				total_rewards_distributed = $7, total_staked = $8, max_stake_per_user = $9, paused = $10,
				version = version + 1, last_updated_at = $11
			WHERE address = $1 AND version = $12
			RETURNING ` + configColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.RewardRate,
			m.RewardPerToken,
			m.LastUpdateTime,
			m.RewardDuration,
			m.LockPeriod,
			m.TotalRewardsDistributed,
			m.TotalStaked,
			m.MaxStakePerUser,
			m.Paused,
			time.Now().UTC(),
			m.Version,
		).StructScan(m)
		if pgutil.IsNoRows(err) {
			return dbCheckExists(ctx, tx, configTableName, m.Address, stake.ErrConfigNotFound, stake.ErrStaleConfigVersion)
		}
		return err
	})
}

func dbGetConfig(ctx context.Context, db *sqlx.DB, address string) (*configModel, error) {
	res := &configModel{}

	query := `SELECT ` + configColumns + ` FROM ` + configTableName + `
		WHERE address = $1
		LIMIT 1`

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, res, query, address)
	})
	if err != nil {
		return nil, pgutil.CheckNoRows(err, stake.ErrConfigNotFound)
	}
	return res, nil
}

func (m *positionModel) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + positionTableName + `
			(address, depositor, amount, reward_debt, accumulated_reward, bump, version, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $7)
			RETURNING ` + positionColumns

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Depositor,
			m.Amount,
			m.RewardDebt,
			m.AccumulatedReward,
			m.Bump,
			m.CreatedAt.UTC(),
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, stake.ErrPositionExists)
	})
}

func (m *positionModel) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + positionTableName + `
			SET amount = $2, reward_debt = $3, accumulated_reward = $4, version = version + 1, last_updated_at = $5
			WHERE address = $1 AND version = $6
			RETURNING ` + positionColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Amount,
			m.RewardDebt,
			m.AccumulatedReward,
			time.Now().UTC(),
			m.Version,
		).StructScan(m)
		if pgutil.IsNoRows(err) {
			return dbCheckExists(ctx, tx, positionTableName, m.Address, stake.ErrPositionNotFound, stake.ErrStalePositionVersion)
		}
		return err
	})
}

func dbGetPosition(ctx context.Context, db *sqlx.DB, address string) (*positionModel, error) {
	res := &positionModel{}

	query := `SELECT ` + positionColumns + ` FROM ` + positionTableName + `
		WHERE address = $1
		LIMIT 1`

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, res, query, address)
	})
	if err != nil {
		return nil, pgutil.CheckNoRows(err, stake.ErrPositionNotFound)
	}
	return res, nil
}

func dbGetAllPositions(ctx context.Context, db *sqlx.DB, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*positionModel, error) {
	res := []*positionModel{}

	query, args := q.PaginateQuery(
		`SELECT `+positionColumns+` FROM `+positionTableName+` WHERE (TRUE)`,
		nil,
		cursor,
		limit,
		direction,
	)

	err := db.SelectContext(ctx, &res, query, args...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, stake.ErrPositionNotFound)
	}
	if len(res) == 0 {
		return nil, stake.ErrPositionNotFound
	}
	return res, nil
}

func dbSumPositionAmounts(ctx context.Context, db *sqlx.DB) (uint64, error) {
	var res uint64

	query := `SELECT COALESCE(SUM(amount), 0)::BIGINT FROM ` + positionTableName

	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &res, query)
	})
	if err != nil {
		return 0, err
	}
	return res, nil
}

func dbCheckExists(ctx context.Context, tx *sqlx.Tx, table, address string, notFound, stale error) error {
	var count int
	query := `SELECT COUNT(*) FROM ` + table + ` WHERE address = $1`
	if err := tx.GetContext(ctx, &count, query, address); err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return stale
}

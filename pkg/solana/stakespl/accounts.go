package stakespl

import (
	"bytes"
	"crypto/ed25519"

	"github.com/franRappazzini/boltick-contracts/pkg/solana/binary"
)

var (
	configAccountDiscriminator = accountDiscriminator("Config")
	stakeAccountDiscriminator  = accountDiscriminator("Stake")
)

// Uint128 is a little endian 128 bit value split into 64 bit halves.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

type ConfigAccount struct {
	Authority               ed25519.PublicKey
	BoltMint                ed25519.PublicKey
	BoltStakingVault        ed25519.PublicKey
	RewardVault             ed25519.PublicKey
	RewardRate              uint64
	RewardPerToken          Uint128
	LastUpdateTime          uint64
	TotalStaked             uint64
	RewardDuration          uint64
	LockPeriod              uint64
	TotalRewardsDistributed uint64
	MaxStakePerUser         uint64
	Paused                  bool
	BoltStakingVaultBump    uint8
	Bump                    uint8
}

const ConfigAccountSize = (discriminatorSize +
	32 + // authority
	32 + // bolt_mint
	32 + // bolt_staking_vault
	32 + // reward_vault
	8 + // reward_rate
	16 + // reward_per_token
	8 + // last_update_time
	8 + // total_staked
	8 + // reward_duration
	8 + // lock_period
	8 + // total_rewards_distributed
	8 + // max_stake_per_user
	1 + // paused
	1 + // bolt_staking_vault_bump
	1) // bump

func (obj *ConfigAccount) Marshal() ([]byte, error) {
	enc := binary.NewEncoder(ConfigAccountSize)
	enc.PutBytes(configAccountDiscriminator)
	enc.PutKey32(obj.Authority)
	enc.PutKey32(obj.BoltMint)
	enc.PutKey32(obj.BoltStakingVault)
	enc.PutKey32(obj.RewardVault)
	enc.PutUint64(obj.RewardRate)
	enc.PutUint128(obj.RewardPerToken.Lo, obj.RewardPerToken.Hi)
	enc.PutUint64(obj.LastUpdateTime)
	enc.PutUint64(obj.TotalStaked)
	enc.PutUint64(obj.RewardDuration)
	enc.PutUint64(obj.LockPeriod)
	enc.PutUint64(obj.TotalRewardsDistributed)
	enc.PutUint64(obj.MaxStakePerUser)
	enc.PutBool(obj.Paused)
	enc.PutUint8(obj.BoltStakingVaultBump)
	enc.PutUint8(obj.Bump)
	return enc.Bytes()
}

func (obj *ConfigAccount) Unmarshal(data []byte) error {
	if err := checkAccountData(data, ConfigAccountSize, configAccountDiscriminator); err != nil {
		return err
	}

	dec := binary.NewDecoder(data[discriminatorSize:])
	obj.Authority = dec.GetKey32()
	obj.BoltMint = dec.GetKey32()
	obj.BoltStakingVault = dec.GetKey32()
	obj.RewardVault = dec.GetKey32()
	obj.RewardRate = dec.GetUint64()
	obj.RewardPerToken.Lo, obj.RewardPerToken.Hi = dec.GetUint128()
	obj.LastUpdateTime = dec.GetUint64()
	obj.TotalStaked = dec.GetUint64()
	obj.RewardDuration = dec.GetUint64()
	obj.LockPeriod = dec.GetUint64()
	obj.TotalRewardsDistributed = dec.GetUint64()
	obj.MaxStakePerUser = dec.GetUint64()
	obj.Paused = dec.GetBool()
	obj.BoltStakingVaultBump = dec.GetUint8()
	obj.Bump = dec.GetUint8()
	return dec.Err()
}

type StakeAccount struct {
	Depositor         ed25519.PublicKey
	Amount            uint64
	RewardDebt        Uint128
	AccumulatedReward uint64
	Initialized       bool
	Bump              uint8
}

const StakeAccountSize = (discriminatorSize +
	32 + // depositor
	8 + // amount
	16 + // reward_debt
	8 + // accumulated_reward
	1 + // initialized
	1) // bump

func (obj *StakeAccount) Marshal() ([]byte, error) {
	enc := binary.NewEncoder(StakeAccountSize)
	enc.PutBytes(stakeAccountDiscriminator)
	enc.PutKey32(obj.Depositor)
	enc.PutUint64(obj.Amount)
	enc.PutUint128(obj.RewardDebt.Lo, obj.RewardDebt.Hi)
	enc.PutUint64(obj.AccumulatedReward)
	enc.PutBool(obj.Initialized)
	enc.PutUint8(obj.Bump)
	return enc.Bytes()
}

func (obj *StakeAccount) Unmarshal(data []byte) error {
	if err := checkAccountData(data, StakeAccountSize, stakeAccountDiscriminator); err != nil {
		return err
	}

	dec := binary.NewDecoder(data[discriminatorSize:])
	obj.Depositor = dec.GetKey32()
	obj.Amount = dec.GetUint64()
	obj.RewardDebt.Lo, obj.RewardDebt.Hi = dec.GetUint128()
	obj.AccumulatedReward = dec.GetUint64()
	obj.Initialized = dec.GetBool()
	obj.Bump = dec.GetUint8()
	return dec.Err()
}

func checkAccountData(data []byte, size int, discriminator []byte) error {
	if len(data) != size {
		return ErrInvalidAccountData
	}
	if !bytes.Equal(data[:discriminatorSize], discriminator) {
		return ErrInvalidAccountData
	}
	return nil
}

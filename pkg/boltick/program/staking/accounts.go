package staking

import (
	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/stakespl"
)

// MarshalConfig encodes the config in its on-chain account layout
func MarshalConfig(record *stake.ConfigRecord) ([]byte, error) {
	var keys [4][]byte
	for i, address := range []string{record.Authority, record.Mint, record.Vault, record.RewardVault} {
		key, err := decodeKey(address)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}

	account := &stakespl.ConfigAccount{
		Authority:               keys[0],
		BoltMint:                keys[1],
		BoltStakingVault:        keys[2],
		RewardVault:             keys[3],
		RewardRate:              record.RewardRate,
		RewardPerToken:          toUint128(record.RewardPerToken),
		LastUpdateTime:          record.LastUpdateTime,
		TotalStaked:             record.TotalStaked,
		RewardDuration:          record.RewardDuration,
		LockPeriod:              record.LockPeriod,
		TotalRewardsDistributed: record.TotalRewardsDistributed,
		MaxStakePerUser:         record.MaxStakePerUser,
		Paused:                  record.Paused,
		BoltStakingVaultBump:    record.VaultBump,
		Bump:                    record.Bump,
	}
	return account.Marshal()
}

// MarshalPosition encodes the position in its on-chain account layout
func MarshalPosition(record *stake.PositionRecord) ([]byte, error) {
	depositor, err := decodeKey(record.Depositor)
	if err != nil {
		return nil, err
	}

	account := &stakespl.StakeAccount{
		Depositor:         depositor,
		Amount:            record.Amount,
		RewardDebt:        toUint128(record.RewardDebt),
		AccumulatedReward: record.AccumulatedReward,
		Initialized:       true,
		Bump:              record.Bump,
	}
	return account.Marshal()
}

func decodeKey(address string) ([]byte, error) {
	account, err := common.NewAccountFromPublicKeyString(address)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid address %s", address)
	}
	return account.ToBytes(), nil
}

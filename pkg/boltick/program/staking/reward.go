package staking

import (
	"github.com/holiman/uint256"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/stakespl"
)

var (
	rewardPrecision = uint256.NewInt(stakespl.RewardPrecision)

	// Reward fields are persisted as u128
	maxUint128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
)

// accrueRewardPerToken returns the reward per token after accruing
// rewardRate per second since the last update, capped at the end of the
// reward window. Nothing accrues while nothing is staked.
func accrueRewardPerToken(config *stake.ConfigRecord, now uint64) (*uint256.Int, error) {
	current := zeroIfNil(config.RewardPerToken)
	if config.TotalStaked == 0 {
		return current, nil
	}

	end, overflow := addUint64(config.LastUpdateTime, config.RewardDuration)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	effective := now
	if end < effective {
		effective = end
	}
	var elapsed uint64
	if effective > config.LastUpdateTime {
		elapsed = effective - config.LastUpdateTime
	}

	accrued := new(uint256.Int).Mul(uint256.NewInt(config.RewardRate), uint256.NewInt(elapsed))
	scaled, overflow := new(uint256.Int).MulOverflow(accrued, rewardPrecision)
	if overflow || scaled.Gt(maxUint128) {
		return nil, ErrArithmeticOverflow
	}
	increment := new(uint256.Int).Div(scaled, uint256.NewInt(config.TotalStaked))

	updated, overflow := new(uint256.Int).AddOverflow(current, increment)
	if overflow || updated.Gt(maxUint128) {
		return nil, ErrArithmeticOverflow
	}
	return updated, nil
}

// entitlement is amount * rewardPerToken / precision
func entitlement(amount uint64, rewardPerToken *uint256.Int) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(amount), zeroIfNil(rewardPerToken))
	if overflow || product.Gt(maxUint128) {
		return nil, ErrArithmeticOverflow
	}
	return product.Div(product, rewardPrecision), nil
}

// accumulate adds the reward earned since the position's debt was last set
// to its accumulated reward. A debt above the entitlement earns nothing.
func accumulate(position *stake.PositionRecord, rewardPerToken *uint256.Int) (uint64, error) {
	earned, err := entitlement(position.Amount, rewardPerToken)
	if err != nil {
		return 0, err
	}

	pending := new(uint256.Int)
	debt := zeroIfNil(position.RewardDebt)
	if earned.Gt(debt) {
		pending.Sub(earned, debt)
	}

	total, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(position.AccumulatedReward), pending)
	if overflow || !total.IsUint64() {
		return 0, ErrArithmeticOverflow
	}
	return total.Uint64(), nil
}

func toUint128(v *uint256.Int) stakespl.Uint128 {
	v = zeroIfNil(v)
	return stakespl.Uint128{Lo: v[0], Hi: v[1]}
}

func zeroIfNil(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

func addUint64(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum < a
}

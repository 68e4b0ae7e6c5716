package tests

import (
	"context"
	"fmt"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

func RunTests(t *testing.T, s stake.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s stake.Store){
		testConfigRoundTrip,
		testPositionRoundTrip,
		testAllPositions,
	} {
		tf(t, s)
		teardown()
	}
}

func testConfigRoundTrip(t *testing.T, s stake.Store) {
	t.Run("testConfigRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetConfig(ctx, "config")
		assert.Equal(t, stake.ErrConfigNotFound, err)

		expected := &stake.ConfigRecord{
			Address:        "config",
			Authority:      "authority",
			Mint:           "bolt",
			Vault:          "vault",
			RewardVault:    "reward_vault",
			RewardPerToken: uint256.NewInt(0),
			VaultBump:      254,
			Bump:           255,
		}
		cloned := expected.Clone()
		require.NoError(t, s.PutConfig(ctx, expected))
		assert.EqualValues(t, 1, expected.Version)
		assert.Equal(t, stake.ErrConfigExists, s.PutConfig(ctx, &cloned))

		stale := expected.Clone()

		// Larger than 64 bits to exercise the full width
		large := new(uint256.Int).Lsh(uint256.NewInt(3), 100)

		expected.TotalStaked = 500
		expected.RewardPerToken = large
		expected.RewardRate = 10
		expected.RewardDuration = 60
		expected.MaxStakePerUser = 1000
		expected.Paused = true
		expected.Mint = "other"
		require.NoError(t, s.UpdateConfig(ctx, expected))
		assert.EqualValues(t, 2, expected.Version)
		assert.Equal(t, "bolt", expected.Mint)

		stale.TotalStaked = 1
		assert.Equal(t, stake.ErrStaleConfigVersion, s.UpdateConfig(ctx, &stale))

		actual, err := s.GetConfig(ctx, "config")
		require.NoError(t, err)
		assert.Equal(t, expected.Id, actual.Id)
		assert.EqualValues(t, 500, actual.TotalStaked)
		assert.True(t, large.Eq(actual.RewardPerToken))
		assert.EqualValues(t, 10, actual.RewardRate)
		assert.EqualValues(t, 60, actual.RewardDuration)
		assert.EqualValues(t, 1000, actual.MaxStakePerUser)
		assert.True(t, actual.Paused)
		assert.Equal(t, "bolt", actual.Mint)
		assert.Equal(t, "vault", actual.Vault)
		assert.EqualValues(t, 254, actual.VaultBump)
	})
}

func testPositionRoundTrip(t *testing.T, s stake.Store) {
	t.Run("testPositionRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetPosition(ctx, "stake")
		assert.Equal(t, stake.ErrPositionNotFound, err)

		expected := newPosition("depositor", 100)
		cloned := expected.Clone()
		require.NoError(t, s.PutPosition(ctx, expected))
		assert.EqualValues(t, 1, expected.Version)
		assert.Equal(t, stake.ErrPositionExists, s.PutPosition(ctx, &cloned))

		stale := expected.Clone()

		expected.Amount = 150
		expected.RewardDebt = uint256.NewInt(42)
		expected.AccumulatedReward = 7
		require.NoError(t, s.UpdatePosition(ctx, expected))
		assert.EqualValues(t, 2, expected.Version)

		stale.Amount = 0
		assert.Equal(t, stake.ErrStalePositionVersion, s.UpdatePosition(ctx, &stale))

		missing := newPosition("missing", 1)
		missing.Version = 1
		assert.Equal(t, stake.ErrPositionNotFound, s.UpdatePosition(ctx, missing))

		actual, err := s.GetPosition(ctx, expected.Address)
		require.NoError(t, err)
		assert.Equal(t, "depositor", actual.Depositor)
		assert.EqualValues(t, 150, actual.Amount)
		assert.EqualValues(t, 42, actual.RewardDebt.Uint64())
		assert.EqualValues(t, 7, actual.AccumulatedReward)
		assert.EqualValues(t, 2, actual.Version)
	})
}

func testAllPositions(t *testing.T, s stake.Store) {
	t.Run("testAllPositions", func(t *testing.T) {
		ctx := context.Background()

		total, err := s.SumPositionAmounts(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)

		_, err = s.GetAllPositions(ctx, query.EmptyCursor, 0, query.Ascending)
		assert.Equal(t, stake.ErrPositionNotFound, err)

		var expected []*stake.PositionRecord
		for i := 0; i < 5; i++ {
			record := newPosition(fmt.Sprintf("depositor%d", i), uint64(10*(i+1)))
			require.NoError(t, s.PutPosition(ctx, record))
			expected = append(expected, record)
		}

		total, err = s.SumPositionAmounts(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 150, total)

		actual, err := s.GetAllPositions(ctx, query.EmptyCursor, 3, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 3)
		for i := range actual {
			assert.Equal(t, expected[i].Depositor, actual[i].Depositor)
		}

		actual, err = s.GetAllPositions(ctx, query.ToCursor(actual[2].Id), 3, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.Equal(t, expected[3].Depositor, actual[0].Depositor)
		assert.Equal(t, expected[4].Depositor, actual[1].Depositor)
	})
}

func newPosition(depositor string, amount uint64) *stake.PositionRecord {
	return &stake.PositionRecord{
		Address:    "stake_" + depositor,
		Depositor:  depositor,
		Amount:     amount,
		RewardDebt: uint256.NewInt(0),
		Bump:       252,
	}
}

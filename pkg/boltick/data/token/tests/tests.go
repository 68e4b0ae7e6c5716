package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
)

func RunTests(t *testing.T, s token.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s token.Store){
		testMintRoundTrip,
		testAccountRoundTrip,
		testGetAccountsByOwner,
	} {
		tf(t, s)
		teardown()
	}
}

func testMintRoundTrip(t *testing.T, s token.Store) {
	t.Run("testMintRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetMint(ctx, "mint")
		assert.Equal(t, token.ErrMintNotFound, err)

		expected := &token.MintRecord{
			Address:       "mint",
			MintAuthority: "authority",
		}
		cloned := expected.Clone()
		require.NoError(t, s.PutMint(ctx, expected))
		assert.EqualValues(t, 1, expected.Version)
		assert.Equal(t, token.ErrMintExists, s.PutMint(ctx, &cloned))

		stale := expected.Clone()

		expected.Supply = 1
		expected.MintAuthority = "attacker"
		require.NoError(t, s.UpdateMint(ctx, expected))
		assert.EqualValues(t, 2, expected.Version)
		assert.Equal(t, "authority", expected.MintAuthority)

		stale.Supply = 2
		assert.Equal(t, token.ErrStaleMintVersion, s.UpdateMint(ctx, &stale))

		missing := &token.MintRecord{Address: "missing", MintAuthority: "authority", Version: 1}
		assert.Equal(t, token.ErrMintNotFound, s.UpdateMint(ctx, missing))

		actual, err := s.GetMint(ctx, "mint")
		require.NoError(t, err)
		assert.Equal(t, expected.Id, actual.Id)
		assert.EqualValues(t, 1, actual.Supply)
		assert.EqualValues(t, 0, actual.Decimals)
		assert.EqualValues(t, 2, actual.Version)
		assert.Equal(t, "authority", actual.MintAuthority)
	})
}

func testAccountRoundTrip(t *testing.T, s token.Store) {
	t.Run("testAccountRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAccount(ctx, "ata")
		assert.Equal(t, token.ErrAccountNotFound, err)

		expected := &token.AccountRecord{
			Address: "ata",
			Owner:   "owner",
			Mint:    "mint",
			Amount:  10,
		}
		cloned := expected.Clone()
		require.NoError(t, s.PutAccount(ctx, expected))
		assert.EqualValues(t, 1, expected.Version)
		assert.Equal(t, token.ErrAccountExists, s.PutAccount(ctx, &cloned))

		stale := expected.Clone()

		expected.Amount = 4
		require.NoError(t, s.UpdateAccount(ctx, expected))
		assert.EqualValues(t, 2, expected.Version)

		stale.Amount = 0
		assert.Equal(t, token.ErrStaleAccountVersion, s.UpdateAccount(ctx, &stale))

		missing := &token.AccountRecord{Address: "missing", Owner: "owner", Mint: "mint", Version: 1}
		assert.Equal(t, token.ErrAccountNotFound, s.UpdateAccount(ctx, missing))

		actual, err := s.GetAccount(ctx, "ata")
		require.NoError(t, err)
		assert.Equal(t, expected.Id, actual.Id)
		assert.Equal(t, "owner", actual.Owner)
		assert.Equal(t, "mint", actual.Mint)
		assert.EqualValues(t, 4, actual.Amount)
		assert.EqualValues(t, 2, actual.Version)
	})
}

func testGetAccountsByOwner(t *testing.T, s token.Store) {
	t.Run("testGetAccountsByOwner", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAccountsByOwner(ctx, "owner")
		assert.Equal(t, token.ErrAccountNotFound, err)

		for _, address := range []string{"ata1", "ata2"} {
			require.NoError(t, s.PutAccount(ctx, &token.AccountRecord{
				Address: address,
				Owner:   "owner",
				Mint:    "mint_" + address,
				Amount:  1,
			}))
		}
		require.NoError(t, s.PutAccount(ctx, &token.AccountRecord{
			Address: "ata3",
			Owner:   "someone",
			Mint:    "mint",
		}))

		actual, err := s.GetAccountsByOwner(ctx, "owner")
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.Equal(t, "ata1", actual[0].Address)
		assert.Equal(t, "ata2", actual[1].Address)
	})
}

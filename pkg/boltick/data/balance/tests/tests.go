package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/balance"
)

func RunTests(t *testing.T, s balance.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s balance.Store){
		testRoundTrip,
		testVersionedUpdate,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s balance.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "buyer")
		assert.Equal(t, balance.ErrNotFound, err)

		expected := &balance.Record{
			Account:  "buyer",
			Lamports: 1_000_000_000,
		}
		cloned := expected.Clone()
		require.NoError(t, s.Put(ctx, expected))
		assert.EqualValues(t, 1, expected.Version)
		assert.Equal(t, balance.ErrExists, s.Put(ctx, &cloned))

		actual, err := s.Get(ctx, "buyer")
		require.NoError(t, err)
		assert.Equal(t, expected.Id, actual.Id)
		assert.Equal(t, expected.Lamports, actual.Lamports)
		assert.Equal(t, expected.Version, actual.Version)
		assert.Equal(t, expected.CreatedAt.Unix(), actual.CreatedAt.Unix())
	})
}

func testVersionedUpdate(t *testing.T, s balance.Store) {
	t.Run("testVersionedUpdate", func(t *testing.T) {
		ctx := context.Background()

		record := &balance.Record{Account: "buyer", Lamports: 10, Version: 1}
		assert.Equal(t, balance.ErrNotFound, s.Update(ctx, record))

		require.NoError(t, s.Put(ctx, record))
		stale := record.Clone()

		record.Lamports = 4
		require.NoError(t, s.Update(ctx, record))
		assert.EqualValues(t, 2, record.Version)

		stale.Lamports = 0
		assert.Equal(t, balance.ErrStaleVersion, s.Update(ctx, &stale))

		actual, err := s.Get(ctx, "buyer")
		require.NoError(t, err)
		assert.EqualValues(t, 4, actual.Lamports)
		assert.EqualValues(t, 2, actual.Version)
	})
}

package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig"
)

func RunTests(t *testing.T, s ticketconfig.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s ticketconfig.Store){
		testRoundTrip,
		testVersionedUpdate,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s ticketconfig.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "config")
		assert.Equal(t, ticketconfig.ErrNotFound, err)

		expected := &ticketconfig.Record{
			Address:      "config",
			Authority:    "authority",
			Treasury:     "treasury",
			TreasuryBump: 254,
			Bump:         255,
		}
		cloned := expected.Clone()
		require.NoError(t, s.Put(ctx, expected))
		assert.EqualValues(t, 1, expected.Version)
		assert.NotZero(t, expected.Id)
		assert.False(t, expected.CreatedAt.IsZero())

		assert.Equal(t, ticketconfig.ErrExists, s.Put(ctx, &cloned))

		actual, err := s.Get(ctx, "config")
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)
		assert.EqualValues(t, 0, actual.EventCount)
	})
}

func testVersionedUpdate(t *testing.T, s ticketconfig.Store) {
	t.Run("testVersionedUpdate", func(t *testing.T) {
		ctx := context.Background()

		missing := &ticketconfig.Record{
			Address:   "config",
			Authority: "authority",
			Treasury:  "treasury",
			Version:   1,
		}
		assert.Equal(t, ticketconfig.ErrNotFound, s.Update(ctx, missing))

		record := missing.Clone()
		require.NoError(t, s.Put(ctx, &record))

		first := record.Clone()
		second := record.Clone()

		first.EventCount = 1
		require.NoError(t, s.Update(ctx, &first))
		assert.EqualValues(t, 2, first.Version)

		second.EventCount = 1
		assert.Equal(t, ticketconfig.ErrStaleVersion, s.Update(ctx, &second))

		// Immutable fields are never rewritten
		first.EventCount = 2
		first.Authority = "attacker"
		require.NoError(t, s.Update(ctx, &first))
		assert.EqualValues(t, 3, first.Version)

		actual, err := s.Get(ctx, "config")
		require.NoError(t, err)
		assert.EqualValues(t, 2, actual.EventCount)
		assert.Equal(t, "authority", actual.Authority)
		assert.EqualValues(t, 3, actual.Version)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *ticketconfig.Record) {
	assert.Equal(t, obj1.Id, obj2.Id)
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Authority, obj2.Authority)
	assert.Equal(t, obj1.Treasury, obj2.Treasury)
	assert.Equal(t, obj1.EventCount, obj2.EventCount)
	assert.Equal(t, obj1.TreasuryBump, obj2.TreasuryBump)
	assert.Equal(t, obj1.Bump, obj2.Bump)
	assert.Equal(t, obj1.Version, obj2.Version)
	assert.Equal(t, obj1.CreatedAt.Unix(), obj2.CreatedAt.Unix())
}

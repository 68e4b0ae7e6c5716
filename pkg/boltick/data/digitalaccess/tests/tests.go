package tests

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess"
)

func RunTests(t *testing.T, s digitalaccess.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s digitalaccess.Store){
		testRoundTrip,
		testVersionedUpdate,
		testGetAllByEvent,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s digitalaccess.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "event0_access0")
		assert.Equal(t, digitalaccess.ErrNotFound, err)

		expected := newRecord("event0", 0, 1)
		cloned := expected.Clone()
		require.NoError(t, s.Put(ctx, expected))
		assert.EqualValues(t, 1, expected.Version)

		assert.Equal(t, digitalaccess.ErrExists, s.Put(ctx, &cloned))

		sameId := newRecord("event0", 0, 1)
		sameId.Address = "other"
		assert.Equal(t, digitalaccess.ErrExists, s.Put(ctx, sameId))

		actual, err := s.Get(ctx, "event0_access0")
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		invalid := newRecord("event0", 1, 0)
		assert.Error(t, s.Put(ctx, invalid))
	})
}

func testVersionedUpdate(t *testing.T, s digitalaccess.Store) {
	t.Run("testVersionedUpdate", func(t *testing.T) {
		ctx := context.Background()

		record := newRecord("event0", 0, 2)
		record.Version = 1
		assert.Equal(t, digitalaccess.ErrNotFound, s.Update(ctx, record))

		require.NoError(t, s.Put(ctx, record))
		stale := record.Clone()

		record.CurrentMinted = 1
		record.Price = 1
		require.NoError(t, s.Update(ctx, record))
		assert.EqualValues(t, 2, record.Version)
		assert.EqualValues(t, 500, record.Price)

		stale.CurrentMinted = 1
		assert.Equal(t, digitalaccess.ErrStaleVersion, s.Update(ctx, &stale))

		record.CurrentMinted = 3
		assert.Error(t, s.Update(ctx, record))

		actual, err := s.Get(ctx, record.Address)
		require.NoError(t, err)
		assert.EqualValues(t, 1, actual.CurrentMinted)
		assert.EqualValues(t, 2, actual.Version)
	})
}

func testGetAllByEvent(t *testing.T, s digitalaccess.Store) {
	t.Run("testGetAllByEvent", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAllByEvent(ctx, "event0")
		assert.Equal(t, digitalaccess.ErrNotFound, err)

		for _, id := range []uint8{2, 0, 1} {
			require.NoError(t, s.Put(ctx, newRecord("event0", id, 3)))
		}
		require.NoError(t, s.Put(ctx, newRecord("event1", 0, 3)))

		actual, err := s.GetAllByEvent(ctx, "event0")
		require.NoError(t, err)
		require.Len(t, actual, 3)
		for i, record := range actual {
			assert.EqualValues(t, i, record.AccessId)
			assert.Equal(t, "event0", record.Event)
		}
	})
}

func newRecord(event string, id uint8, maxSupply uint64) *digitalaccess.Record {
	return &digitalaccess.Record{
		Address:     fmt.Sprintf("%s_access%d", event, id),
		Event:       event,
		AccessId:    id,
		Price:       500,
		MaxSupply:   maxSupply,
		Name:        "General",
		Symbol:      "GA",
		Description: "General admission",
		Uri:         "https://example.com/ga.json",
		Bump:        253,
	}
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *digitalaccess.Record) {
	assert.Equal(t, obj1.Id, obj2.Id)
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Event, obj2.Event)
	assert.Equal(t, obj1.AccessId, obj2.AccessId)
	assert.Equal(t, obj1.Price, obj2.Price)
	assert.Equal(t, obj1.MaxSupply, obj2.MaxSupply)
	assert.Equal(t, obj1.CurrentMinted, obj2.CurrentMinted)
	assert.Equal(t, obj1.Name, obj2.Name)
	assert.Equal(t, obj1.Symbol, obj2.Symbol)
	assert.Equal(t, obj1.Description, obj2.Description)
	assert.Equal(t, obj1.Uri, obj2.Uri)
	assert.Equal(t, obj1.Bump, obj2.Bump)
	assert.Equal(t, obj1.Version, obj2.Version)
}

package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

func RunTests(t *testing.T, s event.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s event.Store){
		testRoundTrip,
		testVersionedUpdate,
		testGetAllByCreator,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s event.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "event0")
		assert.Equal(t, event.ErrNotFound, err)
		_, err = s.GetByEventId(ctx, 0)
		assert.Equal(t, event.ErrNotFound, err)

		expected := newRecord(0, "creator")
		cloned := expected.Clone()
		require.NoError(t, s.Put(ctx, expected))
		assert.EqualValues(t, 1, expected.Version)

		assert.Equal(t, event.ErrExists, s.Put(ctx, &cloned))

		sameId := newRecord(0, "creator")
		sameId.Address = "other"
		assert.Equal(t, event.ErrExists, s.Put(ctx, sameId))

		actual, err := s.Get(ctx, "event0")
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		actual, err = s.GetByEventId(ctx, 0)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)
	})
}

func testVersionedUpdate(t *testing.T, s event.Store) {
	t.Run("testVersionedUpdate", func(t *testing.T) {
		ctx := context.Background()

		record := newRecord(3, "creator")
		record.Version = 1
		assert.Equal(t, event.ErrNotFound, s.Update(ctx, record))

		require.NoError(t, s.Put(ctx, record))

		stale := record.Clone()

		record.CurrentDigitalAccessCount = 1
		record.CurrentNftCount = 5
		record.Name = "renamed"
		require.NoError(t, s.Update(ctx, record))
		assert.EqualValues(t, 2, record.Version)

		stale.CurrentNftCount = 6
		assert.Equal(t, event.ErrStaleVersion, s.Update(ctx, &stale))

		actual, err := s.Get(ctx, record.Address)
		require.NoError(t, err)
		assert.EqualValues(t, 1, actual.CurrentDigitalAccessCount)
		assert.EqualValues(t, 5, actual.CurrentNftCount)
		assert.Equal(t, "Test Event", actual.Name)
		assert.EqualValues(t, 2, actual.Version)
	})
}

func testGetAllByCreator(t *testing.T, s event.Store) {
	t.Run("testGetAllByCreator", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAllByCreator(ctx, "creator", query.EmptyCursor, 10, query.Ascending)
		assert.Equal(t, event.ErrNotFound, err)

		var expected []*event.Record
		for i := 0; i < 5; i++ {
			record := newRecord(uint64(i), "creator")
			require.NoError(t, s.Put(ctx, record))
			expected = append(expected, record)

			other := newRecord(uint64(100+i), "other")
			require.NoError(t, s.Put(ctx, other))
		}

		actual, err := s.GetAllByCreator(ctx, "creator", query.EmptyCursor, 10, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 5)
		for i := range actual {
			assertEquivalentRecords(t, expected[i], actual[i])
		}

		actual, err = s.GetAllByCreator(ctx, "creator", query.ToCursor(expected[1].Id), 2, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.Equal(t, expected[2].EventId, actual[0].EventId)
		assert.Equal(t, expected[3].EventId, actual[1].EventId)

		actual, err = s.GetAllByCreator(ctx, "creator", query.ToCursor(expected[1].Id), 10, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.Equal(t, expected[0].EventId, actual[0].EventId)
	})
}

func newRecord(eventId uint64, creator string) *event.Record {
	return &event.Record{
		Address:        fmt.Sprintf("event%d", eventId),
		EventId:        eventId,
		Creator:        creator,
		CollectionMint: fmt.Sprintf("collection%d", eventId),
		Name:           "Test Event",
		Description:    "TE",
		Date:           time.Now(),
		Bump:           254,
	}
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *event.Record) {
	assert.Equal(t, obj1.Id, obj2.Id)
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.EventId, obj2.EventId)
	assert.Equal(t, obj1.Creator, obj2.Creator)
	assert.Equal(t, obj1.CollectionMint, obj2.CollectionMint)
	assert.Equal(t, obj1.Name, obj2.Name)
	assert.Equal(t, obj1.Description, obj2.Description)
	assert.Equal(t, obj1.Date.Unix(), obj2.Date.Unix())
	assert.Equal(t, obj1.CurrentDigitalAccessCount, obj2.CurrentDigitalAccessCount)
	assert.Equal(t, obj1.CurrentNftCount, obj2.CurrentNftCount)
	assert.Equal(t, obj1.Bump, obj2.Bump)
	assert.Equal(t, obj1.Version, obj2.Version)
}

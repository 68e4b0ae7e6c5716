package tests

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticket"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

func RunTests(t *testing.T, s ticket.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s ticket.Store){
		testRoundTrip,
		testGetAllByOwner,
		testCounts,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s ticket.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "event0", 0)
		assert.Equal(t, ticket.ErrNotFound, err)
		_, err = s.GetByMint(ctx, "event0_mint0")
		assert.Equal(t, ticket.ErrNotFound, err)

		expected := newRecord("event0", "access0", 0, "owner")
		cloned := expected.Clone()
		require.NoError(t, s.Put(ctx, expected))
		assert.NotZero(t, expected.Id)

		assert.Equal(t, ticket.ErrExists, s.Put(ctx, &cloned))

		sameMint := newRecord("event0", "access0", 1, "owner")
		sameMint.Mint = expected.Mint
		assert.Equal(t, ticket.ErrExists, s.Put(ctx, sameMint))

		actual, err := s.Get(ctx, "event0", 0)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		actual, err = s.GetByMint(ctx, expected.Mint)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		_, err = s.Get(ctx, "event1", 0)
		assert.Equal(t, ticket.ErrNotFound, err)
	})
}

func testGetAllByOwner(t *testing.T, s ticket.Store) {
	t.Run("testGetAllByOwner", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAllByOwner(ctx, "owner", query.EmptyCursor, 0, query.Ascending)
		assert.Equal(t, ticket.ErrNotFound, err)

		var expected []*ticket.Record
		for i := 0; i < 4; i++ {
			record := newRecord("event0", "access0", uint64(i), "owner")
			require.NoError(t, s.Put(ctx, record))
			expected = append(expected, record)
		}
		require.NoError(t, s.Put(ctx, newRecord("event1", "access1", 0, "someone")))

		actual, err := s.GetAllByOwner(ctx, "owner", query.EmptyCursor, 0, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 4)
		for i := range actual {
			assertEquivalentRecords(t, expected[i], actual[i])
		}

		actual, err = s.GetAllByOwner(ctx, "owner", query.EmptyCursor, 2, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.EqualValues(t, 3, actual[0].NftId)
		assert.EqualValues(t, 2, actual[1].NftId)

		_, err = s.GetAllByOwner(ctx, "owner", query.ToCursor(expected[3].Id), 2, query.Ascending)
		assert.Equal(t, ticket.ErrNotFound, err)
	})
}

func testCounts(t *testing.T, s ticket.Store) {
	t.Run("testCounts", func(t *testing.T) {
		ctx := context.Background()

		count, err := s.CountByEvent(ctx, "event0")
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)

		for i := 0; i < 3; i++ {
			require.NoError(t, s.Put(ctx, newRecord("event0", "access0", uint64(i), "owner")))
		}
		require.NoError(t, s.Put(ctx, newRecord("event0", "access1", 3, "owner")))

		count, err = s.CountByEvent(ctx, "event0")
		require.NoError(t, err)
		assert.EqualValues(t, 4, count)

		count, err = s.CountByDigitalAccess(ctx, "access0")
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)

		count, err = s.CountByDigitalAccess(ctx, "access1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func newRecord(event, digitalAccess string, nftId uint64, owner string) *ticket.Record {
	return &ticket.Record{
		Event:         event,
		NftId:         nftId,
		DigitalAccess: digitalAccess,
		Mint:          fmt.Sprintf("%s_mint%d", event, nftId),
		Metadata:      fmt.Sprintf("%s_metadata%d", event, nftId),
		Owner:         owner,
		TokenAccount:  fmt.Sprintf("%s_ata%d", owner, nftId),
		Price:         500,
	}
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *ticket.Record) {
	assert.Equal(t, obj1.Id, obj2.Id)
	assert.Equal(t, obj1.Event, obj2.Event)
	assert.Equal(t, obj1.NftId, obj2.NftId)
	assert.Equal(t, obj1.DigitalAccess, obj2.DigitalAccess)
	assert.Equal(t, obj1.AccessId, obj2.AccessId)
	assert.Equal(t, obj1.Mint, obj2.Mint)
	assert.Equal(t, obj1.Metadata, obj2.Metadata)
	assert.Equal(t, obj1.Owner, obj2.Owner)
	assert.Equal(t, obj1.TokenAccount, obj2.TokenAccount)
	assert.Equal(t, obj1.Price, obj2.Price)
	assert.Equal(t, obj1.CreatedAt.Unix(), obj2.CreatedAt.Unix())
}

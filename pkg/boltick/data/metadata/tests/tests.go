package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata"
)

func RunTests(t *testing.T, s metadata.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s metadata.Store){
		testRoundTrip,
		testVersionedUpdate,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s metadata.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetByMint(ctx, "mint")
		assert.Equal(t, metadata.ErrNotFound, err)

		collection := &metadata.Record{
			Address:         "collection_metadata",
			Mint:            "collection_mint",
			UpdateAuthority: "collection_mint",
			Name:            "Test Event",
			Symbol:          "TE",
			Uri:             "https://example.com/event.json",
			Creator:         "collection_mint",
			CreatorShare:    100,
			CreatorVerified: true,
			IsCollection:    true,
			MasterEdition:   "collection_edition",
		}
		require.NoError(t, s.Put(ctx, collection))

		expected := &metadata.Record{
			Address:            "metadata",
			Mint:               "mint",
			UpdateAuthority:    "collection_mint",
			Name:               "General #0",
			Symbol:             "GA",
			Uri:                "https://example.com/ga.json",
			Creator:            "collection_mint",
			CreatorShare:       100,
			CreatorVerified:    true,
			Collection:         "collection_mint",
			CollectionVerified: true,
			MasterEdition:      "edition",
			IsMutable:          true,
		}
		cloned := expected.Clone()
		require.NoError(t, s.Put(ctx, expected))
		assert.EqualValues(t, 1, expected.Version)
		assert.Equal(t, metadata.ErrExists, s.Put(ctx, &cloned))

		actual, err := s.GetByMint(ctx, "mint")
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		actual, err = s.GetByMint(ctx, "collection_mint")
		require.NoError(t, err)
		assertEquivalentRecords(t, collection, actual)
		assert.Empty(t, actual.Collection)

		invalid := collection.Clone()
		invalid.Address = "other"
		invalid.Mint = "other"
		invalid.Collection = "collection_mint"
		assert.Error(t, s.Put(ctx, &invalid))
	})
}

func testVersionedUpdate(t *testing.T, s metadata.Store) {
	t.Run("testVersionedUpdate", func(t *testing.T) {
		ctx := context.Background()

		record := &metadata.Record{
			Address:         "metadata",
			Mint:            "mint",
			UpdateAuthority: "authority",
			Name:            "General #0",
			IsMutable:       true,
			Version:         1,
		}
		assert.Equal(t, metadata.ErrNotFound, s.Update(ctx, record))

		require.NoError(t, s.Put(ctx, record))
		stale := record.Clone()

		record.Name = "VIP #0"
		record.Symbol = "VIP"
		record.Uri = "https://example.com/vip.json"
		record.UpdateAuthority = "attacker"
		require.NoError(t, s.Update(ctx, record))
		assert.EqualValues(t, 2, record.Version)
		assert.Equal(t, "authority", record.UpdateAuthority)

		stale.Name = "Other #0"
		assert.Equal(t, metadata.ErrStaleVersion, s.Update(ctx, &stale))

		actual, err := s.GetByMint(ctx, "mint")
		require.NoError(t, err)
		assert.Equal(t, "VIP #0", actual.Name)
		assert.Equal(t, "VIP", actual.Symbol)
		assert.Equal(t, "https://example.com/vip.json", actual.Uri)
		assert.EqualValues(t, 2, actual.Version)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *metadata.Record) {
	assert.Equal(t, obj1.Id, obj2.Id)
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Mint, obj2.Mint)
	assert.Equal(t, obj1.UpdateAuthority, obj2.UpdateAuthority)
	assert.Equal(t, obj1.Name, obj2.Name)
	assert.Equal(t, obj1.Symbol, obj2.Symbol)
	assert.Equal(t, obj1.Uri, obj2.Uri)
	assert.Equal(t, obj1.SellerFeeBasisPoints, obj2.SellerFeeBasisPoints)
	assert.Equal(t, obj1.Creator, obj2.Creator)
	assert.Equal(t, obj1.CreatorShare, obj2.CreatorShare)
	assert.Equal(t, obj1.CreatorVerified, obj2.CreatorVerified)
	assert.Equal(t, obj1.Collection, obj2.Collection)
	assert.Equal(t, obj1.CollectionVerified, obj2.CollectionVerified)
	assert.Equal(t, obj1.IsCollection, obj2.IsCollection)
	assert.Equal(t, obj1.MasterEdition, obj2.MasterEdition)
	assert.Equal(t, obj1.IsMutable, obj2.IsMutable)
	assert.Equal(t, obj1.Version, obj2.Version)
}

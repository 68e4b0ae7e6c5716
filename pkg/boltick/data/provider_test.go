package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
	pg "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
)

func TestMemoryProvider_ExecuteInTx(t *testing.T) {
	ctx := context.Background()
	provider := NewTestDataProvider()

	err := provider.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		return provider.CreateMint(ctx, &token.MintRecord{
			Address:       "mint1",
			MintAuthority: "authority",
		})
	})
	require.NoError(t, err)

	// Every write of a failed transaction is undone
	err = provider.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		record, err := provider.GetMint(ctx, "mint1")
		if err != nil {
			return err
		}
		record.Supply = 100
		if err := provider.UpdateMint(ctx, record); err != nil {
			return err
		}

		err = provider.CreateMint(ctx, &token.MintRecord{
			Address:       "mint2",
			MintAuthority: "authority",
		})
		if err != nil {
			return err
		}
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)

	record, err := provider.GetMint(ctx, "mint1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, record.Supply)
	assert.EqualValues(t, 1, record.Version)

	_, err = provider.GetMint(ctx, "mint2")
	assert.Equal(t, token.ErrMintNotFound, err)

	// Ids handed out by the failed transaction are reused
	err = provider.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		return provider.CreateMint(ctx, &token.MintRecord{
			Address:       "mint2",
			MintAuthority: "authority",
		})
	})
	require.NoError(t, err)

	record, err = provider.GetMint(ctx, "mint2")
	require.NoError(t, err)
	assert.EqualValues(t, 2, record.Id)
}

func TestMemoryProvider_NestedTx(t *testing.T) {
	ctx := context.Background()
	provider := NewTestDataProvider()

	err := provider.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		return provider.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
			return nil
		})
	})
	assert.Equal(t, pg.ErrAlreadyInTx, err)
}

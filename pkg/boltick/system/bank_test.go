package system

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data"
	"github.com/franRappazzini/boltick-contracts/pkg/testutil"
)

func TestBank_AirdropAndTransfer(t *testing.T) {
	ctx := context.Background()
	bank := NewBank(data.NewTestDataProvider())

	alice := testutil.NewRandomAccount(t).PublicKey().ToBase58()
	bob := testutil.NewRandomAccount(t).PublicKey().ToBase58()

	balance, err := bank.GetBalance(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, balance)

	require.NoError(t, bank.Airdrop(ctx, alice, 1_000))
	require.NoError(t, bank.Airdrop(ctx, alice, 500))

	require.NoError(t, bank.Transfer(ctx, alice, bob, 700))
	assertBalance(t, bank, alice, 800)
	assertBalance(t, bank, bob, 700)

	assert.Equal(t, ErrInsufficientFunds, bank.Transfer(ctx, alice, bob, 801))
	assertBalance(t, bank, alice, 800)
	assertBalance(t, bank, bob, 700)

	require.NoError(t, bank.Transfer(ctx, alice, bob, 0))
	require.NoError(t, bank.Transfer(ctx, alice, alice, 800))
	assert.Equal(t, ErrInsufficientFunds, bank.Transfer(ctx, alice, alice, 801))
	assertBalance(t, bank, alice, 800)
}

func TestBank_EdgeCases(t *testing.T) {
	ctx := context.Background()
	bank := NewBank(data.NewTestDataProvider())

	empty := testutil.NewRandomAccount(t).PublicKey().ToBase58()
	full := testutil.NewRandomAccount(t).PublicKey().ToBase58()
	funded := testutil.NewRandomAccount(t).PublicKey().ToBase58()

	assert.Equal(t, ErrInsufficientFunds, bank.Transfer(ctx, empty, full, 1))
	assert.Equal(t, ErrInvalidAccount, bank.Transfer(ctx, "", full, 1))
	assert.Equal(t, ErrInvalidAccount, bank.Airdrop(ctx, "", 1))

	require.NoError(t, bank.Airdrop(ctx, full, math.MaxUint64))
	require.NoError(t, bank.Airdrop(ctx, funded, 10))
	assert.Equal(t, ErrBalanceOverflow, bank.Airdrop(ctx, full, 1))
	assert.Equal(t, ErrBalanceOverflow, bank.Transfer(ctx, funded, full, 1))
	assertBalance(t, bank, funded, 10)
	assertBalance(t, bank, full, math.MaxUint64)
}

func assertBalance(t *testing.T, bank Bank, account string, expected uint64) {
	actual, err := bank.GetBalance(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

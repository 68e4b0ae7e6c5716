package token

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
	"github.com/franRappazzini/boltick-contracts/pkg/testutil"
)

type testEnv struct {
	ctx    context.Context
	ledger Ledger

	mint      string
	authority string
}

func setup(t *testing.T) *testEnv {
	env := &testEnv{
		ctx:       context.Background(),
		ledger:    NewLedger(data.NewTestDataProvider()),
		mint:      testutil.NewRandomAddress(t),
		authority: testutil.NewRandomAddress(t),
	}

	require.NoError(t, env.ledger.CreateMint(env.ctx, &CreateMintArgs{
		Mint:      env.mint,
		Authority: env.authority,
	}))
	return env
}

func TestLedger_MintAndTransfer(t *testing.T) {
	env := setup(t)

	alice := testutil.NewRandomAddress(t)
	aliceTokens := testutil.NewRandomAddress(t)
	bob := testutil.NewRandomAddress(t)
	bobTokens := testutil.NewRandomAddress(t)

	require.NoError(t, env.ledger.Mint(env.ctx, &MintArgs{
		Mint:        env.mint,
		Authority:   env.authority,
		Destination: aliceTokens,
		Owner:       alice,
		Amount:      100,
	}))

	assert.Equal(t, ErrInvalidMintAuthority, env.ledger.Mint(env.ctx, &MintArgs{
		Mint:        env.mint,
		Authority:   alice,
		Destination: aliceTokens,
		Owner:       alice,
		Amount:      1,
	}))

	require.NoError(t, env.ledger.Transfer(env.ctx, &TransferArgs{
		Source:           aliceTokens,
		Authority:        alice,
		Destination:      bobTokens,
		DestinationOwner: bob,
		Mint:             env.mint,
		Amount:           40,
	}))

	assertBalance(t, env, aliceTokens, 60)
	assertBalance(t, env, bobTokens, 40)

	mintRecord, err := env.ledger.GetMint(env.ctx, env.mint)
	require.NoError(t, err)
	assert.EqualValues(t, 100, mintRecord.Supply)

	bobAccount, err := env.ledger.GetAccount(env.ctx, bobTokens)
	require.NoError(t, err)
	assert.Equal(t, bob, bobAccount.Owner)
	assert.Equal(t, env.mint, bobAccount.Mint)
}

func TestLedger_TransferFailuresMoveNothing(t *testing.T) {
	env := setup(t)

	alice := testutil.NewRandomAddress(t)
	aliceTokens := testutil.NewRandomAddress(t)
	bob := testutil.NewRandomAddress(t)
	bobTokens := testutil.NewRandomAddress(t)

	require.NoError(t, env.ledger.Mint(env.ctx, &MintArgs{
		Mint:        env.mint,
		Authority:   env.authority,
		Destination: aliceTokens,
		Owner:       alice,
		Amount:      10,
	}))

	transfer := func(authority, mint string, amount uint64) error {
		return env.ledger.Transfer(env.ctx, &TransferArgs{
			Source:           aliceTokens,
			Authority:        authority,
			Destination:      bobTokens,
			DestinationOwner: bob,
			Mint:             mint,
			Amount:           amount,
		})
	}

	assert.Equal(t, ErrInsufficientBalance, transfer(alice, env.mint, 11))
	assert.Equal(t, ErrInvalidOwner, transfer(bob, env.mint, 1))
	assert.Equal(t, ErrMintMismatch, transfer(alice, testutil.NewRandomAddress(t), 1))

	assert.Equal(t, ErrInsufficientBalance, env.ledger.Transfer(env.ctx, &TransferArgs{
		Source:    testutil.NewRandomAddress(t),
		Authority: alice,
		Mint:      env.mint,
		Amount:    1,
	}))

	assertBalance(t, env, aliceTokens, 10)
	assertBalance(t, env, bobTokens, 0)
	_, err := env.ledger.GetAccount(env.ctx, bobTokens)
	assert.Equal(t, token.ErrAccountNotFound, err)
}

func TestLedger_OpenAccount(t *testing.T) {
	env := setup(t)

	owner := testutil.NewRandomAddress(t)
	address := testutil.NewRandomAddress(t)

	require.NoError(t, env.ledger.OpenAccount(env.ctx, address, owner, env.mint))
	require.NoError(t, env.ledger.OpenAccount(env.ctx, address, owner, env.mint))
	assertBalance(t, env, address, 0)

	assert.Equal(t, ErrOwnerMismatch, env.ledger.OpenAccount(env.ctx, address, testutil.NewRandomAddress(t), env.mint))
	assert.Equal(t, token.ErrMintNotFound, env.ledger.OpenAccount(env.ctx, address, owner, testutil.NewRandomAddress(t)))
}

func TestLedger_Records(t *testing.T) {
	env := setup(t)
	collection := testutil.NewRandomAddress(t)

	record, err := env.ledger.CreateRecord(env.ctx, &CreateRecordArgs{
		Mint:               env.mint,
		UpdateAuthority:    env.authority,
		Name:               "General #0",
		Symbol:             "GA",
		Uri:                "https://example.com/ga.json",
		Creator:            env.authority,
		CreatorShare:       100,
		CreatorVerified:    true,
		Collection:         collection,
		CollectionVerified: true,
		IsMutable:          true,
		MasterEdition:      true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record.Address)
	assert.NotEmpty(t, record.MasterEdition)
	assert.NotEqual(t, record.Address, record.MasterEdition)

	_, err = env.ledger.CreateRecord(env.ctx, &CreateRecordArgs{
		Mint:            env.mint,
		UpdateAuthority: env.authority,
		Name:            "Duplicate",
	})
	assert.Equal(t, metadata.ErrExists, err)

	_, err = env.ledger.UpdateRecord(env.ctx, &UpdateRecordArgs{
		Mint:            env.mint,
		UpdateAuthority: testutil.NewRandomAddress(t),
		Name:            "VIP #0",
	})
	assert.Equal(t, ErrInvalidUpdateAuthority, err)

	_, err = env.ledger.UpdateRecord(env.ctx, &UpdateRecordArgs{
		Mint:            env.mint,
		UpdateAuthority: env.authority,
		Name:            strings.Repeat("x", 33),
	})
	assert.True(t, errors.Is(err, ErrInvalidRecord))

	updated, err := env.ledger.UpdateRecord(env.ctx, &UpdateRecordArgs{
		Mint:            env.mint,
		UpdateAuthority: env.authority,
		Name:            "VIP #0",
		Symbol:          "VIP",
		Uri:             "https://example.com/vip.json",
	})
	require.NoError(t, err)
	assert.Equal(t, "VIP #0", updated.Name)

	actual, err := env.ledger.GetRecord(env.ctx, env.mint)
	require.NoError(t, err)
	assert.Equal(t, "VIP #0", actual.Name)
	assert.Equal(t, "VIP", actual.Symbol)
	assert.Equal(t, collection, actual.Collection)
	assert.True(t, actual.CollectionVerified)
}

func TestLedger_ImmutableRecord(t *testing.T) {
	env := setup(t)

	_, err := env.ledger.CreateRecord(env.ctx, &CreateRecordArgs{
		Mint:            env.mint,
		UpdateAuthority: env.authority,
		Name:            "Frozen",
	})
	require.NoError(t, err)

	_, err = env.ledger.UpdateRecord(env.ctx, &UpdateRecordArgs{
		Mint:            env.mint,
		UpdateAuthority: env.authority,
		Name:            "Thawed",
	})
	assert.Equal(t, ErrImmutableRecord, err)
}

func assertBalance(t *testing.T, env *testEnv, address string, expected uint64) {
	actual, err := env.ledger.GetBalance(env.ctx, address)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

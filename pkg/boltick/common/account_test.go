package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/solana/boltick"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/token"
)

func TestAccount_Constructors(t *testing.T) {
	random, err := NewRandomAccount()
	require.NoError(t, err)
	assert.True(t, random.IsOnCurve())

	privateKey, err := random.PrivateKey()
	require.NoError(t, err)

	fromPrivate, err := NewAccountFromPrivateKeyString(privateKey.ToBase58())
	require.NoError(t, err)
	assert.True(t, random.Equals(fromPrivate))

	fromPublic, err := NewAccountFromPublicKeyString(random.ToBase58())
	require.NoError(t, err)
	assert.True(t, random.Equals(fromPublic))

	_, err = fromPublic.PrivateKey()
	assert.Error(t, err)

	_, err = NewAccountFromPublicKeyString("not-base58-0OIl")
	assert.Error(t, err)

	_, err = NewAccountFromPublicKeyBytes(make([]byte, 10))
	assert.Error(t, err)

	_, err = NewAccountFromPrivateKeyBytes(random.ToBytes())
	assert.Error(t, err)
}

func TestAccount_SignAndVerify(t *testing.T) {
	signer, err := NewRandomAccount()
	require.NoError(t, err)
	other, err := NewRandomAccount()
	require.NoError(t, err)

	message := []byte("buy ticket")
	signature, err := signer.Sign(message)
	require.NoError(t, err)

	assert.NoError(t, signer.Verify(message, signature))
	assert.Equal(t, ErrSignatureMismatch, other.Verify(message, signature))
	assert.Equal(t, ErrSignatureMismatch, signer.Verify([]byte("tampered"), signature))

	publicOnly, err := NewAccountFromPublicKeyBytes(signer.ToBytes())
	require.NoError(t, err)
	_, err = publicOnly.Sign(message)
	assert.Error(t, err)
}

func TestAccount_ProgramAddressesAreOffCurve(t *testing.T) {
	address, _, err := boltick.GetEventAddress(0)
	require.NoError(t, err)

	event, err := NewAccountFromPublicKeyBytes(address)
	require.NoError(t, err)
	assert.False(t, event.IsOnCurve())
}

func TestAccount_ToAssociatedTokenAccount(t *testing.T) {
	owner, err := NewRandomAccount()
	require.NoError(t, err)
	mint, err := NewRandomAccount()
	require.NoError(t, err)

	ata, err := owner.ToAssociatedTokenAccount(mint)
	require.NoError(t, err)

	expected, err := token.GetAssociatedAccount(owner.ToBytes(), mint.ToBytes())
	require.NoError(t, err)
	assert.EqualValues(t, expected, ata.ToBytes())
}

package testutil

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
)

// NewRandomAccount returns a wallet account holding its private key
func NewRandomAccount(t *testing.T) *common.Account {
	account, err := common.NewRandomAccount()
	require.NoError(t, err)

	return account
}

// NewRandomAddress is NewRandomAccount reduced to its base58 address
func NewRandomAddress(t *testing.T) string {
	return NewRandomAccount(t).PublicKey().ToBase58()
}

func GenerateKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := 0; i < n; i++ {
		p, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = p
	}
	return keys
}

package token

import (
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAssociatedAccount(t *testing.T) {
	// Generated with the spl-associated-token-account crate.
	wallet, err := base58.Decode("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM")
	require.NoError(t, err)
	mint, err := base58.Decode("8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh")
	require.NoError(t, err)

	actual, err := GetAssociatedAccount(wallet, mint)
	require.NoError(t, err)
	assert.Equal(t, "H7MQwEzt97tUJryocn3qaEoy2ymWstwyEk1i9Yv3EmuZ", base58.Encode(actual))
}

func TestProgramKeys(t *testing.T) {
	assert.Equal(t, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", base58.Encode(ProgramKey))
	assert.Equal(t, "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL", base58.Encode(AssociatedTokenAccountProgramKey))
}

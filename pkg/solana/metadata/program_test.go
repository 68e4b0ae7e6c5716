package metadata

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataAndEditionAddresses(t *testing.T) {
	mint, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	metadataAddress, err := GetMetadataAddress(mint)
	require.NoError(t, err)
	editionAddress, err := GetMasterEditionAddress(mint)
	require.NoError(t, err)
	assert.NotEqual(t, metadataAddress, editionAddress)

	again, err := GetMetadataAddress(mint)
	require.NoError(t, err)
	assert.Equal(t, metadataAddress, again)

	other, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	otherMetadataAddress, err := GetMetadataAddress(other)
	require.NoError(t, err)
	assert.NotEqual(t, metadataAddress, otherMetadataAddress)
}

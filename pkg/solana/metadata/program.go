package metadata

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"

	"github.com/franRappazzini/boltick-contracts/pkg/solana"
)

// ProgramKey is the address of the Metaplex token metadata program.
var ProgramKey = mustDecode("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

var (
	metadataPrefix = []byte("metadata")
	editionPrefix  = []byte("edition")
)

// Field limits enforced by the metadata program.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxUriLength    = 200
)

// GetMetadataAddress returns the metadata account of a mint.
func GetMetadataAddress(mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(
		ProgramKey,
		metadataPrefix,
		ProgramKey,
		mint,
	)
}

// GetMasterEditionAddress returns the master edition account of a mint.
func GetMasterEditionAddress(mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(
		ProgramKey,
		metadataPrefix,
		ProgramKey,
		mint,
		editionPrefix,
	)
}

func mustDecode(value string) ed25519.PublicKey {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}

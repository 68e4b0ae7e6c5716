package stakespl

import (
	"crypto/ed25519"

	"github.com/franRappazzini/boltick-contracts/pkg/solana"
)

func GetConfigAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		configPrefix,
	)
}

func GetVaultAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		vaultPrefix,
	)
}

func GetRewardVaultAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		rewardVaultPrefix,
	)
}

func GetStakeAddress(depositor ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		stakePrefix,
		depositor,
	)
}

// VerifyStakeAddress checks a stored stake address and bump against the
// depositor.
func VerifyStakeAddress(address ed25519.PublicKey, bump uint8, depositor ed25519.PublicKey) error {
	return solana.VerifyProgramAddress(PROGRAM_ID, address, bump, stakePrefix, depositor)
}

package token

import (
	"crypto/ed25519"

	"github.com/franRappazzini/boltick-contracts/pkg/solana"
)

// GetAssociatedAccount returns the associated token account address of a
// wallet for a mint.
//
// Reference: https://spl.solana.com/associated-token-account#finding-the-associated-token-account-address
func GetAssociatedAccount(wallet, mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(
		AssociatedTokenAccountProgramKey,
		wallet,
		ProgramKey,
		mint,
	)
}

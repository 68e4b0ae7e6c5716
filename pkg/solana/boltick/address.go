package boltick

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/franRappazzini/boltick-contracts/pkg/solana"
)

func GetConfigAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		configPrefix,
	)
}

func GetTreasuryAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		treasuryPrefix,
	)
}

func GetEventAddress(eventId uint64) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		eventPrefix,
		EncodeEventId(eventId),
	)
}

type GetDigitalAccessAddressArgs struct {
	Event ed25519.PublicKey
	Id    uint8
}

func GetDigitalAccessAddress(args *GetDigitalAccessAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		digitalAccessPrefix,
		args.Event,
		[]byte{args.Id},
	)
}

func GetCollectionMintAddress(eventId uint64) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		collectionMintPrefix,
		EncodeEventId(eventId),
	)
}

func GetCollectionTokenAccountAddress(eventId uint64) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		collectionTokenAccountPrefix,
		EncodeEventId(eventId),
	)
}

type GetTokenMintAddressArgs struct {
	CollectionMint ed25519.PublicKey
	NftId          uint64
}

func GetTokenMintAddress(args *GetTokenMintAddressArgs) (ed25519.PublicKey, uint8, error) {
	nftId := make([]byte, 8)
	binary.LittleEndian.PutUint64(nftId, args.NftId)

	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		tokenMintPrefix,
		args.CollectionMint,
		nftId,
	)
}

// EncodeEventId is the seed encoding of an event id.
func EncodeEventId(eventId uint64) []byte {
	encoded := make([]byte, 8)
	binary.LittleEndian.PutUint64(encoded, eventId)
	return encoded
}

// VerifyEventAddress checks a stored event address and bump against the
// event id.
func VerifyEventAddress(address ed25519.PublicKey, bump uint8, eventId uint64) error {
	return solana.VerifyProgramAddress(PROGRAM_ID, address, bump, eventPrefix, EncodeEventId(eventId))
}

// VerifyDigitalAccessAddress checks a stored digital access address and bump
// against its event and id.
func VerifyDigitalAccessAddress(address ed25519.PublicKey, bump uint8, event ed25519.PublicKey, id uint8) error {
	return solana.VerifyProgramAddress(PROGRAM_ID, address, bump, digitalAccessPrefix, event, []byte{id})
}

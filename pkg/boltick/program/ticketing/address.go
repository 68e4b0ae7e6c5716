package ticketing

import (
	"crypto/ed25519"
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/boltick"
	metadata_program "github.com/franRappazzini/boltick-contracts/pkg/solana/metadata"
	token_program "github.com/franRappazzini/boltick-contracts/pkg/solana/token"
)

type eventAddresses struct {
	event      ed25519.PublicKey
	eventBump  uint8
	collection ed25519.PublicKey
	// Holds the single collection unit
	collectionTokenAccount ed25519.PublicKey
}

func deriveEventAddresses(eventId uint64) (*eventAddresses, error) {
	event, eventBump, err := boltick.GetEventAddress(eventId)
	if err != nil {
		return nil, errors.Wrap(err, "error deriving event address")
	}

	collection, _, err := boltick.GetCollectionMintAddress(eventId)
	if err != nil {
		return nil, errors.Wrap(err, "error deriving collection mint address")
	}

	collectionTokenAccount, _, err := boltick.GetCollectionTokenAccountAddress(eventId)
	if err != nil {
		return nil, errors.Wrap(err, "error deriving collection token account address")
	}

	return &eventAddresses{
		event:                  event,
		eventBump:              eventBump,
		collection:             collection,
		collectionTokenAccount: collectionTokenAccount,
	}, nil
}

func deriveDigitalAccessAddress(event ed25519.PublicKey, id uint8) (ed25519.PublicKey, uint8, error) {
	address, bump, err := boltick.GetDigitalAccessAddress(&boltick.GetDigitalAccessAddressArgs{
		Event: event,
		Id:    id,
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, "error deriving digital access address")
	}
	return address, bump, nil
}

type ticketAddresses struct {
	mint         ed25519.PublicKey
	metadata     ed25519.PublicKey
	tokenAccount ed25519.PublicKey
}

// deriveTicketAddresses derives the mint of the nft id within a collection,
// its metadata record and the owner's associated token account. owner may be
// nil when the token account isn't needed.
func deriveTicketAddresses(collection ed25519.PublicKey, nftId uint64, owner ed25519.PublicKey) (*ticketAddresses, error) {
	mint, _, err := boltick.GetTokenMintAddress(&boltick.GetTokenMintAddressArgs{
		CollectionMint: collection,
		NftId:          nftId,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving token mint address")
	}

	metadata, err := metadata_program.GetMetadataAddress(mint)
	if err != nil {
		return nil, errors.Wrap(err, "error deriving metadata address")
	}

	res := &ticketAddresses{
		mint:     mint,
		metadata: metadata,
	}

	if owner != nil {
		res.tokenAccount, err = token_program.GetAssociatedAccount(owner, mint)
		if err != nil {
			return nil, errors.Wrap(err, "error deriving associated token account")
		}
	}

	return res, nil
}

// verifyStoredAddress checks that a persisted record sits at the address its
// own seeds derive to
func verifyStoredAddress(stored string, verify func(ed25519.PublicKey) error) error {
	account, err := common.NewAccountFromPublicKeyString(stored)
	if err != nil {
		return ErrAccountMismatch
	}
	if err := verify(account.ToBytes()); err != nil {
		return ErrAccountMismatch
	}
	return nil
}

// ticketName is "<prefix> #<nft id>". The prefix is cut at a rune boundary
// when the name would not fit in a metadata record.
func ticketName(prefix string, nftId uint64) string {
	suffix := fmt.Sprintf(" #%d", nftId)

	maxPrefix := metadata_program.MaxNameLength - len(suffix)
	if len(prefix) > maxPrefix {
		cut := maxPrefix
		for cut > 0 && !utf8.RuneStart(prefix[cut]) {
			cut--
		}
		prefix = prefix[:cut]
	}

	return prefix + suffix
}

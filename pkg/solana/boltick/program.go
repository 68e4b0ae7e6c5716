package boltick

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/mr-tron/base58/base58"
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("1aUtb8YSYuGUXkouRHy5bpxuuiyViqpgAUDb6rK7a8E")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	configPrefix                 = []byte("config")
	treasuryPrefix               = []byte("treasury")
	eventPrefix                  = []byte("event")
	digitalAccessPrefix          = []byte("digital_access")
	collectionMintPrefix         = []byte("collection_mint")
	collectionTokenAccountPrefix = []byte("collection_token_account")
	tokenMintPrefix              = []byte("token_mint")
)

// String bounds of the persisted account records
const (
	MaxEventNameLength         = 24
	MaxEventDescriptionLength  = 80
	MaxAccessNameLength        = 32
	MaxAccessSymbolLength      = 8
	MaxAccessDescriptionLength = 240
	MaxAccessUriLength         = 160
)

const discriminatorSize = 8

func accountDiscriminator(name string) []byte {
	h := sha256.Sum256([]byte("account:" + name))
	return h[:discriminatorSize]
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}

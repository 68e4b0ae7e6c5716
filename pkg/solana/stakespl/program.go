package stakespl

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/mr-tron/base58/base58"
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("64E4SYr3hmvxegaKhRxCcD5Di6UwBP8Y7u32hzd5VgnL")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	configPrefix      = []byte("config")
	vaultPrefix       = []byte("vault")
	rewardVaultPrefix = []byte("reward_vault")
	stakePrefix       = []byte("stake")
)

// RewardPrecision scales reward per token to keep sub-unit accrual.
const RewardPrecision = 1_000_000_000_000

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

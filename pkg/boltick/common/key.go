package common

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Key is an ed25519 public or private key with a cached base58 encoding.
type Key struct {
	bytesValue  []byte
	stringValue string
}

func NewKeyFromBytes(value []byte) (*Key, error) {
	k := &Key{
		bytesValue:  value,
		stringValue: base58.Encode(value),
	}

	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

func NewKeyFromString(value string) (*Key, error) {
	bytesValue, err := base58.Decode(value)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding string as base58")
	}

	return NewKeyFromBytes(bytesValue)
}

func (k *Key) ToBytes() []byte {
	return k.bytesValue
}

func (k *Key) ToBase58() string {
	return k.stringValue
}

func (k *Key) IsPublic() bool {
	return len(k.bytesValue) == ed25519.PublicKeySize
}

func (k *Key) Validate() error {
	if k == nil {
		return errors.New("key is nil")
	}

	switch len(k.bytesValue) {
	case ed25519.PublicKeySize, ed25519.PrivateKeySize:
	default:
		return errors.New("key must be an ed25519 public or private key")
	}

	return nil
}

// EncodeAddress is the base58 form of a raw address
func EncodeAddress(address []byte) string {
	return base58.Encode(address)
}

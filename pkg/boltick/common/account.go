package common

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/solana"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/token"
)

var ErrSignatureMismatch = errors.New("signature does not match public key")

// Account identifies an address that can appear in a program invocation. A
// private key is only held for accounts the process can sign for.
type Account struct {
	publicKey  *Key
	privateKey *Key
}

func NewAccountFromPublicKeyBytes(publicKey []byte) (*Account, error) {
	key, err := NewKeyFromBytes(publicKey)
	if err != nil {
		return nil, err
	}

	account := &Account{
		publicKey: key,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

func NewAccountFromPublicKeyString(publicKey string) (*Account, error) {
	key, err := NewKeyFromString(publicKey)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPublicKeyBytes(key.ToBytes())
}

func NewAccountFromPrivateKeyBytes(privateKey []byte) (*Account, error) {
	private, err := NewKeyFromBytes(privateKey)
	if err != nil {
		return nil, err
	}
	if private.IsPublic() {
		return nil, errors.New("expected a private key")
	}

	public, err := NewKeyFromBytes(ed25519.PrivateKey(privateKey).Public().(ed25519.PublicKey))
	if err != nil {
		return nil, errors.Wrap(err, "error creating public key from private key")
	}

	account := &Account{
		publicKey:  public,
		privateKey: private,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

func NewAccountFromPrivateKeyString(privateKey string) (*Account, error) {
	key, err := NewKeyFromString(privateKey)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKeyBytes(key.ToBytes())
}

// NewRandomAccount generates a fresh keypair.
func NewRandomAccount() (*Account, error) {
	_, privateKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "error generating private key")
	}
	return NewAccountFromPrivateKeyBytes(privateKey)
}

func (a *Account) PublicKey() *Key {
	return a.publicKey
}

func (a *Account) PrivateKey() (*Key, error) {
	if a.privateKey == nil {
		return nil, errors.New("private key not available")
	}
	return a.privateKey, nil
}

func (a *Account) ToBytes() ed25519.PublicKey {
	return a.publicKey.ToBytes()
}

func (a *Account) ToBase58() string {
	return a.publicKey.ToBase58()
}

// IsOnCurve reports whether a private key could exist for the account.
// Program derived addresses are always off curve.
func (a *Account) IsOnCurve() bool {
	return solana.IsOnCurve(a.publicKey.ToBytes())
}

func (a *Account) Sign(message []byte) ([]byte, error) {
	privateKey, err := a.PrivateKey()
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(privateKey.ToBytes(), message), nil
}

func (a *Account) Verify(message, signature []byte) error {
	if !ed25519.Verify(a.publicKey.ToBytes(), message, signature) {
		return ErrSignatureMismatch
	}
	return nil
}

// ToAssociatedTokenAccount returns the account's associated token account
// for the mint.
func (a *Account) ToAssociatedTokenAccount(mint *Account) (*Account, error) {
	address, err := token.GetAssociatedAccount(a.publicKey.ToBytes(), mint.publicKey.ToBytes())
	if err != nil {
		return nil, err
	}
	return NewAccountFromPublicKeyBytes(address)
}

func (a *Account) Equals(other *Account) bool {
	if a == nil || other == nil {
		return a == other
	}
	return bytes.Equal(a.publicKey.ToBytes(), other.publicKey.ToBytes())
}

func (a *Account) Validate() error {
	if a == nil {
		return errors.New("account is nil")
	}

	if err := a.publicKey.Validate(); err != nil {
		return errors.Wrap(err, "error validating public key")
	}
	if !a.publicKey.IsPublic() {
		return errors.New("public key isn't a public key")
	}

	if a.privateKey != nil {
		if err := a.privateKey.Validate(); err != nil {
			return errors.Wrap(err, "error validating private key")
		}
		if a.privateKey.IsPublic() {
			return errors.New("private key isn't a private key")
		}

		expected := ed25519.PrivateKey(a.privateKey.ToBytes()).Public().(ed25519.PublicKey)
		if !bytes.Equal(expected, a.publicKey.ToBytes()) {
			return errors.New("private key doesn't map to public key")
		}
	}

	return nil
}

func (a *Account) String() string {
	return a.ToBase58()
}

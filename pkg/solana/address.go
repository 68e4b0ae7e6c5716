package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"math"

	"github.com/jdgcs/ed25519/edwards25519"
	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/cache"
)

const (
	maxSeeds      = 16
	maxSeedLength = 32

	pdaMarker = "ProgramDerivedAddress"

	derivationCacheBudget = 100_000
)

// Bump searches hash and curve-check up to 256 candidates, and the same
// addresses are derived on every invocation
var derivationCache = cache.NewCache[ProgramDerivedAddress](derivationCacheBudget)

var (
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrInvalidPublicKey      = errors.New("invalid public key")
	ErrNoViableBump          = errors.New("unable to find a viable program address bump seed")
	ErrAddressMismatch       = errors.New("program address does not match seeds")
)

// ProgramDerivedAddress is an off-curve address owned by a program, along
// with the bump seed that was required to push it off the curve.
type ProgramDerivedAddress struct {
	Address ed25519.PublicKey
	Bump    uint8
}

// CreateProgramAddress hashes the seeds, program and PDA marker into a 32
// byte address. Hashes that decode to a valid curve point are rejected with
// ErrInvalidPublicKey, since a private key could exist for them.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L158
func CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	if len(seeds) > maxSeeds {
		return nil, ErrTooManySeeds
	}

	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return nil, ErrMaxSeedLengthExceeded
		}
		h.Write(seed)
	}
	h.Write(program)
	h.Write([]byte(pdaMarker))

	var candidate [ed25519.PublicKeySize]byte
	copy(candidate[:], h.Sum(nil))

	if IsOnCurve(candidate[:]) {
		return nil, ErrInvalidPublicKey
	}
	return candidate[:], nil
}

// IsOnCurve reports whether key decompresses to a valid ed25519 point.
//
// The extended group element used by crypto/ed25519 is internal, so the
// check goes through the edwards25519 package that exposes it.
func IsOnCurve(key []byte) bool {
	if len(key) != ed25519.PublicKeySize {
		return false
	}

	var compressed [ed25519.PublicKeySize]byte
	copy(compressed[:], key)

	var point edwards25519.ExtendedGroupElement
	return point.FromBytes(&compressed)
}

// FindProgramAddressAndBump searches bump seeds from 255 down to 0 and
// returns the first off-curve address.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L234
func FindProgramAddressAndBump(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error) {
	key := derivationCacheKey(program, seeds)
	if cached, ok := derivationCache.Retrieve(key); ok {
		return append(ed25519.PublicKey(nil), cached.Address...), cached.Bump, nil
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := math.MaxUint8; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}

		address, err := CreateProgramAddress(program, withBump...)
		switch err {
		case nil:
			// A concurrent derivation of the same address may have won the insert
			_ = derivationCache.Insert(key, ProgramDerivedAddress{
				Address: append(ed25519.PublicKey(nil), address...),
				Bump:    uint8(bump),
			}, 1)
			return address, uint8(bump), nil
		case ErrInvalidPublicKey:
			continue
		default:
			return nil, 0, err
		}
	}

	return nil, 0, ErrNoViableBump
}

// derivationCacheKey length-prefixes every part so distinct seed lists never
// collide
func derivationCacheKey(program ed25519.PublicKey, seeds [][]byte) string {
	var b bytes.Buffer
	b.WriteByte(byte(len(program)))
	b.Write(program)
	for _, seed := range seeds {
		b.WriteByte(byte(len(seed)))
		b.Write(seed)
	}
	return b.String()
}

// FindProgramAddress is FindProgramAddressAndBump without the bump.
func FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	address, _, err := FindProgramAddressAndBump(program, seeds...)
	return address, err
}

// DeriveProgramAddress is FindProgramAddressAndBump packaged as a
// ProgramDerivedAddress.
func DeriveProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (*ProgramDerivedAddress, error) {
	address, bump, err := FindProgramAddressAndBump(program, seeds...)
	if err != nil {
		return nil, err
	}
	return &ProgramDerivedAddress{
		Address: address,
		Bump:    bump,
	}, nil
}

// VerifyProgramAddress recomputes the address for the seeds and a stored
// bump, and fails with ErrAddressMismatch when it differs from expected. A
// candidate that lands on the curve is never a program address, so it is a
// mismatch as well.
func VerifyProgramAddress(program, expected ed25519.PublicKey, bump uint8, seeds ...[]byte) error {
	actual, err := CreateProgramAddress(program, append(seeds, []byte{bump})...)
	if err == ErrInvalidPublicKey {
		return ErrAddressMismatch
	} else if err != nil {
		return err
	}
	if !bytes.Equal(actual, expected) {
		return ErrAddressMismatch
	}
	return nil
}

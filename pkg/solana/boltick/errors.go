package boltick

import (
	"errors"
)

var (
	ErrInvalidAccountData = errors.New("unexpected account data")
)

type BoltickError uint32

const (
	// The signer authority is invalid
	ErrInvalidAuthority BoltickError = iota + 0x1770

	// The signer creator is invalid
	ErrInvalidCreator

	// The digital access has reached its max supply
	ErrMaxSupplyReached

	// A supplied account does not match its derived address or parent
	ErrAccountMismatch

	// The payer holds fewer lamports than the price
	ErrInsufficientFunds

	// The account is already initialized
	ErrAccountAlreadyInitialized

	// The account is not initialized
	ErrAccountNotInitialized

	// An instruction argument is out of bounds
	ErrInvalidArgument

	// A counter would overflow
	ErrArithmeticOverflow
)

package stakespl

import (
	"errors"
)

var (
	ErrInvalidAccountData = errors.New("unexpected account data")
)

type StakeSplError uint32

const (
	// The provided mint does not match the expected mint
	ErrBoltMintMismatch StakeSplError = iota + 0x1770

	// The staking program is currently paused
	ErrStakingPaused

	// The provided amount is zero
	ErrZeroAmount

	// The provided amount exceeds the maximum allowed limit
	ErrAmountExceedsLimit

	// Arithmetic overflow occurred during the operation
	ErrArithmeticOverflow

	// Arithmetic underflow occurred during the operation
	ErrArithmeticUnderflow

	// The stake position holds less than the requested amount
	ErrInsufficientStake

	// The signer is not the config authority
	ErrInvalidAuthority

	// A supplied account does not match its derived address
	ErrAccountMismatch

	// The depositor holds fewer tokens than the amount
	ErrInsufficientFunds

	// The account is already initialized
	ErrAccountAlreadyInitialized

	// The account is not initialized
	ErrAccountNotInitialized

	// An instruction argument is out of bounds
	ErrInvalidArgument
)

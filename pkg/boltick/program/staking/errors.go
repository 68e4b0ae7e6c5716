package staking

import (
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/stakespl"
)

const programName = "stake_spl"

var (
	ErrMintMismatch              = newError(program.KindIntegrity, stakespl.ErrBoltMintMismatch, "mint does not match the staked mint")
	ErrStakingPaused             = newError(program.KindPaused, stakespl.ErrStakingPaused, "staking is paused")
	ErrZeroAmount                = newError(program.KindInvalidArgument, stakespl.ErrZeroAmount, "amount must be greater than zero")
	ErrAmountExceedsLimit        = newError(program.KindInvalidArgument, stakespl.ErrAmountExceedsLimit, "stake would exceed the per user limit")
	ErrArithmeticOverflow        = newError(program.KindArithmetic, stakespl.ErrArithmeticOverflow, "arithmetic overflow")
	ErrArithmeticUnderflow       = newError(program.KindArithmetic, stakespl.ErrArithmeticUnderflow, "arithmetic underflow")
	ErrInsufficientStake         = newError(program.KindInsufficientFunds, stakespl.ErrInsufficientStake, "position holds less than the amount")
	ErrInvalidAuthority          = newError(program.KindAuthorization, stakespl.ErrInvalidAuthority, "signer is not the config authority")
	ErrAccountMismatch           = newError(program.KindIntegrity, stakespl.ErrAccountMismatch, "account does not match its derived address")
	ErrInsufficientFunds         = newError(program.KindInsufficientFunds, stakespl.ErrInsufficientFunds, "depositor holds less than the amount")
	ErrAccountAlreadyInitialized = newError(program.KindAlreadyInitialized, stakespl.ErrAccountAlreadyInitialized, "account already initialized")
	ErrAccountNotInitialized     = newError(program.KindNotInitialized, stakespl.ErrAccountNotInitialized, "account not initialized")
	ErrInvalidArgument           = newError(program.KindInvalidArgument, stakespl.ErrInvalidArgument, "invalid argument")
)

func newError(kind program.Kind, code stakespl.StakeSplError, msg string) *program.Error {
	return program.NewError(programName, kind, uint32(code), msg)
}

package ticketing

import (
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/boltick"
)

const programName = "boltick"

var (
	ErrInvalidAuthority          = newError(program.KindAuthorization, boltick.ErrInvalidAuthority, "signer is not the config authority")
	ErrInvalidCreator            = newError(program.KindAuthorization, boltick.ErrInvalidCreator, "signer is not the event creator")
	ErrMaxSupplyReached          = newError(program.KindSupplyExceeded, boltick.ErrMaxSupplyReached, "digital access max supply reached")
	ErrAccountMismatch           = newError(program.KindIntegrity, boltick.ErrAccountMismatch, "account does not match its derived address or parent")
	ErrInsufficientFunds         = newError(program.KindInsufficientFunds, boltick.ErrInsufficientFunds, "buyer cannot cover the price")
	ErrAccountAlreadyInitialized = newError(program.KindAlreadyInitialized, boltick.ErrAccountAlreadyInitialized, "account already initialized")
	ErrAccountNotInitialized     = newError(program.KindNotInitialized, boltick.ErrAccountNotInitialized, "account not initialized")
	ErrInvalidArgument           = newError(program.KindInvalidArgument, boltick.ErrInvalidArgument, "invalid argument")
	ErrArithmeticOverflow        = newError(program.KindArithmetic, boltick.ErrArithmeticOverflow, "counter overflow")
)

func newError(kind program.Kind, code boltick.BoltickError, msg string) *program.Error {
	return program.NewError(programName, kind, uint32(code), msg)
}

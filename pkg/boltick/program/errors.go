package program

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a program error independently of the program raising it.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindAuthorization
	KindIntegrity
	KindSupplyExceeded
	KindInsufficientFunds
	KindAlreadyInitialized
	KindNotInitialized
	KindInvalidArgument
	KindArithmetic
	KindPaused
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindIntegrity:
		return "integrity"
	case KindSupplyExceeded:
		return "supply_exceeded"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindAlreadyInitialized:
		return "already_initialized"
	case KindNotInitialized:
		return "not_initialized"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindArithmetic:
		return "arithmetic"
	case KindPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Error is a failed invocation. Programs declare their errors as package
// level sentinels, so callers match them with errors.Is.
type Error struct {
	Program string
	Kind    Kind
	Code    uint32
	Msg     string
}

func NewError(program string, kind Kind, code uint32, msg string) *Error {
	return &Error{
		Program: program,
		Kind:    kind,
		Code:    code,
		Msg:     msg,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: error %d (0x%x): %s", e.Program, e.Code, e.Code, e.Msg)
}

// ErrAccountInUse is returned when a concurrent invocation committed a write
// to one of the accounts first. Nothing was mutated and the call may be
// retried.
var ErrAccountInUse = errors.New("account in use by a concurrent invocation")

// KindOf returns the kind of the program error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var programErr *Error
	if errors.As(err, &programErr) {
		return programErr.Kind
	}
	return KindUnknown
}

// AsError returns the program error in err's chain.
func AsError(err error) (*Error, bool) {
	var programErr *Error
	ok := errors.As(err, &programErr)
	return programErr, ok
}

// CheckStale converts any of the stale version errors into ErrAccountInUse
// and passes everything else through.
func CheckStale(err error, staleErrs ...error) error {
	if err == nil {
		return nil
	}
	for _, stale := range staleErrs {
		if errors.Is(err, stale) {
			return ErrAccountInUse
		}
	}
	return err
}

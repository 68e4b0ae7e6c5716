package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program"
)

const (
	successJsonKey = "success"
	errorJsonKey   = "error"
	codeJsonKey    = "code"
	kindJsonKey    = "kind"
)

type GenericApiResponseBody map[string]any

func NewGenericApiSuccessResponseBody() GenericApiResponseBody {
	return map[string]any{
		successJsonKey: true,
	}
}

func NewGenericApiFailureResponseBody(err error) GenericApiResponseBody {
	body := map[string]any{
		successJsonKey: false,
		errorJsonKey:   err.Error(),
	}
	if programErr, ok := program.AsError(err); ok {
		body[codeJsonKey] = programErr.Code
		body[kindJsonKey] = programErr.Kind.String()
	}
	return body
}

func (b *GenericApiResponseBody) ToString() string {
	marshalled, _ := json.Marshal(b)
	return string(marshalled)
}

// HandleProgramErrorInWebContext maps an invocation error onto an HTTP status
// and the error safe to return to the caller
func HandleProgramErrorInWebContext(err error) (int, error) {
	if err == nil {
		return http.StatusOK, nil
	}

	if errors.Is(err, program.ErrAccountInUse) {
		return http.StatusConflict, program.ErrAccountInUse
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout, errors.New("request timed out")
	}

	programErr, ok := program.AsError(err)
	if !ok {
		return http.StatusInternalServerError, errors.New("internal server error")
	}

	switch programErr.Kind {
	case program.KindAuthorization:
		return http.StatusForbidden, programErr
	case program.KindIntegrity, program.KindInvalidArgument:
		return http.StatusBadRequest, programErr
	case program.KindNotInitialized:
		return http.StatusNotFound, programErr
	case program.KindAlreadyInitialized, program.KindSupplyExceeded:
		return http.StatusConflict, programErr
	case program.KindInsufficientFunds:
		return http.StatusPaymentRequired, programErr
	case program.KindArithmetic:
		return http.StatusUnprocessableEntity, programErr
	case program.KindPaused:
		return http.StatusLocked, programErr
	default:
		return http.StatusInternalServerError, errors.New("internal server error")
	}
}

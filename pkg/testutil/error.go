package testutil

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program"
)

// AssertProgramError verifies that err is, or wraps, the expected program
// error
func AssertProgramError(t *testing.T, err error, expected *program.Error) {
	require.Error(t, err)

	actual, ok := program.AsError(err)
	require.True(t, ok, "not a program error: %v", err)
	assert.True(t, errors.Is(err, expected), "expected %v, got %v", expected, actual)
	assert.Equal(t, expected.Kind, actual.Kind)
	assert.Equal(t, expected.Code, actual.Code)
}

// AssertProgramErrorKind verifies that err is a program error of the kind
func AssertProgramErrorKind(t *testing.T, err error, kind program.Kind) {
	require.Error(t, err)
	assert.Equal(t, kind, program.KindOf(err), "unexpected error: %v", err)
}

package errs

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapMsgKeepsCode(t *testing.T) {
	err := ErrNotFamilyMember.WrapMsg("join refused", "user", "7", "family", "3")
	assert.ErrorIs(t, err, ErrNotFamilyMember)
	assert.Contains(t, err.Error(), "user=7")
	assert.Contains(t, err.Error(), "family=3")

	// the predefined error is never mutated
	assert.Empty(t, ErrNotFamilyMember.Detail)
}

func TestWithDetailAccumulates(t *testing.T) {
	e := ErrArgs.WithDetail("first").WithDetail("second")
	assert.Contains(t, e.Detail, "first")
	assert.Contains(t, e.Detail, "second")
	assert.Equal(t, CodeArgs, e.Code)
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	inner := ErrRecordNotFound.WrapMsg("notification", "id", "n1")
	wrapped := errors.Wrap(inner, "service layer")

	assert.ErrorIs(t, wrapped, ErrRecordNotFound)
	assert.NotErrorIs(t, wrapped, ErrNotRecordOwner)

	var ce *CodeError
	require.ErrorAs(t, wrapped, &ce)
	assert.Equal(t, CodeRecordNotFound, ce.Code)
}

func TestPlainErrorNeverMatches(t *testing.T) {
	assert.NotErrorIs(t, errors.New("boom"), ErrInternal)
}

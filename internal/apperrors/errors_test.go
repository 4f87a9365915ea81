package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindInvalid, KindOf(Invalid("bad")))
	require.Equal(t, KindNotFound, KindOf(NotFound("gone")))
	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	require.Equal(t, KindUnknown, KindOf(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("row scan failed")
	err := Wrap(KindNotFound, cause, "order not found")

	require.True(t, IsNotFound(err))
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "order not found")
	require.Contains(t, err.Error(), "row scan failed")
}

func TestWrappedKindSurvivesAnotherLayer(t *testing.T) {
	inner := Conflict("pass already spent")
	outer := Wrap(KindConflict, inner, "redeem failed")
	require.True(t, IsConflict(outer))
}

func TestMessageFormatting(t *testing.T) {
	err := Invalid("page %d out of range", 42)
	require.Equal(t, "page 42 out of range", err.Error())
}

package errortracking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPanicError(t *testing.T) {
	base := errors.New("boom")

	require.Same(t, base, PanicError(base))
	require.EqualError(t, PanicError("runtime failure"), "runtime failure")
	require.EqualError(t, PanicError(42), "42")
}

package testhelpers

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// Chdir changes the working directory to path and returns a function that
// restores the previous one
func Chdir(tb testing.TB, path string) func() {
	tb.Helper()

	cwd, err := os.Getwd()
	require.NoError(tb, err, "Cannot Getwd")

	require.NoError(tb, os.Chdir(path), "Cannot Chdir")

	return func() {
		err := os.Chdir(cwd)
		require.NoError(tb, err, "Cannot Chdir in cleanup")
	}
}

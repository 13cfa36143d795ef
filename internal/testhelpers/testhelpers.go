package testhelpers

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// PublicTree creates a temporary public directory holding an empty data
// subdirectory, mirroring the default filedrop layout
func PublicTree(tb testing.TB) (public string, data string) {
	tb.Helper()

	tmpDir, err := filepath.EvalSymlinks(tb.TempDir())
	require.NoError(tb, err)

	public = filepath.Join(tmpDir, "public")
	data = filepath.Join(public, "data")
	require.NoError(tb, os.MkdirAll(data, 0755))

	return public, data
}

// WriteFile creates path with the given content
func WriteFile(tb testing.TB, path, content string) {
	tb.Helper()

	require.NoError(tb, ioutil.WriteFile(path, []byte(content), 0644))
}

// WriteSizedFile creates path holding size bytes of a repeating pattern and
// returns that content
func WriteSizedFile(tb testing.TB, path string, size int) []byte {
	tb.Helper()

	content := make([]byte, size)
	for i := range content {
		content[i] = byte(i % 251)
	}

	require.NoError(tb, ioutil.WriteFile(path, content, 0644))

	return content
}

// AssertLogContains checks that wantLogEntry is contained in at least one of the log entries
func AssertLogContains(t *testing.T, wantLogEntry string, entries []*logrus.Entry) {
	t.Helper()

	if wantLogEntry != "" {
		messages := make([]string, len(entries))
		for k, entry := range entries {
			messages[k] = entry.Message
		}

		require.Contains(t, messages, wantLogEntry)
	}
}

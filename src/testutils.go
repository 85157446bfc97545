package flarm

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertOutputContains captures anything command writes to stdout and
// asserts it contains expectedOutputContains. Useful for cmd/flarmtool
// tests that print formatted NMEA sentences.
func AssertOutputContains(t *testing.T, command func(), expectedOutputContains string) {
	t.Helper()

	oldStdout := os.Stdout
	defer func() {
		os.Stdout = oldStdout
	}()

	r, w, _ := os.Pipe()
	os.Stdout = w

	command()

	w.Close() //nolint:gosec

	os.Stdout = oldStdout

	outputBytes, readErr := io.ReadAll(r)
	require.NoError(t, readErr)

	assert.Contains(t, string(outputBytes), expectedOutputContains)
}

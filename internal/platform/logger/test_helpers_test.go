package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestLogBuffer_GetLogEntries(t *testing.T) {
	l, buf := GetTestLogger(t)

	l.Info("first", "n", 1)
	l.Warn("second", "n", 2)

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0]["msg"])
	assert.Equal(t, "WARN", entries[1]["level"])

	buf.Reset()
	entries, err = buf.GetLogEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTestLogBuffer_InvalidJSON(t *testing.T) {
	buf := &TestLogBuffer{}
	_, _ = buf.Write([]byte("not json\n"))

	_, err := buf.GetLogEntries()
	assert.Error(t, err)
}

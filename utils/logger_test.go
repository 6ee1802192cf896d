package utils

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	logger := NewIsolatedLogger(path)

	logger.Debug("Swipe", "Refill started", map[string]interface{}{"mode": "browse"})
	logger.Error("App", "Realtime unavailable", map[string]interface{}{"error": "dial refused"})
	require.NoError(t, logger.Sync())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, "Swipe", lines[0]["module"])
	assert.Equal(t, "Refill started", lines[0]["message"])

	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "dial refused", lines[1]["error"])
}

func TestNopLoggerAcceptsNilDetails(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("Main", "ignored", nil)
	assert.NoError(t, logger.Sync())
}

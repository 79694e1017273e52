package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONPerFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	l, err := New(dir)
	require.NoError(t, err)

	l.Audit.Info("User registered", zap.Int("user_id", 1))
	l.Security.Info("below the security level")
	l.Security.Warn("Rejected token")
	l.Sync()

	for _, name := range []string{"errors.log", "audit.log", "request.log", "security.log", "system.log"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &entry))
	assert.Equal(t, "User registered", entry["msg"])
	assert.EqualValues(t, 1, entry["user_id"])
	assert.Contains(t, entry, "timestamp")

	raw, err = os.ReadFile(filepath.Join(dir, "security.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Rejected token")
}

func TestNew_Disabled(t *testing.T) {
	l, err := New(DisabledDir)
	require.NoError(t, err)
	l.Error.Error("dropped")
	l.Sync()
}

package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	prev := log.Logger
	buf := &bytes.Buffer{}
	log.Logger = zerolog.New(buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = prev })

	return buf
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestHelpersWriteFields(t *testing.T) {
	buf := captureLogs(t)

	Info("Team deleted", "team_id", "t1", "files", 2)
	Error(errors.New("boom"), "Failed to delete team")

	got := entries(t, buf)
	require.Len(t, got, 2)

	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "Team deleted", got[0]["message"])
	assert.Equal(t, "t1", got[0]["team_id"])
	assert.EqualValues(t, 2, got[0]["files"])

	assert.Equal(t, "error", got[1]["level"])
	assert.Equal(t, "boom", got[1]["error"])
}

func TestUnpairedFieldsAreDropped(t *testing.T) {
	buf := captureLogs(t)

	Warn("Odd", "key_without_value")

	got := entries(t, buf)
	require.Len(t, got, 2)
	assert.Equal(t, "warn", got[0]["log_level"])
	assert.Equal(t, "Odd", got[1]["message"])
	assert.NotContains(t, got[1], "key_without_value")
}

func TestComponentTagsLogger(t *testing.T) {
	buf := captureLogs(t)

	l := Component("collab_hub")
	l.Debug().Msg("Room created")

	got := entries(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "collab_hub", got[0]["component"])
}

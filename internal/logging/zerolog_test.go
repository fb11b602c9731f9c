package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZerologLogger_WritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(&buf, LevelDebug)

	log.With("module", "session").Warn(context.Background(), "profile sync failed", "err", errors.New("boom"), "user_id", "u1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, "profile sync failed", line["message"])
	require.Equal(t, "session", line["module"])
	require.Equal(t, "boom", line["err"])
	require.Equal(t, "u1", line["user_id"])
}

func TestZerologLogger_DanglingKey(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(&buf, LevelInfo)
	log.Info(context.Background(), "odd", "lonely")
	require.True(t, strings.Contains(buf.String(), "!BADKEY"))
}

func TestNew_SelectsBackend(t *testing.T) {
	var buf bytes.Buffer
	_, ok := New(Options{Format: FormatZerolog, Output: &buf}).(*ZerologLogger)
	require.True(t, ok)

	_, ok = New(Options{Format: FormatText, Output: &buf}).(*SlogLogger)
	require.True(t, ok)

	l := New(Options{Format: FormatJSON, Output: &buf, Level: "info"})
	l.Info(context.Background(), "json line")
	require.Contains(t, buf.String(), `"msg":"json line"`)
}

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZeroLogger_InfoWithDefaultFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(&buf, LevelInfo, Fields{"service": "findcountry"})

	l.Info("countries fetched", map[string]interface{}{"count": 2})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "countries fetched", lines[0]["message"])
	assert.Equal(t, "findcountry", lines[0]["service"])
	assert.EqualValues(t, 2, lines[0]["count"])
}

func TestZeroLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(&buf, LevelError, nil)

	l.Info("dropped", nil)
	l.Debug("dropped too", nil)
	l.Error(errors.New("boom"), map[string]interface{}{"url": "/v3.1/all"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Equal(t, "boom", lines[0]["error"])

	buf.Reset()
	l.SetLevel(LevelDebug)
	l.Debug("visible", nil)
	lines = decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "debug", lines[0]["level"])

	buf.Reset()
	l.SetLevel(LevelOff)
	l.Error(errors.New("silent"), nil)
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelError, ParseLevel(" ERROR "))
	assert.Equal(t, LevelOff, ParseLevel("none"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, "DEBUG", LevelDebug.String())
}

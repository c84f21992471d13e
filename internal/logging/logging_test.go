package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
}

func TestNewWithSink_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := newWithSink("warn", true, &buf)
	require.NoError(t, err)

	l.Infow("dropped")
	Component(l, "kb").Warnw("kept", FieldUnit, "pets")
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "kb", entry[FieldComponent])
	assert.Equal(t, "pets", entry[FieldUnit])
}

func TestNewWithSink_Console(t *testing.T) {
	var buf bytes.Buffer
	l, err := newWithSink("debug", false, &buf)
	require.NoError(t, err)

	l.Debugw("hello", FieldCount, 3)
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), `"count": 3`)
}

func TestComponent_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() { Component(nil, "x").Infow("ok") })
}

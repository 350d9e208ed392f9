package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitStampsServiceField(t *testing.T) {
	Init()
	var buf bytes.Buffer
	Log.SetOutput(&buf)

	WithField("request_id", "abc").Info("handled")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "nzgd-map", entry["service"])
	require.Equal(t, "abc", entry["request_id"])
	require.Equal(t, "handled", entry["msg"])
}

func TestServiceFieldNotOverwritten(t *testing.T) {
	Init()
	var buf bytes.Buffer
	Log.SetOutput(&buf)

	WithField("service", "other").Info("handled")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "other", entry["service"])
}

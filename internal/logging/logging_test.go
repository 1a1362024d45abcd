package logging

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want hclog.Level
	}{
		{"trace", hclog.Trace},
		{"DEBUG", hclog.Debug},
		{" info ", hclog.Info},
		{"warning", hclog.Warn},
		{"error", hclog.Error},
		{"off", hclog.Off},
		{"", hclog.Info},
		{"verbose", hclog.Info},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestNew_EnvOverridesConfiguredLevel(t *testing.T) {
	t.Setenv(LevelEnv, "error")

	var buf bytes.Buffer
	logger := New("critic", "debug", &buf)
	logger.Warn("dropped")
	logger.Error("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "critic")
}

func TestRestyLogger(t *testing.T) {
	t.Setenv(LevelEnv, "")

	var buf bytes.Buffer
	adapter := RestyLogger(New("http", "debug", &buf))
	adapter.Warnf("retrying %s\n", "request")
	adapter.Debugf("status %d", 201)

	out := buf.String()
	assert.Contains(t, out, "retrying request")
	assert.Contains(t, out, "status 201")
}

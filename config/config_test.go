package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationForms(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{`"30s"`, 30 * time.Second},
		{`"1m30s"`, 90 * time.Second},
		{`30`, 30 * time.Second},
		{`1.5`, time.Second},
		{`"0"`, 0},
	}
	for _, tc := range tests {
		var d duration
		require.NoError(t, d.UnmarshalJSON([]byte(tc.in)), tc.in)
		assert.Equal(t, tc.want, time.Duration(d), tc.in)
	}

	var d duration
	assert.Error(t, d.UnmarshalJSON([]byte(`"soon"`)))
}

func TestConfigRoundTrip(t *testing.T) {
	in := &Config{
		ListenHost: "0.0.0.0",
		ListenPort: "8080",
		Endpoint:   "http://localhost:3030/ds",
		BaseIRI:    "http://example.org",
		ReadOnly:   true,
		Timeout:    45 * time.Second,
		CacheSize:  256,
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timeout":"45s"`)

	var out Config
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, *in, out)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oldman.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"endpoint": "http://localhost:3030/ds",
		"timeout": "5s"
	}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3030/ds", cfg.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "127.0.0.1", cfg.ListenHost)
	assert.Equal(t, "64220", cfg.ListenPort)
	assert.Equal(t, 1024, cfg.CacheSize)
}

func TestLoadEmptyFilename(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

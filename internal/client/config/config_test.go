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

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerEndpointAddr)
	assert.Equal(t, "fittrack.db", cfg.DatabasePath)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestParseJson_OverridesOnlyPresentFields(t *testing.T) {
	file := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"server_endpoint_addr": "http://10.0.0.5:9000",
		"online_check_interval": "10s"
	}`), 0o600))

	orig := os.Args
	os.Args = []string{"client", "-c", file}
	defer func() { os.Args = orig }()

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "http://10.0.0.5:9000", cfg.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
	// not present in JSON, default retained
	assert.Equal(t, "fittrack.db", cfg.DatabasePath)
}

func TestParseFlags(t *testing.T) {
	orig := os.Args
	os.Args = []string{"client", "-a", "http://example.org:8081", "-d", "/tmp/data.db", "-i", "7"}
	defer func() { os.Args = orig }()

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	assert.Equal(t, "http://example.org:8081", cfg.ServerEndpointAddr)
	assert.Equal(t, "/tmp/data.db", cfg.DatabasePath)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
}

func TestJsonConfig_RoundTrip(t *testing.T) {
	data, err := json.Marshal(JsonConfig{ServerEndpointAddr: "http://h:1"})
	require.NoError(t, err)

	var jc JsonConfig
	require.NoError(t, json.Unmarshal(data, &jc))
	assert.Equal(t, "http://h:1", jc.ServerEndpointAddr)
}

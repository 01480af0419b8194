package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
network: mainnet
rpc:
  url: https://rpc.example
relay:
  endpoint: https://relay.local
  timeout: 10s
wallet:
  private_key: 4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318
logging:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "https://rpc.example", cfg.RPC.URL)
	assert.Equal(t, "https://relay.local", cfg.Relay.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Relay.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
rpc:
  url: https://rpc.example
wallet:
  private_key: 4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, 30*time.Second, cfg.Relay.Timeout)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MissingRequired(t *testing.T) {
	path := writeConfig(t, `
network: testnet
rpc:
  url: https://rpc.example
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoad_BadRelayURL(t *testing.T) {
	path := writeConfig(t, `
rpc:
  url: https://rpc.example
relay:
  endpoint: "not a url"
wallet:
  private_key: abc
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "info", Format: "json", OutputPath: "stdout"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = NewLogger(LoggingConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}

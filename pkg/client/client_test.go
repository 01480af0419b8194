package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/she110ff/acc-sdk/pkg/config"
	"github.com/she110ff/acc-sdk/pkg/networks"
)

func TestNew_UnsupportedNetwork(t *testing.T) {
	cfg := &config.Config{Network: "moonbase"}
	cfg.RPC.URL = "http://127.0.0.1:8545"

	_, err := New(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, networks.ErrUnsupportedNetwork)
}

func TestNew_UnreachableRPC(t *testing.T) {
	cfg := &config.Config{Network: networks.DevNet.Name}
	cfg.RPC.URL = "http://127.0.0.1:1"
	cfg.Wallet.PrivateKey = "0x0000000000000000000000000000000000000000000000000000000000000001"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := New(ctx, cfg, nil)
	require.Error(t, err)
}

package networks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	n, err := ByName("testnet")
	require.NoError(t, err)
	assert.Equal(t, int64(2019), n.ChainID)
	assert.NotEmpty(t, n.RelayEndpoint)
}

func TestByName_Unsupported(t *testing.T) {
	_, err := ByName("ropsten")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedNetwork))
	assert.Contains(t, err.Error(), "ropsten")
}

func TestByChainID(t *testing.T) {
	n, err := ByChainID(2151)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", n.Name)

	_, err = ByChainID(1)
	assert.True(t, errors.Is(err, ErrUnsupportedNetwork))
}

func TestDevNetHasNoRelay(t *testing.T) {
	n, err := ByName("devnet")
	require.NoError(t, err)
	assert.Empty(t, n.RelayEndpoint)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"devnet", "mainnet", "testnet"}, Names())
}

// Package networks defines the closed set of chains the SDK can operate on.
// Each network publishes the deployed contract addresses and, when available,
// the relay endpoint operated for that chain.
package networks

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnsupportedNetwork indicates the requested chain is not in the supported set.
var ErrUnsupportedNetwork = errors.New("acc: unsupported network")

// Network describes a supported chain and its published deployment.
type Network struct {
	// Name is the canonical network name used in configuration.
	Name string

	// ChainID is the EIP-155 chain ID.
	ChainID int64

	// NativeTokenSymbol is the gas token symbol of the chain.
	NativeTokenSymbol string

	// RelayEndpoint is the relay base URL published for this network.
	// Empty when the network operates no public relay.
	RelayEndpoint string

	// TokenAddress is the deployed loyalty token (ERC-20) contract.
	TokenAddress common.Address

	// LedgerAddress is the deployed loyalty ledger contract.
	LedgerAddress common.Address

	// LinkCollectionAddress is the deployed email link registry contract.
	LinkCollectionAddress common.Address
}

// Predefined networks. Insert more entries here to support more chains.
var (
	MainNet = Network{
		Name:                  "mainnet",
		ChainID:               2151,
		NativeTokenSymbol:     "ACC",
		RelayEndpoint:         "https://relay.acc-mainnet.bosagora.org",
		TokenAddress:          common.HexToAddress("0xB1A90a5C6e30d64Ab6f64C30eD392F46eDBcb022"),
		LedgerAddress:         common.HexToAddress("0x8f76B5C9fcF54b315afbdA28c2D9b5E02a1b5b26"),
		LinkCollectionAddress: common.HexToAddress("0x1cE35bF98fE2793A87f653C65a902e762755e5C1"),
	}

	TestNet = Network{
		Name:                  "testnet",
		ChainID:               2019,
		NativeTokenSymbol:     "ACC",
		RelayEndpoint:         "https://relay.acc-testnet.bosagora.org",
		TokenAddress:          common.HexToAddress("0xcC23Fbc0C6e4e9E2D88c9a09CbF1a1E9fA2c2b60"),
		LedgerAddress:         common.HexToAddress("0x47E91A3a4a89D8c536baFF745921BE5a69f6a983"),
		LinkCollectionAddress: common.HexToAddress("0x4501F7aF010Cef3DcEaAfbc7Bfb2B39dE57df54d"),
	}

	// DevNet targets a local standalone chain. It publishes no relay, so a
	// relay endpoint must be configured explicitly when one is needed.
	DevNet = Network{
		Name:                  "devnet",
		ChainID:               24680,
		NativeTokenSymbol:     "ACC",
		TokenAddress:          common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		LedgerAddress:         common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"),
		LinkCollectionAddress: common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"),
	}
)

var supported = []Network{MainNet, TestNet, DevNet}

var (
	byName    = map[string]Network{}
	byChainID = map[int64]Network{}
)

func init() {
	for _, n := range supported {
		if _, dup := byName[n.Name]; dup {
			panic(fmt.Errorf("network %q registered twice", n.Name))
		}
		if _, dup := byChainID[n.ChainID]; dup {
			panic(fmt.Errorf("chain id %d registered twice", n.ChainID))
		}
		byName[n.Name] = n
		byChainID[n.ChainID] = n
	}
}

// ByName returns the network registered under the given configuration name.
func ByName(name string) (Network, error) {
	n, ok := byName[name]
	if !ok {
		return Network{}, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, name)
	}
	return n, nil
}

// ByChainID returns the network with the given EIP-155 chain ID.
func ByChainID(chainID int64) (Network, error) {
	n, ok := byChainID[chainID]
	if !ok {
		return Network{}, fmt.Errorf("%w: chain id %d", ErrUnsupportedNetwork, chainID)
	}
	return n, nil
}

// Names returns the names of all supported networks, sorted.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

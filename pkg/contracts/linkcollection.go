package contracts

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const linkCollectionABI = `[
	{"type":"function","name":"toAddress","inputs":[{"name":"hash","type":"bytes32"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"}
]`

var parsedLinkCollectionABI = mustParseABI(linkCollectionABI)

// LinkCollection binds the email link registry contract that maps identity
// hashes to on-chain account addresses.
type LinkCollection struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewLinkCollection binds the link registry contract at the given address.
func NewLinkCollection(address common.Address, backend bind.ContractBackend) *LinkCollection {
	return &LinkCollection{
		address:  address,
		contract: bind.NewBoundContract(address, parsedLinkCollectionABI, backend, backend, backend),
	}
}

// Address returns the bound contract address.
func (c *LinkCollection) Address() common.Address {
	return c.address
}

// ToAddress returns the account address linked to the identity hash.
// The zero address is returned for hashes with no registration.
func (c *LinkCollection) ToAddress(ctx context.Context, hash common.Hash) (common.Address, error) {
	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "toAddress", [32]byte(hash))
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

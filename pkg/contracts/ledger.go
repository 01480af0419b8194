package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const ledgerABI = `[
	{"type":"function","name":"nonceOf","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"mileageBalanceOf","inputs":[{"name":"hash","type":"bytes32"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"tokenBalanceOf","inputs":[{"name":"hash","type":"bytes32"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"deposit","inputs":[{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"withdraw","inputs":[{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"}
]`

var parsedLedgerABI = mustParseABI(ledgerABI)

// Ledger binds the loyalty ledger contract. The ledger keeps per-identity
// mileage and deposited-token balances and the per-account signature nonce.
type Ledger struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewLedger binds the ledger contract at the given address.
func NewLedger(address common.Address, backend bind.ContractBackend) *Ledger {
	return &Ledger{
		address:  address,
		contract: bind.NewBoundContract(address, parsedLedgerABI, backend, backend, backend),
	}
}

// Address returns the bound contract address.
func (l *Ledger) Address() common.Address {
	return l.address
}

// NonceOf returns the current signature nonce of the account.
func (l *Ledger) NonceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	var out []interface{}
	err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "nonceOf", account)
	if err != nil {
		return nil, err
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// MileageBalanceOf returns the mileage balance recorded for the identity hash.
func (l *Ledger) MileageBalanceOf(ctx context.Context, hash common.Hash) (*big.Int, error) {
	var out []interface{}
	err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "mileageBalanceOf", [32]byte(hash))
	if err != nil {
		return nil, err
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// TokenBalanceOf returns the deposited token balance recorded for the identity hash.
func (l *Ledger) TokenBalanceOf(ctx context.Context, hash common.Hash) (*big.Int, error) {
	var out []interface{}
	err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "tokenBalanceOf", [32]byte(hash))
	if err != nil {
		return nil, err
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// Deposit moves tokens from the sender into the ledger.
func (l *Ledger) Deposit(opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	return l.contract.Transact(opts, "deposit", amount)
}

// Withdraw moves deposited tokens from the ledger back to the sender.
func (l *Ledger) Withdraw(opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	return l.contract.Transact(opts, "withdraw", amount)
}

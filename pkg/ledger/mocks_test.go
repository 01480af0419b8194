package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Manual mocks

type mockToken struct {
	balance   *big.Int
	allowance *big.Int

	approveCalls []*big.Int
}

func (m *mockToken) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return new(big.Int).Set(m.balance), nil
}

func (m *mockToken) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return new(big.Int).Set(m.allowance), nil
}

func (m *mockToken) Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error) {
	m.approveCalls = append(m.approveCalls, new(big.Int).Set(amount))
	return newFakeTx(1), nil
}

type mockLedger struct {
	address   common.Address
	nonce     *big.Int
	mileage   *big.Int
	deposited *big.Int

	depositCalls  []*big.Int
	withdrawCalls []*big.Int
}

func (m *mockLedger) Address() common.Address { return m.address }

func (m *mockLedger) NonceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return new(big.Int).Set(m.nonce), nil
}

func (m *mockLedger) MileageBalanceOf(ctx context.Context, hash common.Hash) (*big.Int, error) {
	return new(big.Int).Set(m.mileage), nil
}

func (m *mockLedger) TokenBalanceOf(ctx context.Context, hash common.Hash) (*big.Int, error) {
	return new(big.Int).Set(m.deposited), nil
}

func (m *mockLedger) Deposit(opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	m.depositCalls = append(m.depositCalls, new(big.Int).Set(amount))
	return newFakeTx(2), nil
}

func (m *mockLedger) Withdraw(opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	m.withdrawCalls = append(m.withdrawCalls, new(big.Int).Set(amount))
	return newFakeTx(3), nil
}

// mockBackend satisfies bind.DeployBackend and records the order receipts
// were requested in.
type mockBackend struct {
	status uint64
	mined  []common.Hash
}

func (m *mockBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	m.mined = append(m.mined, txHash)
	return &types.Receipt{Status: m.status, GasUsed: 42000, TxHash: txHash}, nil
}

func (m *mockBackend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}

// mockRegistry implements identity.LinkRegistry.
type mockRegistry struct {
	addr common.Address
}

func (m *mockRegistry) ToAddress(ctx context.Context, hash common.Hash) (common.Address, error) {
	return m.addr, nil
}

func newFakeTx(nonce uint64) *types.Transaction {
	to := common.HexToAddress("0x00000000000000000000000000000000000000ff")
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      21000,
		GasPrice: big.NewInt(1),
	})
}

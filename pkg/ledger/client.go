// Package ledger implements the direct on-chain flows that do not go
// through the relay: token deposits into the loyalty ledger, withdrawals
// back to the wallet, and balance queries.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/she110ff/acc-sdk/internal/metrics"
	"github.com/she110ff/acc-sdk/pkg/amount"
	"github.com/she110ff/acc-sdk/pkg/identity"
	"github.com/she110ff/acc-sdk/pkg/payment"
	"github.com/she110ff/acc-sdk/pkg/wallet"
)

// ErrInsufficientBalance indicates the requested amount is not covered by
// the available balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// TokenContract is the token-contract surface the ledger flows need.
type TokenContract interface {
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error)
}

// LedgerContract is the ledger-contract surface the flows need.
type LedgerContract interface {
	Address() common.Address
	NonceOf(ctx context.Context, account common.Address) (*big.Int, error)
	MileageBalanceOf(ctx context.Context, hash common.Hash) (*big.Int, error)
	TokenBalanceOf(ctx context.Context, hash common.Hash) (*big.Int, error)
	Deposit(opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error)
	Withdraw(opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error)
}

// Client runs the direct on-chain flows. Each call is a self-contained
// sequence; no state is kept between calls.
type Client struct {
	chainID  *big.Int
	token    TokenContract
	ledger   LedgerContract
	resolver *identity.Resolver
	signer   wallet.Signer
	backend  bind.DeployBackend
	logger   *zap.Logger
}

// Option configures the ledger client.
type Option func(*Client)

// WithLogger sets a custom logger for the ledger client.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a ledger client.
func New(chainID *big.Int, token TokenContract, ledger LedgerContract, resolver *identity.Resolver, signer wallet.Signer, backend bind.DeployBackend, opts ...Option) *Client {
	c := &Client{
		chainID:  chainID,
		token:    token,
		ledger:   ledger,
		resolver: resolver,
		signer:   signer,
		backend:  backend,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Deposit moves tokens from the signer's wallet into the ledger. When the
// current allowance does not cover the amount, an approval is submitted and
// mined first. The submitted transactions are returned in order, each
// already confirmed.
func (c *Client) Deposit(ctx context.Context, email string, amt *amount.Amount) ([]*types.Transaction, error) {
	account, err := c.resolver.ResolveEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account != c.signer.Address() {
		return nil, fmt.Errorf("%w: linked %s, signer %s",
			payment.ErrSignerMismatch, account.Hex(), c.signer.Address().Hex())
	}

	value := amt.Int()
	balance, err := c.token.BalanceOf(ctx, account)
	if err != nil {
		return nil, err
	}
	if value.Cmp(balance) >= 0 {
		return nil, fmt.Errorf("%w: requested %s, token balance %s",
			ErrInsufficientBalance, value, balance)
	}

	allowance, err := c.token.Allowance(ctx, account, c.ledger.Address())
	if err != nil {
		return nil, err
	}

	var txs []*types.Transaction
	if allowance.Cmp(value) <= 0 {
		opts, err := c.transactOpts(ctx)
		if err != nil {
			return nil, err
		}
		approveTx, err := c.token.Approve(opts, c.ledger.Address(), value)
		if err != nil {
			return nil, err
		}
		metrics.TransactionsSubmitted.WithLabelValues("approve").Inc()
		c.logger.Info("approval transaction submitted",
			zap.String("tx_hash", approveTx.Hash().Hex()),
			zap.String("amount", value.String()))
		if err := c.awaitMined(ctx, approveTx, "approve"); err != nil {
			return nil, err
		}
		txs = append(txs, approveTx)
	}

	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	depositTx, err := c.ledger.Deposit(opts, value)
	if err != nil {
		return nil, err
	}
	metrics.TransactionsSubmitted.WithLabelValues("deposit").Inc()
	c.logger.Info("deposit transaction submitted",
		zap.String("tx_hash", depositTx.Hash().Hex()),
		zap.String("amount", value.String()))
	if err := c.awaitMined(ctx, depositTx, "deposit"); err != nil {
		return nil, err
	}
	return append(txs, depositTx), nil
}

// Withdraw moves deposited tokens from the ledger back to the signer's
// wallet and waits for the transaction to be mined.
func (c *Client) Withdraw(ctx context.Context, email string, amt *amount.Amount) (*types.Transaction, error) {
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}
	hash := identity.Hash(email)

	value := amt.Int()
	deposited, err := c.ledger.TokenBalanceOf(ctx, hash)
	if err != nil {
		return nil, err
	}
	if value.Cmp(deposited) >= 0 {
		return nil, fmt.Errorf("%w: requested %s, deposited %s",
			ErrInsufficientBalance, value, deposited)
	}

	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := c.ledger.Withdraw(opts, value)
	if err != nil {
		return nil, err
	}
	metrics.TransactionsSubmitted.WithLabelValues("withdraw").Inc()
	c.logger.Info("withdraw transaction submitted",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.String("amount", value.String()))
	if err := c.awaitMined(ctx, tx, "withdraw"); err != nil {
		return nil, err
	}
	return tx, nil
}

// MileageBalanceOf returns the mileage balance recorded for the email.
func (c *Client) MileageBalanceOf(ctx context.Context, email string) (*amount.Amount, error) {
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}
	v, err := c.ledger.MileageBalanceOf(ctx, identity.Hash(email))
	if err != nil {
		return nil, err
	}
	return amount.New(v), nil
}

// TokenBalanceOf returns the deposited token balance recorded for the email.
func (c *Client) TokenBalanceOf(ctx context.Context, email string) (*amount.Amount, error) {
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}
	v, err := c.ledger.TokenBalanceOf(ctx, identity.Hash(email))
	if err != nil {
		return nil, err
	}
	return amount.New(v), nil
}

// WalletBalanceOf returns the token balance held by the account's wallet.
func (c *Client) WalletBalanceOf(ctx context.Context, account common.Address) (*amount.Amount, error) {
	v, err := c.token.BalanceOf(ctx, account)
	if err != nil {
		return nil, err
	}
	return amount.New(v), nil
}

// NonceOf returns the current signature nonce of the account.
func (c *Client) NonceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.ledger.NonceOf(ctx, account)
}

func (c *Client) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := c.signer.TransactOpts(c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

func (c *Client) awaitMined(ctx context.Context, tx *types.Transaction, operation string) error {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return err
	}
	metrics.GasUsed.WithLabelValues(operation).Observe(float64(receipt.GasUsed))
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%s transaction %s reverted", operation, tx.Hash().Hex())
	}
	return nil
}

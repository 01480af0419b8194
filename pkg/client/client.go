// Package client is the top-level SDK surface. It composes the contract
// bindings, the signed-option builder, the relay dispatcher and the ledger
// flows behind a single client that is frozen after construction.
package client

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/she110ff/acc-sdk/pkg/amount"
	"github.com/she110ff/acc-sdk/pkg/config"
	"github.com/she110ff/acc-sdk/pkg/contracts"
	"github.com/she110ff/acc-sdk/pkg/identity"
	"github.com/she110ff/acc-sdk/pkg/ledger"
	"github.com/she110ff/acc-sdk/pkg/networks"
	"github.com/she110ff/acc-sdk/pkg/payment"
	"github.com/she110ff/acc-sdk/pkg/relay"
	"github.com/she110ff/acc-sdk/pkg/wallet"
)

// PayRequest describes a purchase payment to be relayed.
type PayRequest struct {
	// PurchaseID identifies the purchase; use payment.NewPurchaseID when
	// the caller has no order numbering of its own.
	PurchaseID string

	// Amount is the payment amount.
	Amount *amount.Amount

	// Email is the raw user email; only its hash leaves the process.
	Email string

	// ShopID identifies the shop receiving the payment.
	ShopID string
}

// Client is the SDK entry point. All fields are set at construction and
// never mutated afterwards; per-call state lives on the stack.
type Client struct {
	network networks.Network
	eth     *ethclient.Client
	signer  *wallet.KeySigner
	token   *contracts.Token

	resolver *identity.Resolver
	builder  *payment.Builder
	relay    *relay.Client
	ledger   *ledger.Client

	logger *zap.Logger
}

// New builds a client from configuration. The configured network must be in
// the supported set and must match the chain the RPC endpoint serves.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	network, err := networks.ByName(cfg.Network)
	if err != nil {
		return nil, err
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPC.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to query chain id: %w", err)
	}
	if chainID.Int64() != network.ChainID {
		eth.Close()
		return nil, fmt.Errorf("%w: RPC serves chain id %s, network %q expects %d",
			networks.ErrUnsupportedNetwork, chainID, network.Name, network.ChainID)
	}

	signer, err := wallet.NewKeySigner(cfg.Wallet.PrivateKey)
	if err != nil {
		eth.Close()
		return nil, err
	}

	token := contracts.NewToken(network.TokenAddress, eth)
	ledgerContract := contracts.NewLedger(network.LedgerAddress, eth)
	link := contracts.NewLinkCollection(network.LinkCollectionAddress, eth)

	resolver := identity.NewResolver(link, identity.WithLogger(logger))

	relayOpts := []relay.Option{relay.WithLogger(logger)}
	if cfg.Relay.Endpoint != "" {
		relayOpts = append(relayOpts, relay.WithEndpoint(cfg.Relay.Endpoint))
	}
	if cfg.Relay.Timeout > 0 {
		relayOpts = append(relayOpts, relay.WithTimeout(cfg.Relay.Timeout))
	}
	relayClient, err := relay.New(network, relayOpts...)
	if err != nil {
		eth.Close()
		return nil, err
	}

	logger.Info("connected",
		zap.String("network", network.Name),
		zap.Int64("chain_id", network.ChainID),
		zap.String("account", signer.Address().Hex()))

	return &Client{
		network:  network,
		eth:      eth,
		signer:   signer,
		token:    token,
		resolver: resolver,
		builder:  payment.NewBuilder(resolver, ledgerContract, signer, payment.WithLogger(logger)),
		relay:    relayClient,
		ledger: ledger.New(big.NewInt(network.ChainID), token, ledgerContract, resolver, signer, eth,
			ledger.WithLogger(logger)),
		logger: logger,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Network returns the active network.
func (c *Client) Network() networks.Network {
	return c.network
}

// Address returns the signing account address.
func (c *Client) Address() common.Address {
	return c.signer.Address()
}

// PayMileage signs a purchase payment and relays it against the user's
// mileage balance.
func (c *Client) PayMileage(ctx context.Context, req PayRequest) (*relay.Response, error) {
	return c.pay(ctx, req, relay.PathPayMileage)
}

// PayToken signs a purchase payment and relays it against the user's
// deposited token balance.
func (c *Client) PayToken(ctx context.Context, req PayRequest) (*relay.Response, error) {
	return c.pay(ctx, req, relay.PathPayToken)
}

func (c *Client) pay(ctx context.Context, req PayRequest, path string) (*relay.Response, error) {
	opt, err := c.builder.BuildPaymentOption(ctx, req.PurchaseID, req.Amount, req.Email, req.ShopID)
	if err != nil {
		return nil, err
	}
	return c.relay.Submit(ctx, path, opt)
}

// ExchangeMileageToToken signs and relays a mileage-to-token exchange.
func (c *Client) ExchangeMileageToToken(ctx context.Context, email string, amt *amount.Amount) (*relay.Response, error) {
	return c.exchange(ctx, email, amt, payment.MileageToToken, relay.PathExchangeMileageToToken)
}

// ExchangeTokenToMileage signs and relays a token-to-mileage exchange.
func (c *Client) ExchangeTokenToMileage(ctx context.Context, email string, amt *amount.Amount) (*relay.Response, error) {
	return c.exchange(ctx, email, amt, payment.TokenToMileage, relay.PathExchangeTokenToMileage)
}

func (c *Client) exchange(ctx context.Context, email string, amt *amount.Amount, direction payment.Direction, path string) (*relay.Response, error) {
	opt, err := c.builder.BuildExchangeOption(ctx, email, amt, direction)
	if err != nil {
		return nil, err
	}
	return c.relay.Submit(ctx, path, opt)
}

// Deposit moves tokens from the wallet into the ledger, approving first
// when the allowance does not cover the amount. Returns the submitted
// transactions in order, each confirmed.
func (c *Client) Deposit(ctx context.Context, email string, amt *amount.Amount) ([]*types.Transaction, error) {
	return c.ledger.Deposit(ctx, email, amt)
}

// Withdraw moves deposited tokens back to the wallet.
func (c *Client) Withdraw(ctx context.Context, email string, amt *amount.Amount) (*types.Transaction, error) {
	return c.ledger.Withdraw(ctx, email, amt)
}

// MileageBalanceOf returns the user's mileage balance.
func (c *Client) MileageBalanceOf(ctx context.Context, email string) (*amount.Amount, error) {
	return c.ledger.MileageBalanceOf(ctx, email)
}

// TokenBalanceOf returns the user's deposited token balance.
func (c *Client) TokenBalanceOf(ctx context.Context, email string) (*amount.Amount, error) {
	return c.ledger.TokenBalanceOf(ctx, email)
}

// WalletBalanceOf returns the token balance of an account's wallet.
func (c *Client) WalletBalanceOf(ctx context.Context, account common.Address) (*amount.Amount, error) {
	return c.ledger.WalletBalanceOf(ctx, account)
}

// AllowanceOf returns the amount the ledger contract may transfer from the
// owner's wallet.
func (c *Client) AllowanceOf(ctx context.Context, owner common.Address) (*amount.Amount, error) {
	v, err := c.token.Allowance(ctx, owner, c.network.LedgerAddress)
	if err != nil {
		return nil, err
	}
	return amount.New(v), nil
}

// NonceOf returns the current signature nonce of the account.
func (c *Client) NonceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.ledger.NonceOf(ctx, account)
}

// LinkedAddressOf resolves the account linked to the email.
func (c *Client) LinkedAddressOf(ctx context.Context, email string) (common.Address, error) {
	return c.resolver.ResolveEmail(ctx, email)
}

// RelayAlive reports whether the relay answers its liveness probe.
func (c *Client) RelayAlive(ctx context.Context) bool {
	return c.relay.Probe(ctx)
}

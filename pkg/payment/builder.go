package payment

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/she110ff/acc-sdk/pkg/amount"
	"github.com/she110ff/acc-sdk/pkg/identity"
	"github.com/she110ff/acc-sdk/pkg/wallet"
)

// ErrSignerMismatch indicates the address linked to the identity is not the
// active signer's address. Signing on behalf of another account is refused.
var ErrSignerMismatch = errors.New("acc: linked address does not match signer")

// NonceSource supplies the current per-account signature nonce from the
// ledger contract.
type NonceSource interface {
	NonceOf(ctx context.Context, account common.Address) (*big.Int, error)
}

// Signer is the signing surface the builder needs; wallet.Signer satisfies it.
type Signer interface {
	Address() common.Address
	SignDigest(digest common.Hash) ([]byte, error)
}

// Builder constructs signed relay options. It holds no mutable state; every
// build resolves the identity and fetches a fresh nonce.
type Builder struct {
	resolver *identity.Resolver
	nonces   NonceSource
	signer   Signer
	logger   *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets a custom logger for the builder.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a signed-option builder.
func NewBuilder(resolver *identity.Resolver, nonces NonceSource, signer Signer, opts ...Option) *Builder {
	b := &Builder{
		resolver: resolver,
		nonces:   nonces,
		signer:   signer,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildPaymentOption builds and signs a purchase payment option.
func (b *Builder) BuildPaymentOption(ctx context.Context, purchaseID string, amt *amount.Amount, email, shopID string) (*PaymentOption, error) {
	account, emailHash, nonce, err := b.prepare(ctx, email)
	if err != nil {
		return nil, err
	}

	digest, err := PaymentDigest(purchaseID, amt.Int(), emailHash, shopID, account, nonce)
	if err != nil {
		return nil, err
	}
	sig, err := b.signer.SignDigest(digest)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("built payment option",
		zap.String("purchase_id", purchaseID),
		zap.String("shop_id", shopID),
		zap.String("amount", amt.String()),
		zap.String("nonce", nonce.String()))

	return &PaymentOption{
		PurchaseID: purchaseID,
		Amount:     amt,
		Email:      emailHash,
		ShopID:     shopID,
		Account:    account,
		Signature:  wallet.EncodeSignature(sig),
	}, nil
}

// BuildExchangeOption builds and signs a balance exchange option.
func (b *Builder) BuildExchangeOption(ctx context.Context, email string, amt *amount.Amount, direction Direction) (*ExchangeOption, error) {
	account, emailHash, nonce, err := b.prepare(ctx, email)
	if err != nil {
		return nil, err
	}

	digest, err := ExchangeDigest(emailHash, amt.Int(), account, nonce)
	if err != nil {
		return nil, err
	}
	sig, err := b.signer.SignDigest(digest)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("built exchange option",
		zap.Stringer("direction", direction),
		zap.String("amount", amt.String()),
		zap.String("nonce", nonce.String()))

	return &ExchangeOption{
		Email:     emailHash,
		Amount:    amt,
		Account:   account,
		Signature: wallet.EncodeSignature(sig),
		Direction: direction,
	}, nil
}

// prepare runs the shared preamble: validate the email, resolve the linked
// account, refuse foreign accounts, and fetch the nonce. The nonce fetch
// stays as close to signing as possible and is never cached; a stale nonce
// would be rejected by the relay.
func (b *Builder) prepare(ctx context.Context, email string) (common.Address, common.Hash, *big.Int, error) {
	if err := identity.ValidateEmail(email); err != nil {
		return common.Address{}, common.Hash{}, nil, err
	}
	emailHash := identity.Hash(email)

	account, err := b.resolver.Resolve(ctx, emailHash)
	if err != nil {
		return common.Address{}, common.Hash{}, nil, err
	}
	if account != b.signer.Address() {
		return common.Address{}, common.Hash{}, nil, fmt.Errorf("%w: linked %s, signer %s",
			ErrSignerMismatch, account.Hex(), b.signer.Address().Hex())
	}

	nonce, err := b.nonces.NonceOf(ctx, account)
	if err != nil {
		return common.Address{}, common.Hash{}, nil, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	return account, emailHash, nonce, nil
}

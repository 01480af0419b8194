// Package identity maps user emails to on-chain accounts. Raw emails never
// leave the process: every contract and relay interaction uses the keccak256
// hash of the email as the identity key.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	// ErrInvalidEmail indicates the email failed structural validation.
	ErrInvalidEmail = errors.New("acc: invalid email")

	// ErrUnregisteredEmail indicates the email hash has no linked address.
	ErrUnregisteredEmail = errors.New("acc: email has no linked address")
)

var validate = validator.New()

// ValidateEmail checks the structural validity of an email before hashing.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

// Hash returns the keccak256 digest of the email used as the on-chain key.
func Hash(email string) common.Hash {
	return crypto.Keccak256Hash([]byte(email))
}

// LinkRegistry looks up the account linked to an identity hash.
type LinkRegistry interface {
	ToAddress(ctx context.Context, hash common.Hash) (common.Address, error)
}

// Resolver resolves identity hashes to linked account addresses.
// Resolution is a pure read and safe to retry.
type Resolver struct {
	registry LinkRegistry
	logger   *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger for the resolver.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a resolver backed by the given link registry.
func NewResolver(registry LinkRegistry, opts ...Option) *Resolver {
	r := &Resolver{registry: registry, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the account linked to the identity hash. A zero-address
// registry result means the identity is unregistered.
func (r *Resolver) Resolve(ctx context.Context, hash common.Hash) (common.Address, error) {
	addr, err := r.registry.ToAddress(ctx, hash)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to look up linked address: %w", err)
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s", ErrUnregisteredEmail, hash.Hex())
	}
	r.logger.Debug("resolved linked address",
		zap.String("hash", hash.Hex()),
		zap.String("address", addr.Hex()))
	return addr, nil
}

// ResolveEmail validates and hashes the email, then resolves it.
func (r *Resolver) ResolveEmail(ctx context.Context, email string) (common.Address, error) {
	if err := ValidateEmail(email); err != nil {
		return common.Address{}, err
	}
	return r.Resolve(ctx, Hash(email))
}

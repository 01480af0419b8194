package payment

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Manual mocks

// mockRegistry implements identity.LinkRegistry.
type mockRegistry struct {
	ToAddressFunc func(ctx context.Context, hash common.Hash) (common.Address, error)
}

func (m *mockRegistry) ToAddress(ctx context.Context, hash common.Hash) (common.Address, error) {
	if m.ToAddressFunc != nil {
		return m.ToAddressFunc(ctx, hash)
	}
	return common.Address{}, nil
}

// mockNonceSource hands out strictly increasing nonces and records them.
type mockNonceSource struct {
	next   int64
	err    error
	served []*big.Int
}

func (m *mockNonceSource) NonceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.next++
	n := big.NewInt(m.next)
	m.served = append(m.served, n)
	return new(big.Int).Set(n), nil
}

// countingSigner wraps a wallet.Signer and counts SignDigest calls.
type countingSigner struct {
	inner interface {
		Address() common.Address
		SignDigest(common.Hash) ([]byte, error)
	}
	calls int
}

func (c *countingSigner) Address() common.Address {
	return c.inner.Address()
}

func (c *countingSigner) SignDigest(digest common.Hash) ([]byte, error) {
	c.calls++
	return c.inner.SignDigest(digest)
}

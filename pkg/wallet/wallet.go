// Package wallet holds the signing side of the SDK: an EIP-191 personal
// signer backed by a private key, and signature recovery used to verify
// relayed payloads.
package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer produces EIP-191 personal signatures over 32-byte digests and
// transaction options for direct on-chain calls.
type Signer interface {
	// Address returns the account address of the signer.
	Address() common.Address

	// SignDigest signs the digest with the EIP-191 personal-message prefix
	// applied. The returned signature is 65 bytes with v in {27, 28}.
	SignDigest(digest common.Hash) ([]byte, error)

	// TransactOpts returns keyed transaction options for the given chain.
	TransactOpts(chainID *big.Int) (*bind.TransactOpts, error)
}

// KeySigner is a Signer backed by an in-memory secp256k1 private key.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

var _ Signer = (*KeySigner)(nil)

// NewKeySigner creates a KeySigner from a hex-encoded private key.
func NewKeySigner(privateKeyHex string) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	return NewKeySignerFromKey(key), nil
}

// NewKeySignerFromKey wraps an existing private key.
func NewKeySignerFromKey(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// Address returns the account address derived from the key.
func (s *KeySigner) Address() common.Address {
	return s.address
}

// SignDigest signs the 32-byte digest as an EIP-191 personal message.
func (s *KeySigner) SignDigest(digest common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(prefixedHash(digest).Bytes(), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}
	sig[64] += 27
	return sig, nil
}

// TransactOpts returns keyed transaction options for the given chain.
func (s *KeySigner) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	return opts, nil
}

// RecoverSigner returns the address that produced an EIP-191 personal
// signature over the digest. v may be 0, 1, 27 or 28.
func RecoverSigner(digest common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != 65 {
		return common.Address{}, fmt.Errorf("invalid signature length: expected 65, got %d", len(signature))
	}
	sig := make([]byte, 65)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pubKey, err := crypto.SigToPub(prefixedHash(digest).Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// ParseSignature decodes a 0x-prefixed hex signature string.
func ParseSignature(signature string) ([]byte, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid signature hex: %w", err)
	}
	return sig, nil
}

// EncodeSignature encodes a signature as a 0x-prefixed hex string.
func EncodeSignature(signature []byte) string {
	return "0x" + hex.EncodeToString(signature)
}

func prefixedHash(digest common.Hash) common.Hash {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(digest))
	return crypto.Keccak256Hash(append([]byte(prefixed), digest.Bytes()...))
}

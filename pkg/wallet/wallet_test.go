package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndRecover(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := NewKeySignerFromKey(key)

	digest := crypto.Keccak256Hash([]byte("payload"))
	sig, err := signer.SignDigest(digest)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.GreaterOrEqual(t, sig[64], byte(27))

	recovered, err := RecoverSigner(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), recovered)
}

func TestRecoverSigner_NormalizedV(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := NewKeySignerFromKey(key)

	digest := crypto.Keccak256Hash([]byte("payload"))
	sig, err := signer.SignDigest(digest)
	require.NoError(t, err)

	// v already normalized to 0/1 must recover the same address.
	sig[64] -= 27
	recovered, err := RecoverSigner(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), recovered)
}

func TestRecoverSigner_BadLength(t *testing.T) {
	_, err := RecoverSigner(crypto.Keccak256Hash([]byte("x")), []byte{1, 2, 3})
	require.Error(t, err)
}

func TestNewKeySigner_HexPrefix(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := "0x" + common256(key.D)

	signer, err := NewKeySigner(hexKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), signer.Address())
}

func TestNewKeySigner_Invalid(t *testing.T) {
	_, err := NewKeySigner("not-a-key")
	require.Error(t, err)
}

func TestSignatureHexRoundTrip(t *testing.T) {
	sig := make([]byte, 65)
	for i := range sig {
		sig[i] = byte(i)
	}
	parsed, err := ParseSignature(EncodeSignature(sig))
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)
}

func TestTransactOpts(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := NewKeySignerFromKey(key)

	opts, err := signer.TransactOpts(big.NewInt(2019))
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), opts.From)
}

// common256 left-pads the private scalar to 64 hex characters.
func common256(d *big.Int) string {
	s := d.Text(16)
	for len(s) < 64 {
		s = "0" + s
	}
	return s
}

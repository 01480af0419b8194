package payment

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// The digests must match the relay and ledger contract verification
// bit-for-bit: keccak256 over the ABI encoding of the operation fields
// followed by the account's current ledger nonce.

var (
	typString  = mustNewType("string")
	typUint256 = mustNewType("uint256")
	typBytes32 = mustNewType("bytes32")
	typAddress = mustNewType("address")

	paymentArgs = abi.Arguments{
		{Type: typString},  // purchaseId
		{Type: typUint256}, // amount
		{Type: typBytes32}, // email hash
		{Type: typString},  // shopId
		{Type: typAddress}, // account
		{Type: typUint256}, // nonce
	}

	exchangeArgs = abi.Arguments{
		{Type: typBytes32}, // email hash
		{Type: typUint256}, // amount
		{Type: typAddress}, // account
		{Type: typUint256}, // nonce
	}
)

func mustNewType(name string) abi.Type {
	typ, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// PaymentDigest computes the digest signed for a purchase payment.
func PaymentDigest(purchaseID string, amount *big.Int, emailHash common.Hash, shopID string, account common.Address, nonce *big.Int) (common.Hash, error) {
	packed, err := paymentArgs.Pack(purchaseID, amount, [32]byte(emailHash), shopID, account, nonce)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode payment message: %w", err)
	}
	return crypto.Keccak256Hash(packed), nil
}

// ExchangeDigest computes the digest signed for a balance exchange.
func ExchangeDigest(emailHash common.Hash, amount *big.Int, account common.Address, nonce *big.Int) (common.Hash, error) {
	packed, err := exchangeArgs.Pack([32]byte(emailHash), amount, account, nonce)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode exchange message: %w", err)
	}
	return crypto.Keccak256Hash(packed), nil
}

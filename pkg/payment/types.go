// Package payment builds the signed options the relay accepts for gasless
// execution: purchase payments and mileage/token exchanges. An option is an
// immutable value created per request and discarded once dispatched.
package payment

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/she110ff/acc-sdk/pkg/amount"
)

// PaymentOption is a signed purchase payment payload. The same option is
// accepted on both the mileage and the token payment relay paths; the path
// selects which balance settles the purchase.
type PaymentOption struct {
	// PurchaseID identifies the purchase in the shop's order system.
	PurchaseID string `json:"purchaseId"`

	// Amount is the payment amount in the smallest unit, as a decimal string.
	Amount *amount.Amount `json:"amount"`

	// Email is the identity hash of the paying user.
	Email common.Hash `json:"email"`

	// ShopID identifies the shop receiving the payment.
	ShopID string `json:"shopId"`

	// Account is the on-chain account linked to the identity.
	Account common.Address `json:"signer"`

	// Signature is the EIP-191 signature over the payment digest.
	Signature string `json:"signature"`
}

// Direction selects which way an exchange converts balances.
type Direction int

const (
	// MileageToToken converts mileage into deposited tokens.
	MileageToToken Direction = iota
	// TokenToMileage converts deposited tokens into mileage.
	TokenToMileage
)

func (d Direction) String() string {
	switch d {
	case MileageToToken:
		return "mileageToToken"
	case TokenToMileage:
		return "tokenToMileage"
	default:
		return "unknown"
	}
}

// ExchangeOption is a signed balance exchange payload.
type ExchangeOption struct {
	// Email is the identity hash of the user.
	Email common.Hash `json:"email"`

	// Amount is the exchange amount in the smallest unit, as a decimal string.
	Amount *amount.Amount `json:"amount"`

	// Account is the on-chain account linked to the identity.
	Account common.Address `json:"signer"`

	// Signature is the EIP-191 signature over the exchange digest.
	Signature string `json:"signature"`

	// Direction is not transmitted; the relay path carries it.
	Direction Direction `json:"-"`
}

// NewPurchaseID generates a unique purchase identifier for callers that do
// not bring their own order numbering.
func NewPurchaseID() string {
	return "P" + uuid.NewString()
}

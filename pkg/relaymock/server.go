// Package relaymock implements an in-memory relay service with the same
// HTTP surface as the production relay. It verifies the EIP-191 signatures
// of submitted options against its own nonce book, so SDK integration tests
// and local development can run without a chain behind the relay.
package relaymock

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/she110ff/acc-sdk/pkg/amount"
	"github.com/she110ff/acc-sdk/pkg/payment"
	"github.com/she110ff/acc-sdk/pkg/relay"
	"github.com/she110ff/acc-sdk/pkg/wallet"
)

var validate = validator.New()

// Submission is an accepted relay request, kept for inspection.
type Submission struct {
	Path    string
	Account common.Address
	Email   common.Hash
	Amount  *amount.Amount
	Nonce   *big.Int
	TxHash  common.Hash
}

// Server is the mock relay. Safe for concurrent use.
type Server struct {
	logger *zap.Logger

	mu          sync.Mutex
	nonces      map[common.Address]*big.Int
	submissions []Submission
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a mock relay with an empty nonce book. The first
// submission of each account is verified against nonce 1.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger: zap.NewNop(),
		nonces: map[common.Address]*big.Int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP surface of the mock relay.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleLiveness)
	r.Post("/"+relay.PathPayMileage, s.handlePay)
	r.Post("/"+relay.PathPayToken, s.handlePay)
	r.Post("/"+relay.PathExchangeMileageToToken, s.handleExchange)
	r.Post("/"+relay.PathExchangeTokenToMileage, s.handleExchange)
	return r
}

// NonceOf returns the next nonce the server expects for the account.
// It satisfies the nonce source the option builder reads from, so a
// builder pointed at the mock stays aligned with its nonce book.
func (s *Server) NonceOf(account common.Address) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.expectedNonce(account))
}

// Submissions returns a copy of all accepted submissions in order.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Submission, len(s.submissions))
	copy(out, s.submissions)
	return out
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, "OK")
}

type payRequest struct {
	PurchaseID string `json:"purchaseId" validate:"required"`
	Amount     string `json:"amount" validate:"required"`
	Email      string `json:"email" validate:"required"`
	ShopID     string `json:"shopId" validate:"required"`
	Account    string `json:"signer" validate:"required,eth_addr"`
	Signature  string `json:"signature" validate:"required"`
}

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if !s.decode(w, r, &req) {
		return
	}

	amt, err := amount.FromString(req.Amount)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid amount: %v", err))
		return
	}
	account := common.HexToAddress(req.Account)
	email := common.HexToHash(req.Email)

	path := chi.RouteContext(r.Context()).RoutePattern()[1:]
	s.verifyAndRecord(w, path, account, email, amt, req.Signature,
		func(nonce *big.Int) (common.Hash, error) {
			return payment.PaymentDigest(req.PurchaseID, amt.Int(), email, req.ShopID, account, nonce)
		})
}

type exchangeRequest struct {
	Email     string `json:"email" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	Account   string `json:"signer" validate:"required,eth_addr"`
	Signature string `json:"signature" validate:"required"`
}

func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if !s.decode(w, r, &req) {
		return
	}

	amt, err := amount.FromString(req.Amount)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid amount: %v", err))
		return
	}
	account := common.HexToAddress(req.Account)
	email := common.HexToHash(req.Email)

	path := chi.RouteContext(r.Context()).RoutePattern()[1:]
	s.verifyAndRecord(w, path, account, email, amt, req.Signature,
		func(nonce *big.Int) (common.Hash, error) {
			return payment.ExchangeDigest(email, amt.Int(), account, nonce)
		})
}

// verifyAndRecord checks the signature against the account's expected nonce,
// then records the submission and advances the nonce book.
func (s *Server) verifyAndRecord(w http.ResponseWriter, path string, account common.Address, email common.Hash, amt *amount.Amount, signature string, digestFn func(nonce *big.Int) (common.Hash, error)) {
	sig, err := wallet.ParseSignature(signature)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid signature: %v", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nonce := s.expectedNonce(account)
	digest, err := digestFn(nonce)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}

	recovered, err := wallet.RecoverSigner(digest, sig)
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, fmt.Sprintf("signature recovery failed: %v", err))
		return
	}
	if recovered != account {
		s.logger.Warn("signer mismatch",
			zap.String("path", path),
			zap.String("claimed", account.Hex()),
			zap.String("recovered", recovered.Hex()))
		s.writeError(w, http.StatusUnauthorized, "signature does not match signer")
		return
	}

	txHash := crypto.Keccak256Hash(digest.Bytes(), nonce.Bytes())
	s.submissions = append(s.submissions, Submission{
		Path:    path,
		Account: account,
		Email:   email,
		Amount:  amt,
		Nonce:   new(big.Int).Set(nonce),
		TxHash:  txHash,
	})
	s.nonces[account] = new(big.Int).Add(nonce, big.NewInt(1))

	s.logger.Info("accepted",
		zap.String("path", path),
		zap.String("account", account.Hex()),
		zap.String("nonce", nonce.String()),
		zap.String("tx_hash", txHash.Hex()))

	s.writeJSON(w, http.StatusOK, relay.Response{
		Code: 0,
		Data: mustRaw(map[string]string{"txHash": txHash.Hex()}),
	})
}

// expectedNonce must be called with s.mu held.
func (s *Server) expectedNonce(account common.Address) *big.Int {
	if n, ok := s.nonces[account]; ok {
		return n
	}
	return big.NewInt(1)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request")
		return false
	}
	if err := json.Unmarshal(body, req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	if err := validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, relay.Response{
		Code:  status,
		Error: &relay.ResponseError{Message: message},
	})
}

func mustRaw(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

// Package relay dispatches signed options to the relay HTTP service that
// submits the corresponding on-chain transactions on the user's behalf.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/she110ff/acc-sdk/internal/metrics"
	"github.com/she110ff/acc-sdk/pkg/networks"
)

// ErrNoRelayConfigured indicates no relay endpoint was configured and the
// active network publishes none.
var ErrNoRelayConfigured = errors.New("acc: no relay endpoint configured")

// ErrRelayRequestFailed indicates the relay rejected a submission.
var ErrRelayRequestFailed = errors.New("acc: relay request failed")

// Relay paths served by the relay service.
const (
	PathPayMileage             = "payMileage"
	PathPayToken               = "payToken"
	PathExchangeMileageToToken = "exchangeMileageToToken"
	PathExchangeTokenToMileage = "exchangeTokenToMileage"
)

// Response is the relay's response envelope.
type Response struct {
	Code  int             `json:"code"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ResponseError  `json:"error,omitempty"`
}

// ResponseError carries a relay-reported failure reason.
type ResponseError struct {
	Message string `json:"message"`
}

type settings struct {
	Endpoint string
	Timeout  time.Duration `default:"30s"`
	Client   *http.Client
	Logger   *zap.Logger
}

// Option configures the relay client.
type Option func(*settings)

// WithEndpoint overrides the network-published relay endpoint.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) { s.Endpoint = endpoint }
}

// WithTimeout sets the per-request HTTP deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) { s.Timeout = timeout }
}

// WithHTTPClient sets a custom HTTP client. Its timeout is left untouched.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) { s.Client = client }
}

// WithLogger sets a custom logger for the relay client.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.Logger = l }
}

// Client posts signed options to the relay. Immutable after construction;
// the endpoint is resolved per call from fixed fields.
type Client struct {
	network  networks.Network
	endpoint string
	hc       *http.Client
	logger   *zap.Logger
}

// New creates a relay client for the given network.
func New(network networks.Network, opts ...Option) (*Client, error) {
	var s settings
	if err := defaults.Set(&s); err != nil {
		return nil, fmt.Errorf("failed to apply default settings: %w", err)
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	if s.Client == nil {
		s.Client = &http.Client{Timeout: s.Timeout}
	}
	return &Client{
		network:  network,
		endpoint: s.Endpoint,
		hc:       s.Client,
		logger:   s.Logger,
	}, nil
}

// ResolveEndpoint joins the relay base URL with a relative path. An endpoint
// configured at construction wins over the network-published one. The base
// is normalized so a missing trailing separator does not change the result.
func (c *Client) ResolveEndpoint(path string) (string, error) {
	base := c.endpoint
	if base == "" {
		base = c.network.RelayEndpoint
	}
	if base == "" {
		return "", fmt.Errorf("%w: network %q publishes no relay", ErrNoRelayConfigured, c.network.Name)
	}
	joined, err := url.JoinPath(base, path)
	if err != nil {
		return "", fmt.Errorf("invalid relay endpoint %q: %w", base, err)
	}
	return joined, nil
}

// Submit posts the payload to the relay path and returns the parsed
// response envelope. Non-2xx responses and relay-reported errors are
// surfaced as errors wrapping ErrRelayRequestFailed.
func (c *Client) Submit(ctx context.Context, path string, payload interface{}) (*Response, error) {
	endpoint, err := c.ResolveEndpoint(path)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.hc.Do(req)
	metrics.RelayRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RelayRequestsTotal.WithLabelValues(path, "transport_error").Inc()
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.RelayRequestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

	var envelope Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode relay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || (envelope.Error != nil && envelope.Error.Message != "") {
		reason := ""
		if envelope.Error != nil {
			reason = envelope.Error.Message
		}
		c.logger.Debug("relay rejected submission",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("reason", reason))
		return &envelope, fmt.Errorf("%w: status %d, reason: %s", ErrRelayRequestFailed, resp.StatusCode, reason)
	}

	c.logger.Debug("relay accepted submission",
		zap.String("path", path),
		zap.Int("code", envelope.Code))
	return &envelope, nil
}

// Probe reports whether the relay is alive. It returns true only when the
// well-known health path answers with the exact body "OK". Every failure,
// including transport errors, yields false; probing never returns an error.
func (c *Client) Probe(ctx context.Context) bool {
	endpoint, err := c.ResolveEndpoint("")
	if err != nil {
		metrics.RelayProbesTotal.WithLabelValues("unconfigured").Inc()
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		metrics.RelayProbesTotal.WithLabelValues("error").Inc()
		return false
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Debug("relay probe failed", zap.Error(err))
		metrics.RelayProbesTotal.WithLabelValues("down").Inc()
		return false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	alive := err == nil && string(body) == "OK"
	if alive {
		metrics.RelayProbesTotal.WithLabelValues("up").Inc()
	} else {
		metrics.RelayProbesTotal.WithLabelValues("down").Inc()
	}
	return alive
}

package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/nodeshard/shuttle/address"
)

// MaxFetchResponseSize is the maximum allowed response body size for content
// fetches (1 GB). This prevents memory exhaustion from a misbehaving gateway.
const MaxFetchResponseSize = 1 << 30

// paymentHeader carries the wallet's payment authorization on store requests.
const paymentHeader = "X-Shuttle-Payment"

// GatewayConfig holds gateway client settings.
type GatewayConfig struct {
	// URL is the gateway base URL, e.g. "http://gw1.shuttle.example:8540".
	URL string

	// Timeout bounds a single request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout is the per-request timeout when none is configured.
// Generous because store requests carry whole file payloads.
const DefaultTimeout = 120 * time.Second

// GatewayClient talks to a network gateway node over its HTTP API. It
// implements ContentService. Store requests are authorized by the Payer;
// fetch requests are unauthenticated reads.
type GatewayClient struct {
	url    string
	payer  Payer
	client *http.Client
}

// Compile-time interface check.
var _ ContentService = (*GatewayClient)(nil)

// storeResponse is the gateway's JSON response to a store request.
type storeResponse struct {
	Address string `json:"address"`
	Cost    uint64 `json:"cost"`
}

// errorResponse is the gateway's JSON error body, when it sends one.
type errorResponse struct {
	Error string `json:"error"`
}

// NewGatewayClient creates a gateway client. payer may be nil for a
// fetch-only client; store requests then fail with ErrInsufficientFunds
// before touching the network.
func NewGatewayClient(cfg GatewayConfig, payer Payer) *GatewayClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &GatewayClient{
		url:   cfg.URL,
		payer: payer,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// Store uploads payload to the gateway and returns the assigned address and
// quoted cost. The payment authorization covers exactly this payload.
func (c *GatewayClient) Store(ctx context.Context, payload []byte) (*StoreResult, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if c.payer == nil {
		return nil, fmt.Errorf("%w: no payment key configured", ErrInsufficientFunds)
	}

	auth, err := c.payer.Authorization(payload)
	if err != nil {
		return nil, fmt.Errorf("network: payment authorization: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/v1/data", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("network: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set(paymentHeader, auth)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var sr storeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode store response: %w", ErrInvalidResponse, err)
	}

	addr, err := address.ParseData(sr.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: store address: %w", ErrInvalidResponse, err)
	}

	return &StoreResult{Address: addr, Cost: sr.Cost}, nil
}

// Fetch retrieves the bytes stored at addr.
func (c *GatewayClient) Fetch(ctx context.Context, addr address.Address) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/v1/data/"+addr.Hex(), nil)
	if err != nil {
		return nil, fmt.Errorf("network: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrInvalidResponse, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body for %s", ErrInvalidResponse, addr.Hex())
	}

	return data, nil
}

// classifyStatus maps a non-2xx gateway response onto the error taxonomy.
// The body is read (bounded) so the operator sees the gateway's reason.
func classifyStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	reason := readErrorReason(resp.Body)

	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		return fmt.Errorf("%w: %s", ErrInsufficientFunds, reason)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, reason)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, reason)
	case resp.StatusCode == http.StatusRequestTimeout, resp.StatusCode == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: HTTP %d: %s", ErrTimeout, resp.StatusCode, reason)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", ErrUnavailable, resp.StatusCode, reason)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", ErrInvalidResponse, resp.StatusCode, reason)
	}
}

// readErrorReason extracts the gateway's error message from a response body,
// falling back to the raw (truncated) body when it is not the JSON shape.
func readErrorReason(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 1024))
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return string(raw)
}

// classifyTransportErr maps an http.Client error onto the taxonomy: timeouts
// are ErrTimeout, everything else (refused connections, resets, DNS) is
// ErrUnavailable. Both are transient.
func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

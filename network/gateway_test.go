package network

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeshard/shuttle/address"
)

// staticPayer is a Payer returning a fixed header value.
type staticPayer struct {
	auth string
	err  error
}

func (p *staticPayer) Authorization(payload []byte) (string, error) {
	return p.auth, p.err
}

func testAddrHex(seed byte) string {
	return strings.Repeat(hex.EncodeToString([]byte{seed}), address.Size)
}

func TestStore(t *testing.T) {
	payload := []byte("some content")
	addrHex := testAddrHex(0x1a)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/data", r.URL.Path)
		assert.Equal(t, "pay-token", r.Header.Get("X-Shuttle-Payment"))

		_ = json.NewEncoder(w).Encode(storeResponse{Address: addrHex, Cost: 1250})
	}))
	defer srv.Close()

	c := NewGatewayClient(GatewayConfig{URL: srv.URL}, &staticPayer{auth: "pay-token"})
	result, err := c.Store(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, addrHex, result.Address.Hex())
	assert.Equal(t, uint64(1250), result.Cost)
}

func TestStore_EmptyPayload(t *testing.T) {
	c := NewGatewayClient(GatewayConfig{URL: "http://unused"}, &staticPayer{})
	_, err := c.Store(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestStore_NoPayer(t *testing.T) {
	c := NewGatewayClient(GatewayConfig{URL: "http://unused"}, nil)
	_, err := c.Store(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestStore_PaymentRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "wallet balance too low"})
	}))
	defer srv.Close()

	c := NewGatewayClient(GatewayConfig{URL: srv.URL}, &staticPayer{auth: "t"})
	_, err := c.Store(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "wallet balance too low")
	assert.False(t, IsTransient(err))
}

func TestStore_BadAddressInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(storeResponse{Address: "not-hex", Cost: 1})
	}))
	defer srv.Close()

	c := NewGatewayClient(GatewayConfig{URL: srv.URL}, &staticPayer{auth: "t"})
	_, err := c.Store(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestFetch(t *testing.T) {
	addr, err := address.ParseData(testAddrHex(0x2b))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/data/"+addr.Hex(), r.URL.Path)
		_, _ = w.Write([]byte("stored bytes"))
	}))
	defer srv.Close()

	c := NewGatewayClient(GatewayConfig{URL: srv.URL}, nil)
	data, err := c.Fetch(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, []byte("stored bytes"), data)
}

func TestFetch_NotFound(t *testing.T) {
	addr, err := address.ParseData(testAddrHex(0x2b))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such content", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewGatewayClient(GatewayConfig{URL: srv.URL}, nil)
	_, err = c.Fetch(context.Background(), addr)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsTransient(err))
}

func TestFetch_AcceptsArchiveAddress(t *testing.T) {
	dataAddr, err := address.ParseData(testAddrHex(0x3c))
	require.NoError(t, err)
	archAddr := address.ArchiveFrom(dataAddr)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/data/"+archAddr.Hex(), r.URL.Path)
		_, _ = w.Write([]byte("manifest"))
	}))
	defer srv.Close()

	c := NewGatewayClient(GatewayConfig{URL: srv.URL}, nil)
	data, err := c.Fetch(context.Background(), archAddr)
	require.NoError(t, err)
	assert.Equal(t, []byte("manifest"), data)
}

func TestClassifyStatus_Taxonomy(t *testing.T) {
	tests := []struct {
		status    int
		want      error
		transient bool
	}{
		{http.StatusPaymentRequired, ErrInsufficientFunds, false},
		{http.StatusNotFound, ErrNotFound, false},
		{http.StatusTooManyRequests, ErrRateLimited, true},
		{http.StatusRequestTimeout, ErrTimeout, true},
		{http.StatusGatewayTimeout, ErrTimeout, true},
		{http.StatusInternalServerError, ErrUnavailable, true},
		{http.StatusServiceUnavailable, ErrUnavailable, true},
		{http.StatusBadRequest, ErrInvalidResponse, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("HTTP_%d", tt.status), func(t *testing.T) {
			resp := &http.Response{
				StatusCode: tt.status,
				Body:       http.NoBody,
			}
			err := classifyStatus(resp)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.transient, IsTransient(err))
		})
	}
}

func TestFetch_ConnectionRefusedIsTransient(t *testing.T) {
	addr, err := address.ParseData(testAddrHex(0x2b))
	require.NoError(t, err)

	// A server that is already closed refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewGatewayClient(GatewayConfig{URL: srv.URL, Timeout: 2 * time.Second}, nil)
	_, err = c.Fetch(context.Background(), addr)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

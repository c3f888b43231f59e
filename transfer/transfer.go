// Package transfer sequences the paid, irreversible operations that move
// data in and out of the network: upload with optional read-back
// verification and archiving, archive creation for already-stored data,
// and single or archive-mode download. It is the shared business logic
// layer the CLI drives.
package transfer

import (
	"context"

	"go.uber.org/zap"

	"github.com/nodeshard/shuttle/address"
	"github.com/nodeshard/shuttle/network"
	"github.com/nodeshard/shuttle/receipts"
	"github.com/nodeshard/shuttle/retry"
)

// Client orchestrates transfers against a content service. Every network
// call goes through the retry policy; fatal failures and exhausted retries
// surface to the caller.
type Client struct {
	service network.ContentService
	policy  retry.Policy
	log     *zap.Logger

	// receiptLog, when set, records successful paid writes. Recording is
	// best-effort: a receipt failure never fails the operation.
	receiptLog *receipts.Store
}

// Options configures a Client. Zero values select defaults.
type Options struct {
	// Policy overrides the retry policy. A nil Retryable field defaults
	// to the network error classification.
	Policy retry.Policy

	// Receipts, when set, records successful paid writes.
	Receipts *receipts.Store

	// Logger receives progress and attempt logging. Nil means no logging.
	Logger *zap.Logger
}

// New creates a transfer client over the given content service.
func New(service network.ContentService, opts Options) *Client {
	policy := opts.Policy
	if policy.Retryable == nil {
		policy.Retryable = network.IsTransient
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		service:    service,
		policy:     policy,
		log:        log,
		receiptLog: opts.Receipts,
	}
}

// storeWithRetry runs one retried store of payload. step names the
// operation for attempt logging.
func (c *Client) storeWithRetry(ctx context.Context, step string, payload []byte) (*network.StoreResult, int, error) {
	policy := c.policy
	policy.OnAttempt = func(attempt int, err error) {
		c.log.Warn("store attempt failed, retrying",
			zap.String("step", step),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", policy.MaxAttempts),
			zap.Error(err))
	}
	return retry.Do(ctx, policy, func(ctx context.Context) (*network.StoreResult, error) {
		return c.service.Store(ctx, payload)
	})
}

// fetchWithRetry runs one retried fetch of addr.
func (c *Client) fetchWithRetry(ctx context.Context, step string, addr address.Address) ([]byte, int, error) {
	policy := c.policy
	policy.OnAttempt = func(attempt int, err error) {
		c.log.Warn("fetch attempt failed, retrying",
			zap.String("step", step),
			zap.String("address", addr.Hex()),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", policy.MaxAttempts),
			zap.Error(err))
	}
	return retry.Do(ctx, policy, func(ctx context.Context) ([]byte, error) {
		return c.service.Fetch(ctx, addr)
	})
}

// recordReceipt appends a paid-write receipt, best-effort.
func (c *Client) recordReceipt(r *receipts.Receipt) {
	if c.receiptLog == nil {
		return
	}
	if err := c.receiptLog.Append(r); err != nil {
		c.log.Warn("failed to record receipt",
			zap.String("address", r.Address),
			zap.Error(err))
	}
}

package network

import (
	"context"

	"github.com/nodeshard/shuttle/address"
)

// ContentService is the primary interface to the storage network. Each call
// is a single attempt and a fresh network round trip — retrying is the
// caller's concern (see the retry package), and nothing is cached.
type ContentService interface {
	// Store pays for and writes payload to the network, returning the
	// content address the network assigned and the quoted cost. A store
	// is irreversible: once the network accepts it, the tokens are spent.
	Store(ctx context.Context, payload []byte) (*StoreResult, error)

	// Fetch retrieves the immutable bytes named by addr. Both address
	// kinds are accepted; what the bytes encode is the caller's business.
	Fetch(ctx context.Context, addr address.Address) ([]byte, error)
}

// StoreResult holds the outcome of a successful store operation.
type StoreResult struct {
	// Address names the stored bytes.
	Address address.Data

	// Cost is the network-quoted price in atto-tokens.
	Cost uint64
}

// Payer signs store requests so the gateway can charge the operator's
// wallet. Implemented by the wallet package.
type Payer interface {
	// Authorization returns the payment header value for the given payload.
	Authorization(payload []byte) (string, error)
}

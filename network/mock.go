package network

import (
	"context"

	"github.com/nodeshard/shuttle/address"
)

// MockContentService is a test double for ContentService.
// All function fields must be set before the corresponding method is called.
type MockContentService struct {
	StoreFn func(ctx context.Context, payload []byte) (*StoreResult, error)
	FetchFn func(ctx context.Context, addr address.Address) ([]byte, error)
}

func (m *MockContentService) Store(ctx context.Context, payload []byte) (*StoreResult, error) {
	return m.StoreFn(ctx, payload)
}

func (m *MockContentService) Fetch(ctx context.Context, addr address.Address) ([]byte, error) {
	return m.FetchFn(ctx, addr)
}

package transfer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nodeshard/shuttle/address"
	"github.com/nodeshard/shuttle/archive"
	"github.com/nodeshard/shuttle/receipts"
)

// DefaultEntryName is the archive entry path used when the caller supplies
// none.
const DefaultEntryName = "archived_file"

// ArchiveExistingOpts holds options for archiving already-stored data.
type ArchiveExistingOpts struct {
	// Address is the data address to reference. It is assumed valid and
	// is not re-fetched or verified.
	Address address.Data

	// EntryPath is the entry's relative path inside the archive. Nested
	// segments are allowed. Empty means DefaultEntryName.
	EntryPath string
}

// ArchiveExistingResult reports a successful archive store.
type ArchiveExistingResult struct {
	// Address names the stored archive.
	Address address.Archive

	// EntryPath is the single entry's path.
	EntryPath string

	// Cost is the store cost in atto-tokens.
	Cost uint64

	// Attempts is how many store attempts were made.
	Attempts int
}

// ArchiveExisting builds a one-entry archive for data already on the
// network and stores it with retries. Unlike the automatic archive after
// an upload, the caller fully controls the entry path.
func (c *Client) ArchiveExisting(ctx context.Context, opts ArchiveExistingOpts) (*ArchiveExistingResult, error) {
	entryPath := opts.EntryPath
	if entryPath == "" {
		entryPath = DefaultEntryName
	}

	a := archive.New()
	if err := a.Add(entryPath, opts.Address); err != nil {
		return nil, err
	}

	payload, err := a.Serialize()
	if err != nil {
		return nil, err
	}

	c.log.Info("storing archive for existing data",
		zap.String("data_address", opts.Address.Hex()),
		zap.String("entry_path", entryPath))

	stored, attempts, err := c.storeWithRetry(ctx, "archive", payload)
	if err != nil {
		return nil, fmt.Errorf("transfer: archive store: %w", err)
	}

	archiveAddr := address.ArchiveFrom(stored.Address)

	c.recordReceipt(&receipts.Receipt{
		Address: archiveAddr.Hex(),
		Kind:    receipts.KindArchive,
		Name:    entryPath,
		Size:    int64(len(payload)),
		Cost:    stored.Cost,
	})

	return &ArchiveExistingResult{
		Address:   archiveAddr,
		EntryPath: entryPath,
		Cost:      stored.Cost,
		Attempts:  attempts,
	}, nil
}

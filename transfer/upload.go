package transfer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nodeshard/shuttle/address"
	"github.com/nodeshard/shuttle/archive"
	"github.com/nodeshard/shuttle/receipts"
)

// UploadOpts captures the operator's intent for an upload run. Verify and
// Archive are answered before the first network call and never re-asked:
// once the paid store begins there is nothing left to decide interactively.
type UploadOpts struct {
	// FilePath is the local file to upload.
	FilePath string

	// OutputDir is where verification output is written. Empty skips
	// writing even when Verify is set.
	OutputDir string

	// Verify requests a read-back and byte-for-byte comparison after the
	// upload succeeds.
	Verify bool

	// Archive requests a one-entry archive named after the file's base
	// name after the upload succeeds.
	Archive bool
}

// VerifyOutcome describes the optional verification step.
type VerifyOutcome struct {
	// Match is true when the fetched bytes equal the uploaded bytes.
	Match bool

	// SavedTo is the local path the fetched or verified bytes were
	// written to, when an output directory was supplied.
	SavedTo string

	// Err is set when the verification fetch itself failed. The upload
	// is unaffected.
	Err error
}

// ArchiveOutcome describes the optional automatic-archive step.
type ArchiveOutcome struct {
	// Address names the stored archive. Zero when Err is set.
	Address address.Archive

	// EntryPath is the single entry's path (the file's base name).
	EntryPath string

	// Cost is the archive store cost in atto-tokens.
	Cost uint64

	// Err is set when the archive store failed. The data address from
	// the upload remains valid.
	Err error
}

// UploadResult reports an upload run. DataAddress is always set: a result
// is only returned once the upload itself has succeeded.
type UploadResult struct {
	// DataAddress names the uploaded content.
	DataAddress address.Data

	// Cost is the upload cost in atto-tokens.
	Cost uint64

	// Size is the uploaded payload length.
	Size int64

	// Attempts is how many store attempts the upload took.
	Attempts int

	// Verify is non-nil when verification was requested.
	Verify *VerifyOutcome

	// Archive is non-nil when archiving was requested.
	Archive *ArchiveOutcome
}

// Upload reads the file, stores it with retries, and runs the optional
// verification and archiving steps captured in opts. A failed upload
// returns an error and nothing else; failures in the optional steps are
// reported in the result and never invalidate the data address.
func (c *Client) Upload(ctx context.Context, opts UploadOpts) (*UploadResult, error) {
	original, err := os.ReadFile(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("transfer: read file %s: %w", opts.FilePath, err)
	}
	if len(original) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, opts.FilePath)
	}
	baseName := filepath.Base(opts.FilePath)

	c.log.Info("uploading file",
		zap.String("file", opts.FilePath),
		zap.Int("bytes", len(original)),
		zap.Bool("verify", opts.Verify),
		zap.Bool("archive", opts.Archive))

	stored, attempts, err := c.storeWithRetry(ctx, "upload", original)
	if err != nil {
		return nil, fmt.Errorf("transfer: upload failed, no data address obtained: %w", err)
	}

	c.log.Info("upload succeeded",
		zap.String("address", stored.Address.Hex()),
		zap.Uint64("cost", stored.Cost),
		zap.Int("attempts", attempts))

	c.recordReceipt(&receipts.Receipt{
		Address: stored.Address.Hex(),
		Kind:    receipts.KindData,
		Name:    baseName,
		Size:    int64(len(original)),
		Cost:    stored.Cost,
	})

	result := &UploadResult{
		DataAddress: stored.Address,
		Cost:        stored.Cost,
		Size:        int64(len(original)),
		Attempts:    attempts,
	}

	if opts.Verify {
		result.Verify = c.verifyUpload(ctx, stored.Address, original, baseName, opts.OutputDir)
	}

	if opts.Archive {
		result.Archive = c.archiveUpload(ctx, stored.Address, baseName)
	}

	return result, nil
}

// verifyUpload fetches the just-stored address back and compares it against
// the original bytes. The outcome is informational: the upload already
// succeeded.
func (c *Client) verifyUpload(ctx context.Context, addr address.Data, original []byte, baseName, outputDir string) *VerifyOutcome {
	fetched, _, err := c.fetchWithRetry(ctx, "verify", addr)
	if err != nil {
		c.log.Warn("verification fetch failed, skipping verification",
			zap.String("address", addr.Hex()),
			zap.Error(err))
		return &VerifyOutcome{Err: err}
	}

	outcome := &VerifyOutcome{Match: bytes.Equal(original, fetched)}

	if outputDir == "" {
		if !outcome.Match {
			c.log.Warn("verification mismatch", zap.String("address", addr.Hex()))
		}
		return outcome
	}

	if outcome.Match {
		target := filepath.Join(outputDir, baseName)
		if err := os.WriteFile(target, fetched, 0644); err != nil {
			c.log.Warn("failed to write verified file", zap.String("path", target), zap.Error(err))
		} else {
			outcome.SavedTo = target
		}
		return outcome
	}

	// Keep the mismatched bytes for inspection instead of discarding them.
	target := filepath.Join(outputDir, baseName+".mismatched")
	c.log.Warn("verification mismatch, saving fetched bytes",
		zap.String("address", addr.Hex()),
		zap.String("path", target))
	if err := os.WriteFile(target, fetched, 0644); err != nil {
		c.log.Warn("failed to write mismatched file", zap.String("path", target), zap.Error(err))
	} else {
		outcome.SavedTo = target
	}
	return outcome
}

// archiveUpload stores a one-entry archive for the uploaded data. The entry
// path is the file's base name: directory components are deliberately
// stripped on this automatic path, unlike the standalone archive command
// where the caller controls the path.
func (c *Client) archiveUpload(ctx context.Context, dataAddr address.Data, baseName string) *ArchiveOutcome {
	outcome := &ArchiveOutcome{EntryPath: baseName}

	a := archive.New()
	if err := a.Add(baseName, dataAddr); err != nil {
		outcome.Err = err
		return outcome
	}

	payload, err := a.Serialize()
	if err != nil {
		outcome.Err = err
		return outcome
	}

	stored, attempts, err := c.storeWithRetry(ctx, "archive", payload)
	if err != nil {
		c.log.Warn("archive store failed; the data address remains valid",
			zap.String("data_address", dataAddr.Hex()),
			zap.Error(err))
		outcome.Err = err
		return outcome
	}

	outcome.Address = address.ArchiveFrom(stored.Address)
	outcome.Cost = stored.Cost

	c.log.Info("archive stored",
		zap.String("archive_address", outcome.Address.Hex()),
		zap.Uint64("cost", stored.Cost),
		zap.Int("attempts", attempts))

	c.recordReceipt(&receipts.Receipt{
		Address: outcome.Address.Hex(),
		Kind:    receipts.KindArchive,
		Name:    baseName,
		Size:    int64(len(payload)),
		Cost:    stored.Cost,
	})

	return outcome
}

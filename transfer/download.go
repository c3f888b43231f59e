package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nodeshard/shuttle/address"
	"github.com/nodeshard/shuttle/archive"
)

// DownloadFileOpts holds options for a single-content download.
type DownloadFileOpts struct {
	// Address names the content to fetch.
	Address address.Data

	// OutputPath is the full local file path to write. Missing parent
	// directories are created.
	OutputPath string
}

// DownloadFile fetches one content item with retries and writes it to the
// output path. Fetch failures leave nothing on disk; a write failure may
// leave a partial file behind, which is surfaced as the error without
// cleanup.
func (c *Client) DownloadFile(ctx context.Context, opts DownloadFileOpts) error {
	data, attempts, err := c.fetchWithRetry(ctx, "download", opts.Address)
	if err != nil {
		return fmt.Errorf("transfer: download %s: %w", opts.Address.Hex(), err)
	}

	c.log.Info("fetched content",
		zap.String("address", opts.Address.Hex()),
		zap.Int("bytes", len(data)),
		zap.Int("attempts", attempts))

	if err := writeLocalFile(opts.OutputPath, data); err != nil {
		return err
	}

	c.log.Info("saved file", zap.String("path", opts.OutputPath))
	return nil
}

// DownloadArchiveOpts holds options for an archive-mode download.
type DownloadArchiveOpts struct {
	// Address names the archive manifest to fetch.
	Address address.Archive

	// OutputRoot is the directory the archive's relative paths are
	// recreated beneath.
	OutputRoot string
}

// EntryOutcome is the result of downloading one archive entry.
type EntryOutcome struct {
	// Path is the entry's relative path inside the archive.
	Path string

	// LocalPath is where the entry was written (set on success).
	LocalPath string

	// Err is the entry's failure, nil on success.
	Err error
}

// DownloadSummary aggregates per-entry outcomes of an archive download.
// Entries are in archive order.
type DownloadSummary struct {
	Entries []EntryOutcome
}

// Succeeded returns the number of entries downloaded successfully.
func (s *DownloadSummary) Succeeded() int {
	n := 0
	for _, e := range s.Entries {
		if e.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of entries that failed.
func (s *DownloadSummary) Failed() int {
	return len(s.Entries) - s.Succeeded()
}

// FailedEntries returns the outcomes of the failed entries.
func (s *DownloadSummary) FailedEntries() []EntryOutcome {
	var out []EntryOutcome
	for _, e := range s.Entries {
		if e.Err != nil {
			out = append(out, e)
		}
	}
	return out
}

// DownloadArchive fetches an archive manifest, then downloads every entry
// beneath the output root. Entries are independent: one entry's failure
// never aborts the rest — the archive may reference many separately stored
// items with separate availability — so the summary carries every
// outcome. The returned error is non-nil only for whole-operation
// failures: fetching or decoding the manifest itself.
func (c *Client) DownloadArchive(ctx context.Context, opts DownloadArchiveOpts) (*DownloadSummary, error) {
	raw, _, err := c.fetchWithRetry(ctx, "download-archive", opts.Address)
	if err != nil {
		return nil, fmt.Errorf("transfer: fetch archive %s: %w", opts.Address.Hex(), err)
	}

	a, err := archive.Deserialize(raw)
	if err != nil {
		return nil, fmt.Errorf("transfer: archive %s: %w", opts.Address.Hex(), err)
	}

	entries := a.Entries()
	c.log.Info("downloading archive",
		zap.String("address", opts.Address.Hex()),
		zap.Int("entries", len(entries)),
		zap.String("output_root", opts.OutputRoot))

	if len(entries) == 0 {
		return &DownloadSummary{}, nil
	}

	if err := os.MkdirAll(opts.OutputRoot, 0755); err != nil {
		return nil, fmt.Errorf("transfer: create output root %s: %w", opts.OutputRoot, err)
	}

	summary := &DownloadSummary{Entries: make([]EntryOutcome, 0, len(entries))}
	for _, entry := range entries {
		summary.Entries = append(summary.Entries, c.downloadEntry(ctx, opts.OutputRoot, entry))
	}

	c.log.Info("archive download complete",
		zap.Int("succeeded", summary.Succeeded()),
		zap.Int("failed", summary.Failed()))

	return summary, nil
}

// downloadEntry fetches and writes one archive entry.
func (c *Client) downloadEntry(ctx context.Context, root string, entry archive.Entry) EntryOutcome {
	outcome := EntryOutcome{Path: entry.Path}
	target := filepath.Join(root, filepath.FromSlash(entry.Path))

	data, _, err := c.fetchWithRetry(ctx, "download-entry", entry.Address)
	if err != nil {
		c.log.Warn("entry download failed",
			zap.String("entry", entry.Path),
			zap.String("address", entry.Address.Hex()),
			zap.Error(err))
		outcome.Err = err
		return outcome
	}

	if err := writeLocalFile(target, data); err != nil {
		c.log.Warn("entry write failed", zap.String("entry", entry.Path), zap.Error(err))
		outcome.Err = err
		return outcome
	}

	c.log.Info("saved entry", zap.String("entry", entry.Path), zap.String("path", target))
	outcome.LocalPath = target
	return outcome
}

// writeLocalFile writes data to path, creating parent directories.
func writeLocalFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("transfer: create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("transfer: write %s: %w", path, err)
	}
	return nil
}

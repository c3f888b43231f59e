package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/nodeshard/shuttle/transfer"
)

func runUpload(args []string) error {
	var filePath string
	var outputDir string
	var verify bool
	var makeArchive bool

	flagSet := pflag.NewFlagSet("shuttle upload", pflag.ContinueOnError)
	flagSet.StringVar(&filePath, "file-path", "", "local file to upload (required)")
	flagSet.StringVar(&outputDir, "output-dir", ".", "directory for verification output")
	flagSet.BoolVar(&verify, "verify", false, "read the upload back and compare it")
	flagSet.BoolVar(&makeArchive, "archive", false, "store a one-entry archive after the upload")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if filePath == "" {
		return fmt.Errorf("--file-path is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Both choices are settled before the first network call. Once the
	// paid store starts there is no further interaction.
	if !flagSet.Changed("verify") {
		verify, err = promptYesNo("Verify the upload by fetching it back?")
		if err != nil {
			return err
		}
	}
	if !flagSet.Changed("archive") {
		makeArchive, err = promptYesNo("Store an archive for this upload?")
		if err != nil {
			return err
		}
	}

	client, cleanup, err := newTransferClient(log, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := client.Upload(context.Background(), transfer.UploadOpts{
		FilePath:  filePath,
		OutputDir: outputDir,
		Verify:    verify,
		Archive:   makeArchive,
	})
	if err != nil {
		return err
	}

	fmt.Printf("data address: %s\n", result.DataAddress.Hex())
	fmt.Printf("size: %d bytes, cost: %d atto-tokens, attempts: %d\n",
		result.Size, result.Cost, result.Attempts)

	if result.Verify != nil {
		switch {
		case result.Verify.Err != nil:
			fmt.Fprintf(os.Stderr, "verification skipped: %v\n", result.Verify.Err)
		case result.Verify.Match:
			fmt.Printf("verification: match")
			if result.Verify.SavedTo != "" {
				fmt.Printf(" (saved to %s)", result.Verify.SavedTo)
			}
			fmt.Println()
		default:
			fmt.Fprintf(os.Stderr, "verification: MISMATCH")
			if result.Verify.SavedTo != "" {
				fmt.Fprintf(os.Stderr, " (fetched bytes saved to %s)", result.Verify.SavedTo)
			}
			fmt.Fprintln(os.Stderr)
		}
	}

	if result.Archive != nil {
		if result.Archive.Err != nil {
			fmt.Fprintf(os.Stderr, "archive failed (data address above is still valid): %v\n", result.Archive.Err)
		} else {
			fmt.Printf("archive address: %s (entry %q, cost %d atto-tokens)\n",
				result.Archive.Address.Hex(), result.Archive.EntryPath, result.Archive.Cost)
		}
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/nodeshard/shuttle/address"
	"github.com/nodeshard/shuttle/transfer"
)

func runDownload(args []string) error {
	var outputPath string
	var archiveMode bool

	flagSet := pflag.NewFlagSet("shuttle download", pflag.ContinueOnError)
	flagSet.StringVar(&outputPath, "output-path", "", "file path, or directory in archive mode (required)")
	flagSet.BoolVar(&archiveMode, "archive", false, "treat the address as an archive and download every entry")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) != 1 {
		return fmt.Errorf("usage: shuttle download <address> --output-path PATH [--archive]")
	}
	if outputPath == "" {
		return fmt.Errorf("--output-path is required")
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

	client, cleanup, err := newTransferClient(log, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if !archiveMode {
		dataAddr, err := address.ParseData(rest[0])
		if err != nil {
			return fmt.Errorf("data address: %w", err)
		}
		if err := client.DownloadFile(context.Background(), transfer.DownloadFileOpts{
			Address:    dataAddr,
			OutputPath: outputPath,
		}); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", outputPath)
		return nil
	}

	archiveAddr, err := address.ParseArchive(rest[0])
	if err != nil {
		return fmt.Errorf("archive address: %w", err)
	}
	summary, err := client.DownloadArchive(context.Background(), transfer.DownloadArchiveOpts{
		Address:    archiveAddr,
		OutputRoot: outputPath,
	})
	if err != nil {
		return err
	}

	fmt.Printf("downloaded %d of %d entries to %s\n",
		summary.Succeeded(), len(summary.Entries), outputPath)
	if failed := summary.FailedEntries(); len(failed) > 0 {
		for _, entry := range failed {
			fmt.Fprintf(os.Stderr, "failed: %s: %v\n", entry.Path, entry.Err)
		}
		return fmt.Errorf("%d of %d entries failed", len(failed), len(summary.Entries))
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/nodeshard/shuttle/address"
	"github.com/nodeshard/shuttle/transfer"
)

func runArchive(args []string) error {
	var entryPath string

	flagSet := pflag.NewFlagSet("shuttle archive", pflag.ContinueOnError)
	flagSet.StringVar(&entryPath, "archive-path", "", "entry path inside the archive (default \"archived_file\")")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) != 1 {
		return fmt.Errorf("usage: shuttle archive <data-address> [--archive-path PATH]")
	}
	dataAddr, err := address.ParseData(rest[0])
	if err != nil {
		return fmt.Errorf("data address: %w", err)
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

	result, err := client.ArchiveExisting(context.Background(), transfer.ArchiveExistingOpts{
		Address:   dataAddr,
		EntryPath: entryPath,
	})
	if err != nil {
		return err
	}

	fmt.Printf("archive address: %s\n", result.Address.Hex())
	fmt.Printf("entry: %q, cost: %d atto-tokens, attempts: %d\n",
		result.EntryPath, result.Cost, result.Attempts)
	return nil
}

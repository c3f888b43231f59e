package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/nodeshard/shuttle/receipts"
)

func runReceipts(args []string) error {
	flagSet := pflag.NewFlagSet("shuttle receipts", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if len(flagSet.Args()) > 0 {
		return fmt.Errorf("usage: shuttle receipts")
	}

	dir, err := dataDir()
	if err != nil {
		return err
	}
	store, err := receipts.Open(filepath.Join(dir, receiptsFile))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	list, err := store.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no receipts recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tKIND\tADDRESS\tNAME\tSIZE\tCOST")
	for _, r := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			r.CreatedAt.Format(time.RFC3339), r.Kind, r.Address, r.Name, r.Size, r.Cost)
	}
	return w.Flush()
}

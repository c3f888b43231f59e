package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/nodeshard/shuttle/wallet"
)

func runKey(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: shuttle key <generate|import|address> [flags]")
	}
	switch args[0] {
	case "generate":
		return runKeyGenerate(args[1:])
	case "import":
		return runKeyImport(args[1:])
	case "address":
		return runKeyAddress(args[1:])
	default:
		return fmt.Errorf("unknown key subcommand %q", args[0])
	}
}

func runKeyGenerate(args []string) error {
	var save bool

	flagSet := pflag.NewFlagSet("shuttle key generate", pflag.ContinueOnError)
	flagSet.BoolVar(&save, "save", false, "encrypt the key into the data directory keystore")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	w, err := wallet.Generate()
	if err != nil {
		return err
	}

	fmt.Printf("address: %s\n", w.Address())
	fmt.Printf("public key: %s\n", w.PublicKeyHex())

	if !save {
		// Printed once; the caller is responsible for storing it.
		fmt.Printf("private key: %s\n", w.PrivateKeyHex())
		return nil
	}
	return saveToKeystore(w)
}

// runKeyImport encrypts an existing private key into the keystore. The key
// is read from stdin rather than argv so it stays out of shell history.
func runKeyImport(args []string) error {
	flagSet := pflag.NewFlagSet("shuttle key import", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if len(flagSet.Args()) > 0 {
		return fmt.Errorf("the key is read from stdin, not arguments")
	}

	keyHex, err := readLine("Private key (hex): ")
	if err != nil {
		return err
	}
	w, err := wallet.FromHex(keyHex)
	if err != nil {
		return err
	}

	fmt.Printf("address: %s\n", w.Address())
	return saveToKeystore(w)
}

// runKeyAddress prints the address of the currently configured payment key.
func runKeyAddress(args []string) error {
	flagSet := pflag.NewFlagSet("shuttle key address", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return err
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

	w, err := loadWallet(log)
	if err != nil {
		return err
	}
	fmt.Printf("address: %s\n", w.Address())
	fmt.Printf("public key: %s\n", w.PublicKeyHex())
	return nil
}

func saveToKeystore(w *wallet.Wallet) error {
	dir, err := dataDir()
	if err != nil {
		return err
	}
	keystorePath := filepath.Join(dir, keystoreFile)
	if _, err := os.Stat(keystorePath); err == nil {
		return fmt.Errorf("keystore already exists at %s", keystorePath)
	}

	password, err := readPassword("New keystore password: ")
	if err != nil {
		return err
	}
	if err := wallet.SaveKeystore(keystorePath, w, password); err != nil {
		return err
	}
	fmt.Printf("keystore written to %s\n", keystorePath)
	return nil
}

// shuttle is the operator CLI for the content-addressed storage network.
// It uploads and downloads data through a payment gateway, with optional
// read-back verification and archive manifests, and keeps a local receipt
// log of every paid write.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nodeshard/shuttle/config"
	"github.com/nodeshard/shuttle/network"
	"github.com/nodeshard/shuttle/receipts"
	"github.com/nodeshard/shuttle/transfer"
	"github.com/nodeshard/shuttle/wallet"
)

// envDataDir overrides the default data directory.
const envDataDir = "SHUTTLE_DATA_DIR"

// keystoreFile is the encrypted key file name inside the data directory.
const keystoreFile = "keystore"

// receiptsFile is the receipt database name inside the data directory.
const receiptsFile = "receipts.db"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "upload":
		return runUpload(args[1:])
	case "archive":
		return runArchive(args[1:])
	case "download":
		return runDownload(args[1:])
	case "receipts":
		return runReceipts(args[1:])
	case "key":
		return runKey(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: shuttle <command> [flags]

Commands:
  upload     store a local file on the network
  archive    store an archive entry for already-uploaded data
  download   fetch data or an archive by address
  receipts   list recorded paid writes
  key        generate, import or inspect the payment key
  config     show or initialize the configuration

Run "shuttle <command> --help" for command flags.
`)
}

// dataDir returns the directory holding config, keystore and receipts.
func dataDir() (string, error) {
	if dir := os.Getenv(envDataDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".shuttle"), nil
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist yet.
func loadConfig() (config.Config, error) {
	dir, err := dataDir()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.LoadConfig(config.ConfigPath(dir))
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return config.DefaultConfig(), nil
		}
		return cfg, err
	}
	return cfg, nil
}

// buildLogger creates a console logger on stderr at the configured level.
func buildLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		lvl,
	)
	return zap.New(core), nil
}

// loadWallet resolves the payment key: the environment variable first,
// then the encrypted keystore in the data directory.
func loadWallet(log *zap.Logger) (*wallet.Wallet, error) {
	if os.Getenv(wallet.EnvPrivateKey) != "" {
		return wallet.FromEnvironment()
	}

	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	keystorePath := filepath.Join(dir, keystoreFile)
	if _, err := os.Stat(keystorePath); err != nil {
		return nil, fmt.Errorf("no payment key: set %s or create a keystore with \"shuttle key generate --save\"", wallet.EnvPrivateKey)
	}

	password, err := readPassword("Keystore password: ")
	if err != nil {
		return nil, err
	}
	w, err := wallet.LoadKeystore(keystorePath, password)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded payment key from keystore", zap.String("address", w.Address()))
	return w, nil
}

// resolveGateway returns the gateway base URL: the configured one, or the
// best endpoint from DNS seed discovery.
func resolveGateway(cfg config.Config, log *zap.Logger) (string, error) {
	if cfg.GatewayURL != "" {
		return cfg.GatewayURL, nil
	}
	if cfg.SeedDomain == "" {
		return "", config.ErrNoGateway
	}

	resolver := network.NewSeedResolver(cfg.DNSUpstream)
	endpoints, err := resolver.ResolveGateways(cfg.SeedDomain)
	if err != nil {
		return "", fmt.Errorf("gateway discovery via %s: %w", cfg.SeedDomain, err)
	}
	log.Debug("discovered gateways",
		zap.String("seed_domain", cfg.SeedDomain),
		zap.Int("count", len(endpoints)))
	return endpoints[0], nil
}

// newTransferClient wires config, wallet, gateway and receipt log into a
// ready transfer client. The returned cleanup closes the receipt store.
func newTransferClient(log *zap.Logger, cfg config.Config) (*transfer.Client, func(), error) {
	w, err := loadWallet(log)
	if err != nil {
		return nil, nil, err
	}

	gatewayURL, err := resolveGateway(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	service := network.NewGatewayClient(network.GatewayConfig{URL: gatewayURL}, w)

	dir, err := dataDir()
	if err != nil {
		return nil, nil, err
	}
	receiptLog, err := receipts.Open(filepath.Join(dir, receiptsFile))
	if err != nil {
		// A broken receipt log must not block paid operations.
		log.Warn("receipt log unavailable", zap.Error(err))
		receiptLog = nil
	}

	client := transfer.New(service, transfer.Options{
		Receipts: receiptLog,
		Logger:   log,
	})
	cleanup := func() {
		if receiptLog != nil {
			_ = receiptLog.Close()
		}
	}
	return client, cleanup, nil
}

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/nodeshard/shuttle/config"
)

func runConfig(args []string) error {
	var gatewayURL string
	var seedDomain string
	var dnsUpstream string
	var logLevel string

	flagSet := pflag.NewFlagSet("shuttle config", pflag.ContinueOnError)
	flagSet.StringVar(&gatewayURL, "gateway-url", "", "gateway base URL (overrides seed discovery)")
	flagSet.StringVar(&seedDomain, "seed-domain", "", "DNS seed domain for gateway discovery")
	flagSet.StringVar(&dnsUpstream, "dns-upstream", "", "recursive resolver for seed queries (host:port)")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) != 1 || (rest[0] != "show" && rest[0] != "init") {
		return fmt.Errorf("usage: shuttle config <show|init> [flags]")
	}

	dir, err := dataDir()
	if err != nil {
		return err
	}
	path := config.ConfigPath(dir)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if rest[0] == "show" {
		fmt.Printf("config file: %s\n", path)
		fmt.Printf("gateway_url=%s\n", cfg.GatewayURL)
		fmt.Printf("seed_domain=%s\n", cfg.SeedDomain)
		fmt.Printf("dns_upstream=%s\n", cfg.DNSUpstream)
		fmt.Printf("log_level=%s\n", cfg.LogLevel)
		return nil
	}

	if flagSet.Changed("gateway-url") {
		cfg.GatewayURL = gatewayURL
	}
	if flagSet.Changed("seed-domain") {
		cfg.SeedDomain = seedDomain
	}
	if flagSet.Changed("dns-upstream") {
		cfg.DNSUpstream = dnsUpstream
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	if err := config.SaveConfig(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

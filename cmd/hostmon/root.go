package main

import (
	"context"
	"fmt"
	"time"

	"probe-go/internal/cli"
	"probe-go/internal/configuration"
	"probe-go/internal/console"
	"probe-go/internal/database"
	"probe-go/internal/monitor"
	"probe-go/internal/net"
	"probe-go/pkg/log"

	"github.com/spf13/cobra"
)

const resolveTimeout = 10 * time.Second

// Seams for tests.
var (
	resolver  net.Resolver
	newProber = func(cfg *configuration.HostMonitor) (net.Prober, error) {
		if cfg.TCPPort > 0 {
			return &net.TCPProber{Port: cfg.TCPPort, Timeout: cfg.Timeout}, nil
		}
		return net.NewPingProber(cfg.Timeout)
	}
)

var configFile string

func newRootCmd() *cobra.Command {
	rootCmd := cli.Prepare(&cobra.Command{
		Use:   "hostmon [flags] <target>",
		Short: "Monitor the availability of a host",
		Long: `hostmon probes a host at a fixed interval and reports when it goes up or down.

Each cycle sends one probe (ping, or a TCP connect with --tcp-port), waits for
the reply or the timeout, updates the health state and sleeps. With --fuzzy N the
host is only declared down after more than N consecutive failed probes.
On Ctrl+C (or after --count probes) the session statistics are printed.

Example:
  hostmon -f 2 -i 5s example.com`,
		Version: cli.Version(VERSION),
		Args:    cli.ExactArgs("target host"),
		RunE:    runMonitor,
	})

	rootCmd.PersistentFlags().StringVar(&configFile, configuration.KeyConfig, "", "path to a YAML configuration file")
	configuration.RegisterHostMonitorFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newReportCmd(), newConfigCmd())
	return rootCmd
}

func loadConfig(cmd *cobra.Command, target string) (*configuration.HostMonitor, error) {
	v, err := configuration.NewViper(configuration.HostMonitorEnvPrefix, cmd.Flags(), configFile)
	if err != nil {
		return nil, cli.Usage(err)
	}

	cfg, err := configuration.LoadHostMonitor(v, target)
	if err != nil {
		return nil, cli.Usage(err)
	}
	return cfg, nil
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	log.SetLogLevel(log.LevelFor(cfg.Debug, false))

	prober, err := newProber(cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.NotifyContext(cmd.Context())
	defer stop()

	resolveCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
	addr, err := net.Resolve(resolveCtx, resolver, cfg.Target, cfg.IPv4)
	cancel()
	if err != nil {
		return err
	}

	var db *database.Database
	if cfg.Journal != "" {
		db, err = database.InitializeDatabase(cfg.Journal)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer db.Close()
	}

	out := cmd.OutOrStdout()
	printer := console.NewPrinter(out, !cfg.Static && console.IsTerminal(out))

	_, err = monitor.NewUptimeMonitor(cfg, addr, prober, printer, db).Run(ctx)
	return err
}

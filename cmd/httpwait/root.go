package main

import (
	"probe-go/internal/cli"
	"probe-go/internal/configuration"
	"probe-go/internal/console"
	"probe-go/internal/net"
	"probe-go/internal/poller"
	"probe-go/pkg/log"

	"github.com/spf13/cobra"
)

var configFile string

func newRootCmd() *cobra.Command {
	rootCmd := cli.Prepare(&cobra.Command{
		Use:   "httpwait [flags] <url>",
		Short: "Wait until an HTTP endpoint returns the expected response",
		Long: `httpwait sends a GET request to the URL until the response has the expected
status code and, with --text, a body containing the given text. Between
attempts it sleeps for --delay. Certificate errors are ignored.

Exits 0 once the endpoint answered as expected, 1 when --max-attempts were
used up or the wait was interrupted, 2 on invalid arguments.

Example:
  httpwait -s 204 -d 2s -m 30 https://localhost:8443/healthz`,
		Version: cli.Version(VERSION),
		Args:    cli.ExactArgs("URL"),
		RunE:    runPoller,
	})

	rootCmd.PersistentFlags().StringVar(&configFile, configuration.KeyConfig, "", "path to a YAML configuration file")
	configuration.RegisterPollerFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func loadConfig(cmd *cobra.Command, rawURL string) (*configuration.Poller, error) {
	v, err := configuration.NewViper(configuration.PollerEnvPrefix, cmd.Flags(), configFile)
	if err != nil {
		return nil, cli.Usage(err)
	}

	cfg, err := configuration.LoadPoller(v, rawURL)
	if err != nil {
		return nil, cli.Usage(err)
	}
	return cfg, nil
}

func runPoller(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	log.SetLogLevel(log.LevelFor(cfg.Debug, cfg.Quiet))

	ctx, stop := cli.NotifyContext(cmd.Context())
	defer stop()

	out := cmd.OutOrStdout()
	printer := console.NewPrinter(out, console.IsTerminal(out))
	checker := net.NewHTTPChecker(cfg.URL, cfg.Text, cfg.Timeout, cfg.MaxRedirects)

	result := poller.NewPoller(cfg, checker, printer).Run(ctx)
	if !result.Success() {
		return cli.Exit(cli.ExitFailure)
	}
	return nil
}

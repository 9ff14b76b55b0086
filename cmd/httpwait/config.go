package main

import (
	"probe-go/internal/cli"
	"probe-go/internal/configuration"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [flags] <url>",
		Short: "Print the effective configuration as YAML",
		Args:  cli.ExactArgs("URL"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args[0])
			if err != nil {
				return err
			}

			out, err := configuration.Dump(cfg)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

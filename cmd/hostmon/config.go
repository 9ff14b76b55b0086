package main

import (
	"probe-go/internal/cli"
	"probe-go/internal/configuration"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [flags] <target>",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration hostmon would run with, after merging the config
file, HOSTMON_* environment variables and flags. The output can be used as a
--config file.`,
		Args: cli.ExactArgs("target host"),
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

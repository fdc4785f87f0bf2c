package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"go-ocr-benchmark/internal/config"
	apperrors "go-ocr-benchmark/internal/errors"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or generate configuration",
	}

	cmd.AddCommand(newConfigShowCommand(opts))
	cmd.AddCommand(newConfigGenerateCommand())

	return cmd
}

func newConfigShowCommand(opts *rootOptions) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			if key != "" {
				value, ok := cfg.Get(key)
				if !ok {
					return apperrors.NewConfigError(fmt.Sprintf("unknown configuration key: %s", key), nil)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%v\n", value)
				return nil
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return apperrors.NewInternalError("failed to render configuration", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "print a single value, e.g. runner.workers")

	return cmd
}

func newConfigGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [path]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "config.yaml"
			if len(args) == 1 {
				path = args[0]
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote default configuration to %s\n", path)
			return nil
		},
	}
}

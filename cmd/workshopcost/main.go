package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/workshopcost/internal/config"
)

type options struct {
	tariffs  string
	format   string
	currency string
}

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "workshopcost",
		Short:        "Price custodial workshops and check ad-hoc job deadlines",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.tariffs, "tariffs", cfg.TariffFile, "YAML tariff file overlaid on the built-in catalog")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json or markdown")
	rootCmd.PersistentFlags().StringVar(&opts.currency, "currency", cfg.CurrencySymbol, "currency symbol used in text and markdown output")

	rootCmd.AddCommand(hostCmd(opts))
	rootCmd.AddCommand(productionCmd(opts))
	rootCmd.AddCommand(adhocCmd(opts))
	rootCmd.AddCommand(tariffsCmd(opts))
	rootCmd.AddCommand(migrateCmd(opts, cfg.DBPath))
	return rootCmd
}

func hostCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "host [input.yaml]",
		Short: "Compute the monthly host-mode charge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHost(cmd.OutOrStdout(), opts, args[0])
		},
	}
}

func productionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "production [input.yaml]",
		Short: "Compute contractual production unit costs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProduction(cmd.OutOrStdout(), opts, args[0])
		},
	}
}

func adhocCmd(opts *options) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:   "adhoc [input.yaml]",
		Short: "Price an ad-hoc job and check it fits before its deadlines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdhoc(cmd.OutOrStdout(), opts, args[0], today)
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "evaluation date as YYYY-MM-DD (default: the input file's today, else the current date)")
	return cmd
}

func tariffsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tariffs",
		Short: "Print the tariff catalog in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTariffs(cmd.OutOrStdout(), opts)
		},
	}
}

func migrateCmd(opts *options, defaultDB string) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and seed the tariff set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), cmd.OutOrStdout(), dbPath, opts.tariffs)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", defaultDB, "SQLite database path")
	return cmd
}

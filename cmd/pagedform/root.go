package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/pagedform/internal/cli"
)

var (
	cfg    cli.Config
	envErr error
	app    *cli.App
)

var rootCmd = &cobra.Command{
	Use:   "pagedform",
	Short: "pagedform serves and runs multi-step forms",
	Long: `pagedform loads paged form definitions (YAML or JSON) and fills them in
over HTTP or in the terminal. Settings come from flags, then PAGEDFORM_*
environment variables, then defaults.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envErr != nil {
			return envErr
		}
		a, err := cli.NewApp(cfg)
		if err != nil {
			return err
		}
		app = a
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cfg, envErr = cli.ConfigFromEnv(nil)
	cfg.BindFlags(rootCmd)
}

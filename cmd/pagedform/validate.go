package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pagedform/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate <form-file>...",
	Short: "Check form definitions",
	Long:  `Compiles every definition and reports unknown widgets, duplicate keys and bad validators.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for _, path := range args {
			if _, err := cli.LoadForms(path); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d definitions are invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

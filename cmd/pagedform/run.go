package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/pagedform/internal/cli"
	"github.com/aretw0/pagedform/pkg/runner"
)

var headless bool

var runCmd = &cobra.Command{
	Use:   "run <form-file>",
	Short: "Fill in a form in the terminal",
	Long: `Asks every page of the form in turn and saves the result to the
configured store. Without a terminal, or with --headless, answers are read
line by line from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		forms, err := cli.LoadForms(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		res, err := app.Run(ctx, forms[0], cli.RunOptions{
			In:       cmd.InOrStdin(),
			Out:      cmd.OutOrStdout(),
			Headless: headless,
		})
		if errors.Is(err, runner.ErrAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
			return nil
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if res.Stored {
			fmt.Fprintf(out, "Saved submission %s\n", res.Submission.ID)
		} else {
			fmt.Fprintln(out, "Form complete.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&headless, "headless", false, "read answers line by line even on a terminal")
}

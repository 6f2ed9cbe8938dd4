package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/pagedform/internal/cli"
)

var shutdownGrace time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve <form-file>...",
	Short: "Start the HTTP server",
	Long: `Serves every given form as HTML under /forms/{name} and as JSON under
/api/forms/{name}. Completed forms are saved to the configured store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		forms, err := cli.LoadForms(args...)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, closeStore, err := app.NewServer(ctx, forms)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeStore(); err != nil {
				app.Logger.Warn("close store failed", "error", err)
			}
		}()
		return app.Serve(ctx, srv, shutdownGrace)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&cfg.Addr, "addr", "a", cfg.Addr, "address to listen on ["+cli.EnvAddr+"]")
	serveCmd.Flags().DurationVar(&shutdownGrace, "grace", 5*time.Second, "time given to open requests on shutdown")
}

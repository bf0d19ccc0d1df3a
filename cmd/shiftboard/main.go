package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shiftboard/internal/app"
	"shiftboard/internal/config"
	"shiftboard/internal/middleware"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "shiftboard",
		Short:         "Serve the shift schedule board",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, configPath)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "",
		"config file (default: $"+config.EnvPrefix+"_CONFIG or ./"+config.DefaultConfigFile+")")

	root.AddCommand(newHashTokenCmd())
	return root
}

func serve(ctx context.Context, configPath string) error {
	application, err := app.NewApplication(configPath)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		return err
	}

	if err := application.Run(ctx); err != nil {
		application.Logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// newHashTokenCmd prints the bcrypt hash to put in security.admin_token_hash
func newHashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token TOKEN",
		Short: "Hash an admin token for the reload endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := middleware.HashAdminToken(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sketchit/internal/config"
	"sketchit/internal/logger"
	"sketchit/internal/server"
)

const releaseVersion = "0.1.0"

func newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sketchit",
		Short:         "Real-time drawing and guessing game server.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if err := logger.Setup(cfg.LogLevel, cfg.LogPretty); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func main() {
	cobra.CheckErr(newCmd().ExecuteContext(context.Background()))
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/linechat-server/internal/app"
	"github.com/vovakirdan/linechat-server/internal/config"
	"github.com/vovakirdan/linechat-server/internal/log"
)

func main() {
	var (
		configPath string
		overrides  config.Config
	)

	rootCmd := &cobra.Command{
		Use:           "linechat-server",
		Short:         "Line-oriented text messaging server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrapLogger := log.New("info")

			cfg, path, err := config.Load(bootstrapLogger, configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.UpdateFrom(overrides)

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Str("addr", cfg.Addr).Str("http_addr", cfg.HTTPAddr).Msg("starting linechat server")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}

			if err := application.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to config file")
	flags.StringVar(&overrides.Addr, "addr", "", "chat listen address")
	flags.StringVar(&overrides.HTTPAddr, "http-addr", "", "admin HTTP listen address")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&overrides.DatabasePath, "db", "", "path to the sqlite database")
	flags.DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "linechat-server: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/news-reader/internal/config"
	"github.com/pribylovaa/news-reader/pkg/log"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// globalFlags — флаги корневой команды.
type globalFlags struct {
	configPath string
	output     string
	verbose    bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:          "news-reader",
		Short:        "Offline-first news reader: fetch, cache and bookmark articles",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch flags.output {
			case outputTable, outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unknown --output %q: want table, json or yaml", flags.output)
			}
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", outputTable, "output format: table, json or yaml")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log below warn level in one-shot commands")

	root.AddCommand(
		newServeCmd(flags),
		newFetchCmd(flags),
		newCachedCmd(flags),
		newBookmarksCmd(flags),
		newBookmarkCmd(flags),
		newUnbookmarkCmd(flags),
		newToggleCmd(flags),
		newSearchCmd(flags),
		newStatsCmd(flags),
		newStatusCmd(flags),
	)

	return root
}

// loadConfig читает конфиг и настраивает логгер по окружению.
// quiet поднимает уровень до warn: разовые команды не засоряют терминал.
func loadConfig(ctx context.Context, flags *globalFlags, w io.Writer, quiet bool) (*config.Config, *slog.Logger, context.Context, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, ctx, err
	}

	logger := setupLogger(cfg.Env, w, quiet)
	slog.SetDefault(logger)

	return cfg, logger, log.Into(ctx, logger), nil
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string, w io.Writer, quiet bool) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}
	if quiet {
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}

	switch env {
	case envDev, envProd:
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

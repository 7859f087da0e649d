package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/user/streamcat/internal/cli"
	"github.com/user/streamcat/internal/config"
	"github.com/user/streamcat/internal/metrics"
	"github.com/user/streamcat/internal/report"
	"github.com/user/streamcat/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	// stdout carries the command result, so logs go to stderr
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Caller().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		fmt.Fprintln(os.Stdout, report.Fail)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		fmt.Fprintln(os.Stdout, report.Fail)
		return 1
	}

	setupLogger(&cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.New(func() (store.Store, error) {
		return store.NewMySQLStore(&cfg.DB)
	}, cfg)

	code := app.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)

	if err := app.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}
	if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		log.Error().Err(err).Str("path", cfg.Metrics.Textfile).Msg("Failed to write metrics")
	}
	return code
}

// setupLogger applies level and format and tags every line with a run id
func setupLogger(cfg *config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	if strings.EqualFold(cfg.Format, "console") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	log.Logger = logger.With().
		Timestamp().
		Caller().
		Str("run_id", uuid.NewString()).
		Logger()
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/user/streamcat/internal/config"
	"github.com/user/streamcat/internal/metrics"
	"github.com/user/streamcat/internal/report"
	"github.com/user/streamcat/internal/seed"
	"github.com/user/streamcat/internal/store"
)

// errReported marks a failure whose Fail token is already on stdout
var errReported = errors.New("command failed")

// StoreOpener connects to the catalog database
type StoreOpener func() (store.Store, error)

// App dispatches one command against the catalog store. The store is opened
// on first use so that argument errors never touch the database.
type App struct {
	open    StoreOpener
	store   store.Store
	seed    seed.Options
	timeout time.Duration
}

// New creates an App from configuration
func New(open StoreOpener, cfg *config.Config) *App {
	seedCfg := cfg.Seed
	return &App{
		open:    open,
		seed:    seed.Options{SkipHeader: seedCfg.SkipHeaderFor},
		timeout: cfg.Command.Timeout,
	}
}

// Close releases the store if one was opened
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// Execute runs the command line args and returns the process exit code.
// Every failure path prints Fail to stdout exactly once.
func (a *App) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	root := a.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		log.Warn().Err(err).Strs("args", args).Msg("Invalid command line")
		fmt.Fprintln(stdout, report.Fail)
	}
	return 1
}

func (a *App) storeFor() (store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := a.open()
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

// run executes one operation under the command timeout and records its
// outcome. The returned error is the operation's own.
func (a *App) run(cmd *cobra.Command, op string, fn func(ctx context.Context, s store.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	s, err := a.storeFor()
	if err == nil {
		err = fn(ctx, s)
	}
	elapsed := time.Since(start)
	metrics.RecordOperation(op, err, elapsed)

	if err != nil {
		log.Warn().Err(err).Str("op", op).Dur("elapsed", elapsed).Msg("Operation failed")
		return err
	}
	log.Debug().Str("op", op).Dur("elapsed", elapsed).Msg("Operation completed")
	return nil
}

// fail records an argument error for op and prints Fail
func (a *App) fail(cmd *cobra.Command, op string, err error) error {
	metrics.RecordOperation(op, err, 0)
	log.Warn().Err(err).Str("op", op).Msg("Invalid arguments")
	report.WriteOutcome(cmd.OutOrStdout(), err)
	return fmt.Errorf("%w: %v", errReported, err)
}

// mutate runs an operation whose whole output is Success or Fail
func (a *App) mutate(cmd *cobra.Command, op string, fn func(ctx context.Context, s store.Store) error) error {
	err := a.run(cmd, op, fn)
	if werr := report.WriteOutcome(cmd.OutOrStdout(), err); werr != nil {
		return werr
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errReported, err)
	}
	return nil
}

// query runs a report and prints its rows, or Fail when the report fails
func query[R report.Row](a *App, cmd *cobra.Command, op string, fn func(ctx context.Context, s store.Store) ([]R, error)) error {
	var rows []R
	err := a.run(cmd, op, func(ctx context.Context, s store.Store) error {
		var err error
		rows, err = fn(ctx, s)
		return err
	})
	if err != nil {
		report.WriteOutcome(cmd.OutOrStdout(), err)
		return fmt.Errorf("%w: %v", errReported, err)
	}
	return report.WriteRows(cmd.OutOrStdout(), rows)
}

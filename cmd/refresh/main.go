package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iqube-labs/iqube-api/internal/app"
	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/logger"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/metrics"
	timeProvider "github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/time"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/config"
)

// refresher is the slice of the credit use case this command drives
type refresher interface {
	RefreshSweep(ctx context.Context) (*entity.RefreshResult, error)
	ForceRefresh(ctx context.Context, userID string) (*entity.CreditBalance, error)
	RefreshStats(ctx context.Context) (*entity.RefreshStats, error)
}

type options struct {
	forceUserID string
	stats       bool
}

func main() {
	opts := options{}
	flag.StringVar(&opts.forceUserID, "force", "", "reset one user's credits to the daily allowance regardless of timing")
	flag.BoolVar(&opts.stats, "stats", false, "print refresh statistics and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production, cfg.Logger.Level)
	defer func() { _ = appLogger.Flush() }()

	metrics.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, appLogger, timeProvider.NewRealTimeProvider())
	if err != nil {
		appLogger.Error("Failed to start refresh job", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	runErr := run(ctx, application.Credits, opts, os.Stdout)
	if err := application.Close(); err != nil {
		appLogger.Warn("Failed to release resources", map[string]any{
			"error": err.Error(),
		})
	}
	if runErr != nil {
		appLogger.Error("Credit refresh failed", map[string]any{
			"error": runErr.Error(),
		})
		os.Exit(1)
	}
}

// run executes the selected mode and prints its result as JSON
func run(ctx context.Context, credits refresher, opts options, out io.Writer) error {
	var (
		result any
		err    error
	)

	switch {
	case opts.stats:
		result, err = credits.RefreshStats(ctx)
	case opts.forceUserID != "":
		var balance *entity.CreditBalance
		balance, err = credits.ForceRefresh(ctx, opts.forceUserID)
		if err == nil {
			result = map[string]any{
				"userId":        opts.forceUserID,
				"credits":       balance.Credits,
				"lastRefresh":   balance.LastRefresh,
				"nextRefreshAt": balance.NextRefreshAt,
			}
		}
	default:
		var sweep *entity.RefreshResult
		sweep, err = credits.RefreshSweep(ctx)
		if err == nil {
			result = sweep
			if sweep.Errors > 0 {
				err = fmt.Errorf("%d of %d users failed to refresh", sweep.Errors, sweep.Total)
			}
		}
	}

	if result != nil {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(result); encErr != nil && err == nil {
			err = encErr
		}
	}
	return err
}

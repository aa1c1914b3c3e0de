package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iqube-labs/iqube-api/internal/client/apiclient"
	"github.com/iqube-labs/iqube-api/internal/client/cli"
	"github.com/iqube-labs/iqube-api/internal/domain/port/gateway"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/logger"
	timeProvider "github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/time"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/webhook"
)

func main() {
	apiURL := flag.String("api", envOr("IQ_API_URL", "http://localhost:3001"), "base URL of the iQube API")
	webhookURL := flag.String("webhook", os.Getenv("IQ_WEBHOOK_URL"), "generator webhook used in demo mode; empty disables demo generation")
	regenerateURL := flag.String("regenerate-webhook", os.Getenv("IQ_WEBHOOK_REGENERATE_URL"), "webhook for single-question regeneration, defaults to -webhook")
	timeout := flag.Duration("timeout", 2*time.Minute, "request timeout")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	appLogger := logger.NewZapLogger(false, *logLevel)
	defer func() { _ = appLogger.Flush() }()
	tp := timeProvider.NewRealTimeProvider()

	var demo gateway.QuestionGenerator
	if *webhookURL != "" {
		demo = webhook.NewClient(webhook.Config{
			URL:           *webhookURL,
			RegenerateURL: *regenerateURL,
			Timeout:       *timeout,
		}, appLogger, tp)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("iQube question generator")
	session := cli.NewSession(apiclient.New(*apiURL, *timeout), demo, appLogger, tp, os.Stdin, os.Stdout)
	session.Run(ctx)
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

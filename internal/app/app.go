// Package app wires configuration, storage, use cases and transport together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/usecase/auth"
	"github.com/iqube-labs/iqube-api/internal/domain/usecase/comment"
	"github.com/iqube-labs/iqube-api/internal/domain/usecase/credit"
	"github.com/iqube-labs/iqube-api/internal/domain/usecase/generation"
	"github.com/iqube-labs/iqube-api/internal/domain/usecase/question"
	"github.com/iqube-labs/iqube-api/internal/domain/usecase/user"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/handler"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/middleware"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/routes"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/database"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/metrics"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/ratelimit"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/repository"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/security"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/webhook"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/config"
)

const rateLimitPrefix = "iqube:ratelimit"

// App holds the wired dependency graph
type App struct {
	config       *config.Config
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	db           *database.Manager

	Auth       *auth.AuthUseCase
	Users      *user.UserUseCase
	Credits    *credit.CreditUseCase
	Questions  *question.QuestionUseCase
	Comments   *comment.CommentUseCase
	Generation *generation.GenerationUseCase

	redis *redis.Client
}

// New connects to the database, migrates it and builds every use case
func New(ctx context.Context, cfg *config.Config, logger coreport.Logger, timeProvider coreport.TimeProvider) (*App, error) {
	dbConfig := database.FromAppConfig(cfg)
	dbManager := database.NewManager(dbConfig, logger, timeProvider)
	if _, err := dbManager.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := dbManager.Migrate(ctx); err != nil {
		_ = dbManager.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	db := dbManager.DB()
	userRepo := repository.NewUserRepository(db, timeProvider, logger)
	questionRepo := repository.NewQuestionRepository(db, logger)
	topicRepo := repository.NewTopicRepository(db, logger)
	commentRepo := repository.NewCommentRepository(db, logger)
	ledgerRepo := repository.NewCreditTransactionRepository(db, logger)
	jobLocks := repository.NewJobLockRepository(db, timeProvider, logger)
	uow := dbManager.CreateUnitOfWork()

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, timeProvider)

	retry := database.NewRetryFunc(database.RetryConfig{
		MaxRetries:    dbConfig.RetryAttempts,
		RetryInterval: 100 * time.Millisecond,
		MaxInterval:   dbConfig.RetryDelay,
		JitterFactor:  0.2,
	}, logger)

	credits := credit.NewCreditUseCase(uow, userRepo, ledgerRepo, jobLocks, timeProvider, logger, creditConfig(cfg.Credits)).
		WithRetry(retry).
		WithMetrics(metrics.NewRecorder())

	generator := webhook.NewClient(webhook.FromAppConfig(cfg), logger, timeProvider)

	return &App{
		config:       cfg,
		logger:       logger,
		timeProvider: timeProvider,
		db:           dbManager,
		Auth:         auth.NewAuthUseCase(userRepo, hasher, tokens, timeProvider, logger),
		Users:        user.NewUserUseCase(userRepo, questionRepo, commentRepo, hasher, timeProvider, logger),
		Credits:      credits,
		Questions:    question.NewQuestionUseCase(uow, questionRepo, topicRepo, timeProvider, logger),
		Comments:     comment.NewCommentUseCase(commentRepo, questionRepo, timeProvider, logger),
		Generation:   generation.NewGenerationUseCase(credits, generator, timeProvider, logger),
	}, nil
}

// Handler builds the gin engine wrapped in CORS
func (a *App) Handler(ctx context.Context) http.Handler {
	production := a.config.Environment == config.Production

	router := gin.New()
	routes.SetupMiddlewares(router, a.logger, a.timeProvider, production, a.limiter(ctx))
	routes.SetupRoutes(router, routes.Handlers{
		Auth:       handler.NewAuthHandler(a.Auth),
		User:       handler.NewUserHandler(a.Users),
		Credit:     handler.NewCreditHandler(a.Credits, a.timeProvider),
		Question:   handler.NewQuestionHandler(a.Questions),
		Comment:    handler.NewCommentHandler(a.Comments),
		Generation: handler.NewGenerationHandler(a.Generation),
		Health:     handler.NewHealthHandler(a.config.Environment, a.db, a.timeProvider),
	}, a.Auth)

	return middleware.CORS(a.config.CORS)(router)
}

// limiter returns nil when rate limiting is off or redis is unreachable
func (a *App) limiter(ctx context.Context) middleware.Limiter {
	rl := a.config.RateLimit
	if !rl.Enabled {
		return nil
	}

	rdb, err := ratelimit.NewRedisClient(ctx, rl)
	if err != nil {
		a.logger.Warn("Rate limiting disabled, redis unavailable", map[string]any{
			"addr":  rl.RedisAddr,
			"error": err.Error(),
		})
		return nil
	}
	a.redis = rdb
	return ratelimit.NewLimiter(rdb, a.logger, a.timeProvider, rateLimitPrefix, rl.Capacity, rl.Window)
}

// Serve runs the HTTP server and the refresh scheduler until ctx is done,
// then shuts both down
func (a *App) Serve(ctx context.Context) error {
	srvConf := a.config.Server
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", srvConf.Host, srvConf.Port),
		Handler:           a.Handler(ctx),
		ReadTimeout:       srvConf.ReadTimeout,
		WriteTimeout:      srvConf.WriteTimeout,
		ReadHeaderTimeout: srvConf.ReadHeaderTimeout,
		IdleTimeout:       srvConf.IdleTimeout,
	}

	schedCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		credit.NewScheduler(a.Credits, a.config.Credits.SweepInterval, a.logger).Run(schedCtx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  a.config.Environment,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	a.logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srvConf.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	stopScheduler()
	wg.Wait()

	a.logger.Info("Server exited gracefully", nil)
	return runErr
}

// Close releases the database pool and redis connection
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func creditConfig(conf config.CreditsConfig) credit.Config {
	cfg := credit.DefaultConfig()
	if conf.DailyAllowance > 0 {
		cfg.DailyAllowance = conf.DailyAllowance
	}
	if conf.RefreshThresholdHours > 0 {
		cfg.RefreshThreshold = time.Duration(conf.RefreshThresholdHours) * time.Hour
	}
	if conf.ManualRefreshWindowHours > 0 {
		cfg.ManualRefreshWindow = time.Duration(conf.ManualRefreshWindowHours) * time.Hour
	}
	if conf.HistoryLimit > 0 {
		cfg.HistoryLimit = conf.HistoryLimit
	}
	if conf.SweepLockTTL > 0 {
		cfg.SweepLockTTL = conf.SweepLockTTL
	}
	return cfg
}

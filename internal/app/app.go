package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jenfranx30/savemate-backend/internal/auth"
	"github.com/jenfranx30/savemate-backend/internal/config"
	"github.com/jenfranx30/savemate-backend/internal/event"
	handler "github.com/jenfranx30/savemate-backend/internal/handler/http"
	"github.com/jenfranx30/savemate-backend/internal/repository"
	"github.com/jenfranx30/savemate-backend/internal/repository/postgres"
	"github.com/jenfranx30/savemate-backend/internal/repository/redis"
	"github.com/jenfranx30/savemate-backend/internal/service"
	"github.com/jenfranx30/savemate-backend/migrations"
	"github.com/jenfranx30/savemate-backend/pkg/database"
	"github.com/jenfranx30/savemate-backend/pkg/health"
	pkgkafka "github.com/jenfranx30/savemate-backend/pkg/kafka"
	"github.com/jenfranx30/savemate-backend/pkg/tracing"
)

// App wires together all dependencies and runs the SaveMate API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
	stopBackground context.CancelFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pool, err := OpenDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, cfg.ServiceName); err != nil {
		logger.Warn("register pool metrics", slog.String("error", err.Error()))
	}
	if cfg.SlowQuery > 0 {
		database.SetSlowQueryLogging(cfg.SlowQuery, logger)
	}

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	// Redis only backs the category cache, so the API starts without it.
	var categoryCache repository.CategoryCache
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		logger.Warn("redis unavailable, category cache disabled", slog.String("error", err.Error()))
	} else {
		categoryCache = redis.NewCategoryCache(redisClient, cfg.CategoryTTL)
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))
	}

	var (
		producer  *pkgkafka.Producer
		publisher pkgkafka.Publisher
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(cfg.Kafka(), logger)
		publisher = pkgkafka.NewBreakerPublisher(producer, pkgkafka.DefaultBreakerConfig("savemate-events"), logger)
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, domain events will not be published")
	}

	svc, err := NewServices(cfg, pool, categoryCache, event.NewProducer(publisher, logger), logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	router := handler.NewRouter(bgCtx, svc, healthHandler, logger, handler.RouterConfig{
		ServiceName:   cfg.ServiceName,
		CORS:          cfg.CORS(),
		AuthRateLimit: cfg.AuthRateLimit(),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
		stopBackground: stopBackground,
	}, nil
}

// OpenDatabase connects to PostgreSQL and applies pending migrations.
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")
	return pool, nil
}

// NewServices builds the service graph over pool. categoryCache may be nil.
func NewServices(
	cfg *config.Config,
	pool *pgxpool.Pool,
	categoryCache repository.CategoryCache,
	producer *event.Producer,
	logger *slog.Logger,
) (handler.Services, error) {
	authCfg := cfg.Auth()
	codec, err := auth.NewTokenCodec(authCfg)
	if err != nil {
		return handler.Services{}, fmt.Errorf("create token codec: %w", err)
	}
	sessions := auth.NewSessions(codec, authCfg.AccessTTL, authCfg.RefreshTTL)

	userRepo := postgres.NewUserRepository(pool)
	businessRepo := postgres.NewBusinessRepository(pool)
	dealRepo := postgres.NewDealRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	favoriteRepo := postgres.NewFavoriteRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)

	authenticator := auth.NewAuthenticator(sessions, userRepo)
	users, err := service.NewUserService(userRepo, auth.NewHasher(authCfg.BcryptCost), sessions, authenticator, producer, logger)
	if err != nil {
		return handler.Services{}, fmt.Errorf("create user service: %w", err)
	}

	return handler.Services{
		Authenticator: authenticator,
		Users:         users,
		Businesses:    service.NewBusinessService(businessRepo, producer, logger),
		Deals:         service.NewDealService(dealRepo, businessRepo, producer, logger),
		Reviews:       service.NewReviewService(reviewRepo, dealRepo, postgres.NewTransactor(pool), producer, logger),
		Favorites:     service.NewFavoriteService(favoriteRepo, dealRepo, logger),
		Categories:    service.NewCategoryService(categoryRepo, categoryCache, logger),
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown stops components in dependency order: HTTP server, tracer,
// Kafka producer, Redis, then the PostgreSQL pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	a.stopBackground()

	// Flush after the HTTP drain so spans from in-flight requests are kept.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

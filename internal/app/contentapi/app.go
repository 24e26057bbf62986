// Package contentapi assembles the HTTP API binary: storage, cache,
// broker, services, router and the server lifecycle.
package contentapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/jotanews/content-api/internal/cache"
	"github.com/jotanews/content-api/internal/config"
	"github.com/jotanews/content-api/internal/lib/jwt"
	"github.com/jotanews/content-api/internal/lib/rabbitmq"
	"github.com/jotanews/content-api/internal/migrations"
	articleservice "github.com/jotanews/content-api/internal/services/article"
	authservice "github.com/jotanews/content-api/internal/services/auth"
	categoryservice "github.com/jotanews/content-api/internal/services/category"
	subscriptionservice "github.com/jotanews/content-api/internal/services/subscription"
	"github.com/jotanews/content-api/internal/storage/repository"
)

// App holds the API server and the resources it owns.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New builds the API application from configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var conn *amqp.Connection
	var ch *amqp.Channel
	var publisher articleservice.EventPublisher = noopPublisher{}
	if cfg.NotificationsEnabled {
		conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch)
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	articleService := articleservice.NewArticleService(db, cacheRedis, publisher, cfg.NotificationsEnabled, logger)
	categoryService := categoryservice.NewCategoryService(db, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db,
		authService, articleService, categoryService, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", slog.Any("err", err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", slog.Any("err", err))
		}
	}
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close database", slog.Any("err", err))
	}
}

// noopPublisher swallows events when notifications are disabled. The
// article service checks the flag before publishing, this is only a
// safe default for the wiring.
type noopPublisher struct{}

func (noopPublisher) Publish(string, any) error { return nil }

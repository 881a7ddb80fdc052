// Package learningplatform собирает основное приложение платформы:
// хранилище с миграциями, кэш, брокер очередей, платёжного провайдера,
// сервисы и HTTP-сервер с graceful shutdown.
package learningplatform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/learning-platform/internal/authz"
	"github.com/magabrotheeeer/learning-platform/internal/cache"
	"github.com/magabrotheeeer/learning-platform/internal/config"
	"github.com/magabrotheeeer/learning-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/learning-platform/internal/migrations"
	"github.com/magabrotheeeer/learning-platform/internal/paymentprovider"
	"github.com/magabrotheeeer/learning-platform/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/learning-platform/internal/services/auth"
	courseservice "github.com/magabrotheeeer/learning-platform/internal/services/course"
	lessonservice "github.com/magabrotheeeer/learning-platform/internal/services/lesson"
	paymentservice "github.com/magabrotheeeer/learning-platform/internal/services/payment"
	profileservice "github.com/magabrotheeeer/learning-platform/internal/services/profile"
	subscriptionservice "github.com/magabrotheeeer/learning-platform/internal/services/subscription"
	"github.com/magabrotheeeer/learning-platform/internal/storage/repository"
)

// App — основное приложение платформы обучения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	rabbitmq *amqp.Connection
}

// New собирает приложение из конфигурации: подключает зависимости,
// прогоняет миграции и регистрирует маршруты.
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

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitMQ.ConnectionString, cfg.RabbitMQ.ConnectRetries, cfg.RabbitMQ.ConnectDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.Queues)
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	maker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.PaymentProvider.APIURL, cfg.PaymentProvider.SecretKey)
	policy := authz.Policy{ModeratorCanEditLessons: cfg.Policy.ModeratorCanEditLessons}

	authService := authservice.New(db, maker, logger)
	courseService := courseservice.New(db, cacheRedis, publisher, policy, logger)
	lessonService := lessonservice.New(db, policy, logger)
	subscriptionService := subscriptionservice.New(db, logger)
	profileService := profileservice.New(db, policy, logger)
	paymentService := paymentservice.New(db, providerClient, paymentservice.Config{
		Currency:   cfg.PaymentProvider.Currency,
		SuccessURL: cfg.PaymentProvider.SuccessURL,
		CancelURL:  cfg.PaymentProvider.CancelURL,
	}, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, maker,
		authService, courseService, lessonService,
		subscriptionService, profileService, paymentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		rabbitmq: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста
// или ошибки сервера. При отмене выполняется graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
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
		if closeErr := a.rabbitmq.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq connection")
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database connection")
		}
		return err
	}
}

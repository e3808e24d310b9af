// Package airbnb собирает HTTP-сервис бронирования из хранилища, кеша,
// брокера событий и обработчиков.
package airbnb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/Sunny17082/Airbnb/internal/cache"
	"github.com/Sunny17082/Airbnb/internal/config"
	"github.com/Sunny17082/Airbnb/internal/http/handlers/health"
	"github.com/Sunny17082/Airbnb/internal/lib/password"
	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/metrics"
	"github.com/Sunny17082/Airbnb/internal/migrations"
	"github.com/Sunny17082/Airbnb/internal/rabbitmq"
	authservice "github.com/Sunny17082/Airbnb/internal/services/auth"
	bookingservice "github.com/Sunny17082/Airbnb/internal/services/booking"
	"github.com/Sunny17082/Airbnb/internal/services/notifier"
	placeservice "github.com/Sunny17082/Airbnb/internal/services/place"
	"github.com/Sunny17082/Airbnb/internal/services/upload"
	"github.com/Sunny17082/Airbnb/internal/session"
	"github.com/Sunny17082/Airbnb/internal/storage/repository"
)

const (
	shutdownTimeout = 15 * time.Second
	consumeTimeout  = 5 * time.Second
)

type App struct {
	server   *http.Server
	log      *slog.Logger
	db       *repository.Storage
	cache    *cache.Cache
	conn     *amqp.Connection
	pubCh    *amqp.Channel
	subCh    *amqp.Channel
	notifier *notifier.Notifier
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *App, err error) {
	const op = "app.airbnb.New"

	app := &App{log: log}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	app.db, err = repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(app.db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	var publisher bookingservice.EventPublisher = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		publisher, err = app.connectBroker(cfg.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.notifier = notifier.New(app.db, collector, log, consumeTimeout)
	} else {
		log.Warn("rabbitmq url is empty, booking events are disabled")
	}

	sessions := session.New(session.Config{
		SecretKey:    cfg.Session.SecretKey,
		TokenTTL:     cfg.Session.TokenTTL,
		CookieSecure: cfg.Session.CookieSecure,
	})
	uploader, err := upload.New(upload.Config{
		Dir:             cfg.Uploads.Dir,
		MaxFiles:        cfg.Uploads.MaxFiles,
		MaxSize:         cfg.Uploads.MaxSize,
		DownloadTimeout: cfg.Uploads.DownloadTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, log, Deps{
		Auth:       authservice.NewAuthService(app.db, password.NewHasher(cfg.Session.BcryptCost), sessions),
		Places:     placeservice.NewService(app.db, app.cache, cfg.RedisConnection.PlaceTTL, log),
		Bookings:   bookingservice.NewService(app.db, publisher, log),
		Uploader:   uploader,
		Sessions:   sessions,
		Metrics:    collector,
		Gatherer:   reg,
		Health:     map[string]health.Pinger{"postgres": app.db, "redis": app.cache},
		UploadsDir: uploader.Dir(),
		CORSOrigin: cfg.HTTPServer.CORSAllowedOrigin,
	})

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

// connectBroker открывает отдельные каналы для публикации и чтения событий.
func (a *App) connectBroker(cfg config.RabbitMQ) (*rabbitmq.Publisher, error) {
	var err error
	a.conn, err = rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	queues := rabbitmq.GetBookingQueues()
	if a.pubCh, err = rabbitmq.SetupChannel(a.conn, cfg.Exchange, queues); err != nil {
		return nil, err
	}
	if a.subCh, err = rabbitmq.SetupChannel(a.conn, cfg.Exchange, queues); err != nil {
		return nil, err
	}
	return rabbitmq.NewPublisher(a.pubCh, cfg.Exchange), nil
}

func (a *App) Run(ctx context.Context) error {
	if a.notifier != nil {
		err := rabbitmq.ConsumeBookingEvents(ctx, a.log, a.subCh, rabbitmq.QueueBookingCreated, a.notifier.HandleBookingCreated)
		if err != nil {
			a.close()
			return fmt.Errorf("app.airbnb.Run: %w", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.subCh != nil {
		a.logClose("amqp subscribe channel", a.subCh.Close())
	}
	if a.pubCh != nil {
		a.logClose("amqp publish channel", a.pubCh.Close())
	}
	if a.conn != nil {
		a.logClose("amqp connection", a.conn.Close())
	}
	if a.cache != nil {
		a.logClose("redis", a.cache.Close())
	}
	if a.db != nil {
		a.logClose("postgres", a.db.Close())
	}
}

func (a *App) logClose(resource string, err error) {
	if err != nil {
		a.log.Error("failed to close", slog.String("resource", resource), sl.Err(err))
	}
}

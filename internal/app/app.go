package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/mateusmacedo/go-sleeper/internal/booking"
	"github.com/mateusmacedo/go-sleeper/internal/booking/application"
	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	"github.com/mateusmacedo/go-sleeper/internal/booking/infrastructure"
	"github.com/mateusmacedo/go-sleeper/internal/booking/reservation"
	"github.com/mateusmacedo/go-sleeper/internal/config"
	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-sleeper/pkg/infrastructure"
	channelsAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/channels/adapter"
	kafkaAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/kafka/adapter"
	redisAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/redis/adapter"
	zapAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/zaplogger/adapter"
)

type App struct {
	cfg        *config.Config
	logger     pkgApp.AppLogger
	httpServer *http.Server
	closers    []func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := zapAdapter.NewZapAppLogger(cfg.Logger.AppName, cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &App{cfg: cfg, logger: logger}

	if err := a.init(ctx); err != nil {
		_ = a.close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	catalogRepo, bookingRepo, err := a.initStorage(ctx)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	catalog, err := catalogRepo.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	engine, err := reservation.NewEngine(catalog, bookingRepo, pkgInfra.GenerateUUID, reservation.Config{
		RatePerKm:   a.cfg.Reservation.RatePerKm,
		LockTimeout: a.cfg.Reservation.LockTimeout,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("init reservation engine: %w", err)
	}
	if err := engine.Hydrate(ctx); err != nil {
		return fmt.Errorf("hydrate inventory: %w", err)
	}

	eventBus, err := a.initEventBus()
	if err != nil {
		return fmt.Errorf("init event bus: %w", err)
	}

	slice := booking.NewBookingSlice(
		booking.NewSimpleBuses(a.logger),
		eventBus,
		engine,
		bookingRepo,
		pkgInfra.GenerateUUID,
		a.logger,
		a.cfg.Server.RequestTimeout,
	)

	a.httpServer = &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      NewRouter(slice, a.logger),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}
	return nil
}

// NewRouter monta as rotas de reserva atrás da cadeia de middlewares.
func NewRouter(slice *booking.BookingSlice, logger pkgApp.AppLogger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(infrastructure.RequestLogger(logger))
	router.Use(middleware.Recoverer)

	slice.RegisterRoutes(router)
	return router
}

func (a *App) initStorage(ctx context.Context) (domain.CatalogRepository, domain.BookingRepository, error) {
	switch a.cfg.Storage.Driver {
	case config.StoragePostgres:
		pg := a.cfg.Storage.Postgres
		if err := infrastructure.Migrate(ctx, pg.DSN(), a.logger); err != nil {
			return nil, nil, err
		}

		db, err := infrastructure.OpenGorm(ctx, infrastructure.PostgresOptions{
			DSN:             pg.DSN(),
			MaxOpenConns:    pg.MaxOpenConns,
			MaxIdleConns:    pg.MaxIdleConns,
			ConnMaxLifetime: pg.ConnMaxLifetime,
			ConnectRetries:  pg.ConnectRetries,
			RetryBackoff:    pg.RetryBackoff,
		}, a.logger)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)

		pkgApp.LogInfo(ctx, a.logger, "database connected", map[string]interface{}{
			"host":     pg.Host,
			"port":     pg.Port,
			"database": pg.Database,
		})
		return infrastructure.NewGormCatalogRepository(db, a.logger), infrastructure.NewGormBookingRepository(db, a.logger), nil
	default:
		return infrastructure.NewStaticCatalog(), infrastructure.NewInMemoryBookingRepository(a.logger), nil
	}
}

func (a *App) initEventBus() (application.BookingEventBus, error) {
	events := a.cfg.Events

	switch events.Transport {
	case config.TransportChannels:
		bus := channelsAdapter.NewChannelsEventBus[pkgDomain.Event[application.BookingEventData], application.BookingEventData](events.BufferSize, a.logger)
		a.closers = append(a.closers, bus.Close)
		return bus, nil
	case config.TransportKafka:
		bus, err := kafkaAdapter.NewKafkaEventBus[pkgDomain.Event[application.BookingEventData], application.BookingEventData](kafkaAdapter.Config{
			Brokers:       events.Kafka.Brokers,
			ConsumerGroup: events.Kafka.ConsumerGroup,
			ClientID:      events.Kafka.ClientID,
		}, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, bus.Close)
		return bus, nil
	case config.TransportRedis:
		client := redisAdapter.NewRedisClient(redisAdapter.ClientConfig{
			Addr:     events.Redis.Addr,
			Password: events.Redis.Password,
			DB:       events.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)

		bus, err := redisAdapter.NewRedisEventBus[pkgDomain.Event[application.BookingEventData], application.BookingEventData](client, redisAdapter.Config{
			ConsumerGroup: events.Redis.ConsumerGroup,
			Consumer:      events.Redis.Consumer,
		}, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, bus.Close)
		return bus, nil
	default:
		return pkgInfra.NewSimpleEventBus[pkgDomain.Event[application.BookingEventData], application.BookingEventData](a.logger), nil
	}
}

// Run serve HTTP até ctx ser cancelado ou chegar SIGINT/SIGTERM, então drena o servidor e libera os recursos.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pkgApp.LogInfo(gctx, a.logger, "http server starting", map[string]interface{}{
			"addr":      a.httpServer.Addr,
			"storage":   a.cfg.Storage.Driver,
			"transport": a.cfg.Events.Transport,
		})
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		pkgApp.LogInfo(context.Background(), a.logger, "shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	err := errors.Join(g.Wait(), a.close())
	pkgApp.LogInfo(context.Background(), a.logger, "app stopped", nil)
	return err
}

// close libera os recursos na ordem inversa de aquisição.
func (a *App) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

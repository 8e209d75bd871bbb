// Package app wires configuration, persistence and services into one
// object that cmd/server and the handler tests share.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinemax-booking/internal/auth"
	"github.com/iliyamo/cinemax-booking/internal/booking"
	"github.com/iliyamo/cinemax-booking/internal/catalog"
	"github.com/iliyamo/cinemax-booking/internal/config"
	"github.com/iliyamo/cinemax-booking/internal/database"
	"github.com/iliyamo/cinemax-booking/internal/handler"
	"github.com/iliyamo/cinemax-booking/internal/middleware"
	"github.com/iliyamo/cinemax-booking/internal/monitoring"
	"github.com/iliyamo/cinemax-booking/internal/queue"
	"github.com/iliyamo/cinemax-booking/internal/router"
	"github.com/iliyamo/cinemax-booking/internal/seed"
	queue_publisher "github.com/iliyamo/cinemax-booking/internal/service"
	"github.com/iliyamo/cinemax-booking/internal/storage"
	"github.com/iliyamo/cinemax-booking/internal/utils"
)

// collectInterval is how often the occupancy gauges are refreshed.
const collectInterval = 30 * time.Second

type App struct {
	Config config.Config
	Logger *zap.Logger
	Clock  clockwork.Clock

	Store storage.Store
	Redis *redis.Client
	DB    *sql.DB

	Registry *prometheus.Registry
	Metrics  *monitoring.Metrics

	Catalog  *catalog.Store
	Users    *auth.Store
	Bookings *booking.Service
}

// New opens the configured backend and builds every service on top of
// it.  Nothing is read from the store until Init.
func New(cfg config.Config, logger *zap.Logger, clock clockwork.Clock) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	a := &App{Config: cfg, Logger: logger, Clock: clock}

	if err := a.openStore(); err != nil {
		return nil, err
	}
	// the rate limiter still wants redis when another backend holds the data
	if a.Redis == nil && (os.Getenv("REDIS_ADDR") != "" || os.Getenv("REDIS_HOST") != "") {
		a.Redis = config.NewRedisClient()
		if a.Redis == nil {
			logger.Warn("redis unreachable, rate limiting disabled")
		}
	}
	a.build(nil)
	return a, nil
}

// NewWithStore builds an App over an existing store, skipping backend
// selection.  Used by tests.
func NewWithStore(cfg config.Config, kv storage.Store, logger *zap.Logger, clock clockwork.Clock, opts ...booking.Option) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	a := &App{Config: cfg, Logger: logger, Clock: clock, Store: kv}
	a.build(opts)
	return a
}

func (a *App) openStore() error {
	cfg := a.Config
	switch cfg.StoreBackend {
	case config.BackendMemory:
		a.Store = storage.NewMemoryStore()
	case config.BackendRedis:
		rdb := config.NewRedisClient()
		if rdb == nil {
			return fmt.Errorf("app: redis backend selected but redis is unreachable")
		}
		a.Redis = rdb
		a.Store = storage.NewRedisStore(rdb, cfg.StorePrefix)
	case config.BackendMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return fmt.Errorf("app: open mysql: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return err
		}
		a.DB = db
		a.Store = storage.NewMySQLStore(db, cfg.StorePrefix)
	default:
		return fmt.Errorf("app: unknown store backend %q", cfg.StoreBackend)
	}
	return nil
}

func (a *App) build(extra []booking.Option) {
	cfg := a.Config

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = monitoring.New(a.Registry)

	a.Catalog = catalog.New(a.Store, utils.NewUUID)
	a.Users = auth.New(a.Store,
		auth.WithClock(a.Clock),
		auth.WithBcryptCost(cfg.BcryptCost),
	)

	var events booking.EventPublisher = queue_publisher.Noop{}
	if cfg.EventsEnabled {
		events = queue_publisher.New(cfg.RabbitMQURL, a.Logger)
	}
	opts := []booking.Option{
		booking.WithClock(a.Clock),
		booking.WithFee(cfg.TicketFee),
		booking.WithPaymentProcessor(booking.SimulatedProcessor{Clock: a.Clock, Delay: cfg.PaymentDelay}),
		booking.WithPublisher(events),
		booking.WithMetrics(a.Metrics),
		booking.WithLogger(a.Logger),
	}
	a.Bookings = booking.New(a.Catalog, a.Store, append(opts, extra...)...)
}

// Init seeds demo data when the stored version is stale and loads every
// collection into memory.
func (a *App) Init(ctx context.Context) error {
	if a.Config.SeedingEnabled() {
		seeded, err := seed.Ensure(ctx, a.Store, seed.Options{
			Version:    a.Config.SeedVersion,
			Clock:      a.Clock,
			BcryptCost: a.Config.BcryptCost,
			Logger:     a.Logger,
		})
		if err != nil {
			return err
		}
		if seeded {
			a.Logger.Info("demo data written", zap.String("version", a.Config.SeedVersion))
		}
	}
	if err := a.Catalog.Load(ctx); err != nil {
		return fmt.Errorf("app: load catalog: %w", err)
	}
	if err := a.Users.Restore(ctx); err != nil {
		return fmt.Errorf("app: load users: %w", err)
	}
	if err := a.Bookings.Load(ctx); err != nil {
		return fmt.Errorf("app: load orders: %w", err)
	}
	return nil
}

// RegisterRoutes mounts the whole HTTP API on e.  Rate limiting is only
// active when a Redis client is available.
func (a *App) RegisterRoutes(e *echo.Echo) {
	cfg := a.Config
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), a.Redis, a.Clock, a.Logger)

	router.RegisterRoutes(e, cfg.StoreBackend, a.Registry)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, a.Users, a.Clock, a.Metrics, a.Logger), cfg.JWTSecret, limit)
	router.RegisterPublic(e, &handler.PublicHandler{Catalog: a.Catalog, Log: a.Logger})
	router.RegisterCustomer(e, &handler.CustomerHandler{
		Catalog:  a.Catalog,
		Users:    a.Users,
		Bookings: a.Bookings,
		Log:      a.Logger,
	}, cfg.JWTSecret, limit)
	router.RegisterAdmin(e, &handler.AdminHandler{
		Catalog:  a.Catalog,
		Users:    a.Users,
		Bookings: a.Bookings,
		Log:      a.Logger,
	}, cfg.JWTSecret)
}

// RunBackground starts the occupancy collector and, when events are
// enabled, the booking log consumer.  Both stop with ctx.
func (a *App) RunBackground(ctx context.Context) {
	go a.Metrics.RunCollector(ctx, a.Clock, a.Catalog, collectInterval)

	if !a.Config.EventsEnabled {
		return
	}
	c := &queue.Consumer{URL: a.Config.RabbitMQURL, LogDir: a.Config.LogDir, Logger: a.Logger}
	go func() {
		if err := c.Run(ctx); err != nil && ctx.Err() == nil {
			a.Logger.Error("booking consumer stopped", zap.Error(err))
		}
	}()
}

// Close releases the backend connections.
func (a *App) Close() error {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

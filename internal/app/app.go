package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/thedreamteamconsultancy/workstatus/internal/config"
	"github.com/thedreamteamconsultancy/workstatus/internal/feed"
	"github.com/thedreamteamconsultancy/workstatus/internal/handlers"
	"github.com/thedreamteamconsultancy/workstatus/internal/handlers/dto"
	"github.com/thedreamteamconsultancy/workstatus/internal/lease"
	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
	"github.com/thedreamteamconsultancy/workstatus/internal/repository/inmemory"
	"github.com/thedreamteamconsultancy/workstatus/internal/repository/postgres"
	"github.com/thedreamteamconsultancy/workstatus/internal/service"
	"github.com/thedreamteamconsultancy/workstatus/internal/telemetry"
	"github.com/thedreamteamconsultancy/workstatus/internal/worker"
)

const shutdownTimeout = 30 * time.Second

type stores struct {
	tasks   service.TaskRepository
	clients service.ClientRepository
	gems    service.GemRepository
	ledger  service.LedgerRepository
}

// App wires the stores, the services, the scanner and the HTTP server.
type App struct {
	config    *config.Config
	server    *http.Server
	stores    stores
	tasks     *service.TaskService
	view      *feed.View
	worker    *worker.DelayWorker
	shutdowns []func()
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	shutdownTracer, err := telemetry.InitTracer(ctx, "workstatus", a.config.Telemetry.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	a.shutdowns = append(a.shutdowns, shutdownTracer)

	loc, err := a.config.Location()
	if err != nil {
		return err
	}

	if err := a.initStores(ctx); err != nil {
		return err
	}

	l, err := a.initLease(ctx)
	if err != nil {
		return err
	}

	opt := service.WithLocation(loc)
	a.tasks = service.NewTaskService(a.stores.tasks, a.stores.clients, a.stores.gems, opt)
	clients := service.NewClientService(a.stores.clients, a.stores.tasks, opt)
	gems := service.NewGemService(a.stores.gems, a.stores.tasks, opt)
	ledgerSvc := service.NewLedgerService(a.stores.ledger, a.stores.clients, opt)

	a.view = feed.NewView(a.stores.tasks, repo.TaskFilter{})
	a.worker = worker.NewDelayWorker(a.view, a.tasks, l,
		worker.WithInterval(a.config.Engine.SweepInterval),
		worker.WithCooldown(a.config.Engine.InFlightCooldown),
	)

	router := handlers.NewRouter(handlers.RouterConfig{
		RateLimitRPM:   a.config.Server.RateLimitRPM,
		RequestTimeout: a.config.Server.WriteTimeout,
		CORSOrigins:    a.config.Server.CORSOrigins,
	}, handlers.Handlers{
		Tasks:   handlers.NewTaskHandler(a.tasks),
		Clients: handlers.NewClientHandler(clients, a.tasks),
		Gems:    handlers.NewGemHandler(gems),
		Ledger:  handlers.NewLedgerHandler(ledgerSvc),
		System:  handlers.NewSystemHandler(a.settings(loc)),
	})

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("App: initialized",
		zap.String("repository", a.config.Repository.Type),
		zap.String("timezone", loc.String()),
		zap.Bool("shared_lease", a.config.Redis.Addr != ""))
	return nil
}

func (a *App) initStores(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		if err := postgres.Migrate(a.config.Database.URL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConns:    int32(a.config.Database.MaxConnections),
			MinConns:    int32(a.config.Database.MinConnections),
			IdleTimeout: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)
		a.stores = stores{
			tasks:   storage.Tasks(),
			clients: storage.Clients(),
			gems:    storage.Gems(),
			ledger:  storage.Ledger(),
		}
	default:
		a.stores = stores{
			tasks:   inmemory.NewTaskStorage(),
			clients: inmemory.NewClientStorage(),
			gems:    inmemory.NewGemStorage(),
			ledger:  inmemory.NewLedgerStorage(),
		}
	}
	return nil
}

// initLease shares the scanner lease through redis when an address is
// configured, so several instances never delay the same task twice.
func (a *App) initLease(ctx context.Context) (lease.Lease, error) {
	if a.config.Redis.Addr == "" {
		return lease.NewMemory(lease.DefaultInFlightTTL, nil), nil
	}

	client := lease.NewClient(a.config.Redis.Addr)
	shared := lease.NewRedis(client, lease.DefaultInFlightTTL)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shared.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis lease: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() { _ = client.Close() })
	return shared, nil
}

func (a *App) settings(loc *time.Location) dto.Settings {
	return dto.Settings{
		SweepInterval:    a.config.Engine.SweepInterval.String(),
		InFlightCooldown: a.config.Engine.InFlightCooldown.String(),
		MessageRetention: a.config.Engine.MessageRetention,
		Timezone:         loc.String(),
		Repository:       a.config.Repository.Type,
		SharedLease:      a.config.Redis.Addr != "",
	}
}

// Run serves HTTP, follows the task feed and sweeps overdue tasks until ctx
// is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	defer a.Shutdown()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.view.Run(gctx)
	})

	g.Go(func() error {
		select {
		case <-a.view.Ready():
		case <-gctx.Done():
			return nil
		}
		a.worker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("App: HTTP server starting", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// SweepOnce loads the current task set and runs a single scanner pass.
func (a *App) SweepOnce(ctx context.Context) (int, error) {
	defer a.Shutdown()

	viewCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 1)
	go func() { errs <- a.view.Run(viewCtx) }()

	select {
	case <-a.view.Ready():
	case err := <-errs:
		if err == nil {
			err = ctx.Err()
		}
		return 0, fmt.Errorf("load tasks: %w", err)
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return a.worker.Sweep(ctx), nil
}

// Shutdown runs the registered cleanups in reverse order.
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}

// Package wire provides dependency injection for sprintboard.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/example/sprintboard/internal/adapters/chart"
	cliadapter "github.com/example/sprintboard/internal/adapters/cli"
	"github.com/example/sprintboard/internal/adapters/filesystem"
	"github.com/example/sprintboard/internal/adapters/sqlite"
	"github.com/example/sprintboard/internal/adapters/web"
	"github.com/example/sprintboard/internal/app"
	"github.com/example/sprintboard/internal/config"
	"github.com/example/sprintboard/internal/db"
	"github.com/example/sprintboard/internal/ports/primary"
	"github.com/example/sprintboard/internal/ports/secondary"
)

var (
	cfg           *config.Config
	logger        *slog.Logger
	registry      *prometheus.Registry
	ticketStore   *filesystem.TicketStore
	ticketService primary.TicketService
	once          sync.Once
)

// Configure sets the configuration used to build services.
// It must be called before the first accessor; later calls have no effect.
func Configure(c *config.Config) {
	cfg = c
}

// Config returns the active configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the shared structured logger.
func Logger() *slog.Logger {
	once.Do(initServices)
	return logger
}

// Registry returns the Prometheus registry holding pipeline metrics.
func Registry() *prometheus.Registry {
	once.Do(initServices)
	return registry
}

// TicketStore returns the ticket file adapter.
func TicketStore() *filesystem.TicketStore {
	once.Do(initServices)
	return ticketStore
}

// TicketService returns the singleton TicketService instance.
func TicketService() primary.TicketService {
	once.Do(initServices)
	return ticketService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	if cfg == nil {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("failed to get working directory: %v", err)
		}
		cfg, err = config.Load(config.NewViper(), wd)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("failed to load timezone: %v", err)
	}

	registry = prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Create secondary adapters
	ticketStore = filesystem.NewTicketStore(cfg.Tickets.Path)
	locker := filesystem.NewFileLock(cfg.LockPath(), cfg.LockTimeout)

	var modLog secondary.ModificationLog
	switch cfg.Log.Backend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.Log.SQLitePath)
		if err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}
		modLog = sqlite.NewModificationLog(database, loc)
	default:
		modLog = filesystem.NewModificationLog(cfg.Log.Path, loc)
	}

	// Create services (primary ports implementation)
	ticketService = app.NewTicketService(ticketStore, modLog, locker, app.NewMetrics(registry), logger)
}

// TicketAdapter returns a new TicketAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func TicketAdapter() *cliadapter.TicketAdapter {
	return TicketAdapterWithOutput(os.Stdout)
}

// TicketAdapterWithOutput returns a new TicketAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func TicketAdapterWithOutput(out io.Writer) *cliadapter.TicketAdapter {
	once.Do(initServices)
	return cliadapter.NewTicketAdapter(ticketService, out)
}

// ChartRenderer returns a renderer sized from the serve config.
func ChartRenderer() *chart.Renderer {
	once.Do(initServices)
	return chart.NewRenderer(cfg.Serve.ChartWidth, cfg.Serve.ChartHeight)
}

// WebServer returns the dashboard server bound to the singleton service.
func WebServer() (*web.Server, error) {
	once.Do(initServices)
	return web.NewServer(ticketService, ChartRenderer(), registry, cfg.Actor, logger)
}

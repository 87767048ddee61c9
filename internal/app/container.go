package app

import (
	"context"
	"errors"
	"fmt"

	configapp "github.com/doeshing/skyrim-search-se/internal/application/config"
	"github.com/doeshing/skyrim-search-se/internal/application/console"
	"github.com/doeshing/skyrim-search-se/internal/application/intercept"
	"github.com/doeshing/skyrim-search-se/internal/application/query"
	"github.com/doeshing/skyrim-search-se/internal/application/router"
	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/infrastructure/config"
	"github.com/doeshing/skyrim-search-se/internal/infrastructure/store"
	"github.com/doeshing/skyrim-search-se/internal/pkg/logger"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// HostFactory builds the host adapters once the configuration is known.
type HostFactory func(domain.HostSettings) (ports.HostConsole, ports.Hook, error)

// Options controls how the container is assembled.
type Options struct {
	ConfigPath string
	Verbose    bool
	// Logger overrides the default StdLogger.
	Logger ports.Logger
	Host   HostFactory
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config      domain.Config
	Logger      ports.Logger
	Store       *store.SQLiteStore
	Host        ports.HostConsole
	Hook        ports.Hook
	Output      *console.Channel
	Executor    *query.Executor
	Router      *router.Router
	Interceptor *intercept.Interceptor
}

// BuildContainer constructs the dependency graph. The store is opened eagerly
// so that a broken database fails startup instead of the first command.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	if opts.Host == nil {
		return nil, domain.New(domain.KindInitialization, "no host adapters configured")
	}

	cfg, err := config.NewFileLoader(opts.ConfigPath).Load(ctx)
	if err != nil {
		return nil, domain.Wrap(domain.KindInitialization, "load config", err)
	}
	if err := configapp.Validate(cfg); err != nil {
		return nil, domain.Wrap(domain.KindInitialization, "invalid config", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStd(opts.Verbose || cfg.Logging.Verbose)
	}

	hostConsole, hook, err := opts.Host(cfg.Host)
	if err != nil {
		return nil, domain.Wrap(domain.KindInitialization, "host adapters", err)
	}

	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, domain.Wrap(domain.KindInitialization, "init_db error", err)
	}
	log.Info("database ready", map[string]interface{}{"path": db.Path(), "driver": db.Driver()})

	output := console.NewChannel(hostConsole, log, cfg.Host.PrintBufferSize)
	executor := query.NewExecutor(db, log)
	commandRouter := router.New(cfg.Commands.Aliases, executor, log)

	interceptor := &intercept.Interceptor{
		Context: ctx,
		Host:    hostConsole,
		Hook:    hook,
		Router:  commandRouter,
		Output:  output,
		Logger:  log,
	}

	return &Container{
		Config:      cfg,
		Logger:      log,
		Store:       db,
		Host:        hostConsole,
		Hook:        hook,
		Output:      output,
		Executor:    executor,
		Router:      commandRouter,
		Interceptor: interceptor,
	}, nil
}

// Start installs the console hook at the configured offset from base.
func (c *Container) Start(base uintptr) error {
	target := base + uintptr(c.Config.Host.ConsoleInputOffset)
	if err := c.Interceptor.Install(target); err != nil {
		return fmt.Errorf("install console hook at %#x: %w", target, err)
	}
	return nil
}

// Close releases the store.
func (c *Container) Close() error {
	if c.Store == nil {
		return errors.New("container not initialised")
	}
	return c.Store.Close()
}

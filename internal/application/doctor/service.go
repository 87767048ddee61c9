package doctor

import (
	"context"
	"fmt"

	configapp "github.com/doeshing/skyrim-search-se/internal/application/config"
	"github.com/doeshing/skyrim-search-se/internal/application/query"
	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// Database is a store the doctor can open and release on its own.
type Database interface {
	ports.Store
	Path() string
	Driver() string
	Close() error
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	OpenDatabase   func(context.Context, domain.DatabaseSettings) (Database, error)
	// HostProbe reports whether the process adapters work on this platform.
	HostProbe func() error
	Logger    ports.Logger
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format %s, aliases %v", cfg.ConfigFormatVersion, cfg.Commands.Aliases)))

	dbCheck, dbErr := s.databaseCheck(ctx, cfg.Database)
	checks = append(checks, dbCheck)

	checks = append(checks, ok("Host offsets", fmt.Sprintf("input %#x, console %#x, print %#x, text %#x",
		cfg.Host.ConsoleInputOffset, cfg.Host.ConsoleContextOffset, cfg.Host.PrintOffset, cfg.Host.InputTextOffset)))

	if s.HostProbe != nil {
		if err := s.HostProbe(); err != nil {
			checks = append(checks, warn("Game hooks", err.Error()))
		} else {
			checks = append(checks, ok("Game hooks", "supported on this platform"))
		}
	}

	return domain.HealthReport{Checks: checks}, dbErr
}

func (s *Service) databaseCheck(ctx context.Context, settings domain.DatabaseSettings) (domain.HealthCheck, error) {
	if s.OpenDatabase == nil {
		return warn("Database", "no database opener configured"), nil
	}
	db, err := s.OpenDatabase(ctx, settings)
	if err != nil {
		return fail("Database", err.Error()), err
	}
	defer db.Close()

	table, err := query.NewExecutor(db, s.Logger).Execute(ctx, "select count(*) from npc", true)
	if err != nil {
		return fail("Database", fmt.Sprintf("npc table unavailable: %v", err)), err
	}
	rows := "0"
	if len(table.Rows) == 1 && len(table.Rows[0]) == 1 {
		rows = table.Rows[0][0]
	}

	location := db.Path()
	if location == "" {
		location = "temporary"
	}
	return ok("Database", fmt.Sprintf("%s via %s, %s npc rows", location, db.Driver(), rows)), nil
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}

// Command skyrimsearch is built as a shared library and loaded into the game
// process, which calls the exported SkyrimSearchInit once at startup.
//
//	go build -buildmode=c-shared -o skyrim_search_se.dll ./cmd/skyrimsearch
package main

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/doeshing/skyrim-search-se/internal/app"
	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/infrastructure/host"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

var (
	startOnce sync.Once
	startErr  error
	container *app.Container
)

func main() {}

// start installs the console hook exactly once per process.
func start() error {
	startOnce.Do(func() {
		startErr = run(context.Background())
	})
	return startErr
}

func run(ctx context.Context) error {
	base, err := host.ImageBase()
	if err != nil {
		return domain.Wrap(domain.KindInitialization, "resolve image base", err)
	}

	c, err := app.BuildContainer(ctx, app.Options{
		Verbose: isVerbose(),
		Host: func(settings domain.HostSettings) (ports.HostConsole, ports.Hook, error) {
			console, err := host.NewProcessConsole(base, settings)
			if err != nil {
				return nil, nil, err
			}
			hook, err := host.NewDetour()
			if err != nil {
				return nil, nil, err
			}
			return console, hook, nil
		},
	})
	if err != nil {
		return err
	}

	if err := c.Start(base); err != nil {
		_ = c.Close()
		return err
	}
	container = c
	return nil
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("SKYRIM_SEARCH_DEBUG"), "1") || strings.EqualFold(os.Getenv("SKYRIM_SEARCH_DEBUG"), "true")
}

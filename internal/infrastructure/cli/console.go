package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/doeshing/skyrim-search-se/internal/app"
	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/infrastructure/host"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// simulatedImageBase stands in for the game's load address.
const simulatedImageBase = 0x140000000

const prompt = "> "

type consoleOptions struct {
	ConfigPath string
	SeedFile   string
	Verbose    bool
	NotReady   bool
	In         io.Reader
	Out        io.Writer
}

func runConsole(ctx context.Context, opts consoleOptions) error {
	sim := host.NewSimulatedConsole(opts.Out)
	sim.SetReady(!opts.NotReady)
	hook := host.NewSimulatedHook(func(state uintptr, _, _, _ int64) {
		fmt.Fprintf(opts.Out, "[host] %s\n", sim.ReadInput(state))
	})

	container, err := app.BuildContainer(ctx, app.Options{
		ConfigPath: opts.ConfigPath,
		Verbose:    opts.Verbose,
		Host: func(domain.HostSettings) (ports.HostConsole, ports.Hook, error) {
			return sim, hook, nil
		},
	})
	if err != nil {
		return err
	}
	defer container.Close()

	if opts.SeedFile != "" {
		script, err := os.ReadFile(opts.SeedFile)
		if err != nil {
			return fmt.Errorf("read seed: %w", err)
		}
		if err := container.Store.ExecScript(ctx, string(script)); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	if err := container.Start(simulatedImageBase); err != nil {
		return err
	}

	scanner := bufio.NewScanner(opts.In)
	fmt.Fprint(opts.Out, prompt)
	for scanner.Scan() {
		state := sim.Submit(scanner.Bytes())
		hook.Dispatch(state, 0, 0, 0)
		sim.Release(state)
		fmt.Fprint(opts.Out, prompt)
	}
	fmt.Fprintln(opts.Out)
	return scanner.Err()
}

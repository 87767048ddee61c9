// Package intercept sits in place of the host's console input handler and
// decides, per line, whether the host or skyrim-search-se handles it.
package intercept

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// ErrAlreadyInstalled is returned by a second Install in the same process.
var ErrAlreadyInstalled = errors.New("console input hook already installed")

// Interceptor is the replacement for the host console input handler.
type Interceptor struct {
	Context context.Context
	Host    ports.HostConsole
	Hook    ports.Hook
	Router  ports.CommandRouter
	Output  ports.Printer
	Logger  ports.Logger

	installOnce sync.Once
	installed   bool
}

// Install detours target to HandleConsoleInput and enables the detour.
// It succeeds at most once per Interceptor.
func (i *Interceptor) Install(target uintptr) error {
	if i.Host == nil || i.Hook == nil || i.Router == nil || i.Output == nil || i.Logger == nil {
		return domain.New(domain.KindInitialization, "intercept.Interceptor dependencies not satisfied")
	}

	err := ErrAlreadyInstalled
	i.installOnce.Do(func() {
		err = i.install(target)
		i.installed = err == nil
	})
	return err
}

func (i *Interceptor) install(target uintptr) error {
	if err := i.Hook.Install(target, i.HandleConsoleInput); err != nil {
		return domain.Wrap(domain.KindInitialization, "initialize", err)
	}
	if err := i.Hook.Enable(); err != nil {
		return domain.Wrap(domain.KindInitialization, "enable", err)
	}
	i.Logger.Info("console input hook enabled", map[string]interface{}{"target": fmt.Sprintf("%#x", target)})
	return nil
}

// Installed reports whether the detour is live.
func (i *Interceptor) Installed() bool {
	return i.installed
}

// HandleConsoleInput runs on the host's console thread for every submitted
// line. It either forwards the call unchanged or handles it locally; nothing
// escapes back into host code.
func (i *Interceptor) HandleConsoleInput(state uintptr, a2, a3, a4 int64) {
	forward := func() { i.Hook.CallOriginal(state, a2, a3, a4) }

	routed := false
	defer func() {
		if r := recover(); r != nil {
			i.Logger.Error("console input panic", fmt.Errorf("%v", r), map[string]interface{}{"routed": routed})
			if !routed {
				forward()
				return
			}
			i.Output.Print(fmt.Sprintf("%s: internal error: %v", domain.ProgramName, r))
		}
	}()

	raw := i.Host.ReadInput(state)
	if !utf8.Valid(raw) {
		err := domain.New(domain.KindDecoding, "console input is not valid UTF-8")
		i.Logger.Warn("console input not decodable", map[string]interface{}{"bytes": len(raw)})
		i.Output.Print(fmt.Sprintf("%s: %v", domain.ProgramName, err))
		forward()
		return
	}
	if len(raw) == 0 {
		forward()
		return
	}

	ctx := i.Context
	if ctx == nil {
		ctx = context.Background()
	}

	routed = true
	decision := i.Router.Route(ctx, string(raw))
	i.Logger.Debug("console input routed", map[string]interface{}{"decision": decision.Kind.String()})

	if !decision.Forwards() {
		if decision.Output != "" {
			i.Output.Print(decision.Output)
		}
		return
	}
	if decision.Kind == domain.UsageRequested {
		// The hint follows the host's own help text.
		forward()
		i.Output.Print(decision.Output)
		return
	}
	if decision.Output != "" {
		i.Output.Print(decision.Output)
	}
	forward()
}

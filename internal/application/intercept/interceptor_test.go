package intercept

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/skyrim-search-se/internal/application/console"
	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/infrastructure/host"
	"github.com/doeshing/skyrim-search-se/internal/pkg/logger"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

type fixture struct {
	sim         *host.SimulatedConsole
	hook        *host.SimulatedHook
	router      *stubRouter
	interceptor *Interceptor
}

func newFixture(t *testing.T, decision domain.Decision) *fixture {
	t.Helper()
	sim := host.NewSimulatedConsole(nil)
	hook := host.NewSimulatedHook(func(uintptr, int64, int64, int64) {
		sim.Print(1, []byte("[host]\x00"))
	})
	log := logger.NewWithWriter(false, io.Discard)
	router := &stubRouter{decision: decision}

	i := &Interceptor{
		Host:   sim,
		Hook:   hook,
		Router: router,
		Output: console.NewChannel(sim, log, domain.DefaultPrintBufferSize),
		Logger: log,
	}
	if err := i.Install(0x1402e75f0); err != nil {
		t.Fatalf("Install error: %v", err)
	}
	return &fixture{sim: sim, hook: hook, router: router, interceptor: i}
}

func (f *fixture) submit(input string) {
	state := f.sim.Submit([]byte(input))
	f.hook.Dispatch(state, 7, 8, 9)
}

func TestNotMineForwardsUnchanged(t *testing.T) {
	f := newFixture(t, domain.Decision{Kind: domain.NotMine})
	state := f.sim.Submit([]byte("coc whiterun"))

	f.hook.Dispatch(state, 7, 8, 9)

	calls := f.hook.OriginalCalls()
	if len(calls) != 1 {
		t.Fatalf("expected one forwarded call, got %d", len(calls))
	}
	want := host.OriginalCall{State: state, A2: 7, A3: 8, A4: 9}
	if calls[0] != want {
		t.Fatalf("forwarded %+v, want %+v", calls[0], want)
	}
	if f.router.inputs[0] != "coc whiterun" {
		t.Fatalf("router saw %q", f.router.inputs)
	}
	if got := f.sim.Printed(); len(got) != 1 || got[0] != "[host]" {
		t.Fatalf("printed %q", got)
	}
}

func TestNotMineWithNoticePrintsThenForwards(t *testing.T) {
	f := newFixture(t, domain.Decision{Kind: domain.NotMine, Output: domain.ParseFailedNotice})

	f.submit(`ss "broken`)

	if len(f.hook.OriginalCalls()) != 1 {
		t.Fatal("declined input must reach the host")
	}
	want := []string{domain.ParseFailedNotice, "[host]"}
	if got := f.sim.Printed(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("printed %q, want %q", got, want)
	}
}

func TestHandledDoesNotForward(t *testing.T) {
	f := newFixture(t, domain.Decision{Kind: domain.Handled, Output: "v\n0xff\n"})

	f.submit("ss query select 255 as v")

	if n := len(f.hook.OriginalCalls()); n != 0 {
		t.Fatalf("handled input forwarded %d times", n)
	}
	if got := f.sim.Printed(); strings.Join(got, "|") != "v|0xff" {
		t.Fatalf("printed %q", got)
	}
}

func TestHandledWithErrorPrintsAndDoesNotForward(t *testing.T) {
	f := newFixture(t, domain.Decision{Kind: domain.HandledWithError, Output: `prepare error: near "from": syntax error`})

	f.submit("ss query select from")

	if n := len(f.hook.OriginalCalls()); n != 0 {
		t.Fatalf("failed command forwarded %d times", n)
	}
	if got := f.sim.Printed(); len(got) != 1 || !strings.Contains(got[0], "syntax error") {
		t.Fatalf("printed %q", got)
	}
}

func TestUsageRequestedForwardsThenPrintsHint(t *testing.T) {
	f := newFixture(t, domain.Decision{Kind: domain.UsageRequested, Output: domain.UsageHint})

	f.submit("help")

	want := []string{"[host]", domain.UsageHint}
	if diff := cmp.Diff(want, f.sim.Printed()); diff != "" {
		t.Fatalf("printed mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyInputForwardsWithoutRouting(t *testing.T) {
	f := newFixture(t, domain.Decision{Kind: domain.Handled})

	f.submit("")

	if len(f.router.inputs) != 0 {
		t.Fatal("router called for empty input")
	}
	if len(f.hook.OriginalCalls()) != 1 {
		t.Fatal("empty input must reach the host")
	}
}

func TestUndecodableInputReportsAndForwards(t *testing.T) {
	f := newFixture(t, domain.Decision{Kind: domain.Handled})
	state := f.sim.Submit([]byte{'s', 's', ' ', 0xff})

	f.hook.Dispatch(state, 1, 2, 3)

	if len(f.router.inputs) != 0 {
		t.Fatal("router called for undecodable input")
	}
	if len(f.hook.OriginalCalls()) != 1 {
		t.Fatal("undecodable input must reach the host")
	}
	printed := f.sim.Printed()
	if len(printed) != 2 || !strings.Contains(printed[0], "not valid UTF-8") {
		t.Fatalf("printed %q", printed)
	}
}

func TestRouterPanicIsContained(t *testing.T) {
	f := newFixture(t, domain.Decision{})
	f.router.panicWith = "boom"

	f.submit("ss query select 1")

	if n := len(f.hook.OriginalCalls()); n != 0 {
		t.Fatalf("panicking command forwarded %d times", n)
	}
	if got := f.sim.Printed(); len(got) != 1 || !strings.Contains(got[0], "internal error: boom") {
		t.Fatalf("printed %q", got)
	}
}

func TestInstallOnlyOnce(t *testing.T) {
	f := newFixture(t, domain.Decision{})

	if !f.interceptor.Installed() {
		t.Fatal("expected installed interceptor")
	}
	if err := f.interceptor.Install(0x1402e75f0); !errors.Is(err, ErrAlreadyInstalled) {
		t.Fatalf("second Install = %v, want ErrAlreadyInstalled", err)
	}
}

func TestInstallFailureIsInitializationError(t *testing.T) {
	log := logger.NewWithWriter(false, io.Discard)
	sim := host.NewSimulatedConsole(nil)
	i := &Interceptor{
		Host:   sim,
		Hook:   failingHook{},
		Router: &stubRouter{},
		Output: console.NewChannel(sim, log, domain.DefaultPrintBufferSize),
		Logger: log,
	}

	err := i.Install(0x1402e75f0)
	if domain.KindOf(err) != domain.KindInitialization {
		t.Fatalf("expected initialization error, got %v", err)
	}
	if i.Installed() {
		t.Fatal("failed install reported as installed")
	}
}

func TestInstallRequiresDependencies(t *testing.T) {
	i := &Interceptor{}
	if err := i.Install(1); domain.KindOf(err) != domain.KindInitialization {
		t.Fatalf("expected initialization error, got %v", err)
	}
}

type stubRouter struct {
	decision  domain.Decision
	inputs    []string
	panicWith string
}

func (s *stubRouter) Route(_ context.Context, raw string) domain.Decision {
	s.inputs = append(s.inputs, raw)
	if s.panicWith != "" {
		panic(s.panicWith)
	}
	return s.decision
}

type failingHook struct{}

func (failingHook) Install(uintptr, ports.ConsoleInputFunc) error {
	return errors.New("target is not patchable")
}

func (failingHook) Enable() error { return nil }

func (failingHook) CallOriginal(uintptr, int64, int64, int64) {}

func TestUnknownDecisionIsNotForwarded(t *testing.T) {
	f := newFixture(t, domain.Decision{Kind: domain.DecisionKind(99), Output: "odd"})

	f.submit("ss query select 1")

	if n := len(f.hook.OriginalCalls()); n != 0 {
		t.Fatalf("unknown decision forwarded %d times", n)
	}
	if got := f.sim.Printed(); len(got) != 1 || got[0] != "odd" {
		t.Fatalf("printed %q", got)
	}
}

package host

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// SimulatedConsole is an in-memory host console. Input lines are registered
// with Submit and addressed by the returned state handle, the way the real
// host hands out a console state pointer.
type SimulatedConsole struct {
	mu      sync.Mutex
	out     io.Writer
	inputs  map[uintptr][]byte
	next    uintptr
	ready   bool
	printed [][]byte
}

// NewSimulatedConsole returns a ready console echoing printed lines to out (may be nil).
func NewSimulatedConsole(out io.Writer) *SimulatedConsole {
	return &SimulatedConsole{out: out, inputs: make(map[uintptr][]byte), next: 0x1000, ready: true}
}

// SetReady toggles whether ConsoleState reports a live console.
func (c *SimulatedConsole) SetReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = ready
}

// Submit stores raw input bytes and returns the state handle for them.
func (c *SimulatedConsole) Submit(input []byte) uintptr {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next += 0x10
	c.inputs[c.next] = append([]byte(nil), input...)
	return c.next
}

// Release forgets a submitted input.
func (c *SimulatedConsole) Release(state uintptr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inputs, state)
}

// ReadInput implements ports.HostConsole.
func (c *SimulatedConsole) ReadInput(state uintptr) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw := c.inputs[state]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

// ConsoleState implements ports.HostConsole.
func (c *SimulatedConsole) ConsoleState() uintptr {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return 0
	}
	return 1
}

// Print implements ports.HostConsole. Each call is recorded without its terminator.
func (c *SimulatedConsole) Print(console uintptr, cstr []byte) {
	if console == 0 || len(cstr) == 0 || cstr[len(cstr)-1] != 0 {
		return
	}
	line := append([]byte(nil), cstr[:len(cstr)-1]...)

	c.mu.Lock()
	c.printed = append(c.printed, line)
	out := c.out
	c.mu.Unlock()

	if out != nil {
		fmt.Fprintf(out, "%s\n", line)
	}
}

// Printed returns every chunk passed to Print so far.
func (c *SimulatedConsole) Printed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]string, len(c.printed))
	for i, l := range c.printed {
		lines[i] = string(l)
	}
	return lines
}

// Reset clears the printed record.
func (c *SimulatedConsole) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printed = nil
}

// OriginalCall records one call that reached the host's own handler.
type OriginalCall struct {
	State      uintptr
	A2, A3, A4 int64
}

// SimulatedHook stands in for a detour: Dispatch plays the host calling its
// console handler, and CallOriginal reaches the handler given to NewSimulatedHook.
type SimulatedHook struct {
	mu          sync.Mutex
	original    ports.ConsoleInputFunc
	replacement ports.ConsoleInputFunc
	enabled     bool
	calls       []OriginalCall
}

// NewSimulatedHook wraps original, which may be nil.
func NewSimulatedHook(original ports.ConsoleInputFunc) *SimulatedHook {
	return &SimulatedHook{original: original}
}

// Install implements ports.Hook.
func (h *SimulatedHook) Install(_ uintptr, replacement ports.ConsoleInputFunc) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.replacement != nil {
		return errors.New("detour already installed")
	}
	if replacement == nil {
		return errors.New("detour replacement is required")
	}
	h.replacement = replacement
	return nil
}

// Enable implements ports.Hook.
func (h *SimulatedHook) Enable() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.replacement == nil {
		return errors.New("detour not installed")
	}
	h.enabled = true
	return nil
}

// CallOriginal implements ports.Hook.
func (h *SimulatedHook) CallOriginal(state uintptr, a2, a3, a4 int64) {
	h.mu.Lock()
	h.calls = append(h.calls, OriginalCall{State: state, A2: a2, A3: a3, A4: a4})
	original := h.original
	h.mu.Unlock()

	if original != nil {
		original(state, a2, a3, a4)
	}
}

// Dispatch delivers one console call the way the host would.
func (h *SimulatedHook) Dispatch(state uintptr, a2, a3, a4 int64) {
	h.mu.Lock()
	target := h.original
	if h.enabled {
		target = h.replacement
	}
	h.mu.Unlock()

	if target != nil {
		target(state, a2, a3, a4)
	}
}

// OriginalCalls returns the calls forwarded to the original handler.
func (h *SimulatedHook) OriginalCalls() []OriginalCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]OriginalCall(nil), h.calls...)
}

var (
	_ ports.HostConsole = (*SimulatedConsole)(nil)
	_ ports.Hook        = (*SimulatedHook)(nil)
)

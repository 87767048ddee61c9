package host

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// maxPrologue bounds how far past the target the decoder may read.
const maxPrologue = 32

var procFlushInstructionCache = windows.NewLazySystemDLL("kernel32.dll").NewProc("FlushInstructionCache")

// Detour patches the first instructions of a function with a jump to a Go
// callback. The displaced instructions are copied to a trampoline that jumps
// back into the original, so the original stays callable.
type Detour struct {
	mu         sync.Mutex
	target     uintptr
	trampoline uintptr
	callback   uintptr
	patchLen   int
	enabled    bool
}

// NewDetour returns an uninstalled detour.
func NewDetour() (ports.Hook, error) {
	return &Detour{}, nil
}

// Install builds the trampoline for target. The target is not patched until Enable.
func (d *Detour) Install(target uintptr, replacement ports.ConsoleInputFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.target != 0 {
		return errors.New("detour already installed")
	}
	if target == 0 || replacement == nil {
		return errors.New("detour target and replacement are required")
	}

	code := unsafe.Slice((*byte)(unsafe.Pointer(target)), maxPrologue)
	n, err := prologueLength(code, jumpSize)
	if err != nil {
		return fmt.Errorf("analyze target %#x: %w", target, err)
	}

	tramp, err := windows.VirtualAlloc(0, uintptr(n+jumpSize),
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
	if err != nil {
		return fmt.Errorf("allocate trampoline: %w", err)
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(tramp)), n+jumpSize)
	copy(buf, code[:n])
	copy(buf[n:], absoluteJump(target+uintptr(n)))
	flushInstructionCache(tramp, uintptr(len(buf)))

	d.target = target
	d.trampoline = tramp
	d.patchLen = n
	d.callback = windows.NewCallback(func(state, a2, a3, a4 uintptr) uintptr {
		replacement(state, int64(a2), int64(a3), int64(a4))
		return 0
	})
	return nil
}

// Enable writes the jump to the callback over the target prologue.
func (d *Detour) Enable() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.target == 0 {
		return errors.New("detour not installed")
	}
	if d.enabled {
		return nil
	}

	var old uint32
	if err := windows.VirtualProtect(d.target, uintptr(d.patchLen), windows.PAGE_EXECUTE_READWRITE, &old); err != nil {
		return fmt.Errorf("unprotect target: %w", err)
	}
	patch := unsafe.Slice((*byte)(unsafe.Pointer(d.target)), d.patchLen)
	copy(patch, absoluteJump(d.callback))
	for i := jumpSize; i < d.patchLen; i++ {
		patch[i] = 0xCC
	}
	if err := windows.VirtualProtect(d.target, uintptr(d.patchLen), old, &old); err != nil {
		return fmt.Errorf("reprotect target: %w", err)
	}
	flushInstructionCache(d.target, uintptr(d.patchLen))

	d.enabled = true
	return nil
}

// CallOriginal runs the displaced prologue and continues into the original function.
func (d *Detour) CallOriginal(state uintptr, a2, a3, a4 int64) {
	if d.trampoline == 0 {
		return
	}
	_, _, _ = syscall.SyscallN(d.trampoline, state, uintptr(a2), uintptr(a3), uintptr(a4))
}

func flushInstructionCache(addr, size uintptr) {
	_, _, _ = procFlushInstructionCache.Call(uintptr(windows.CurrentProcess()), addr, size)
}

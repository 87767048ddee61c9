package host

import (
	"errors"
	"runtime"
	"runtime/debug"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// printFormat keeps user text out of the format string.
var printFormat = []byte("%s\x00")

// ImageBase returns the load address of the host executable.
func ImageBase() (uintptr, error) {
	var module windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &module); err != nil {
		return 0, err
	}
	return uintptr(module), nil
}

// processConsole reads and calls into the live host process.
type processConsole struct {
	contextAddr uintptr
	printFn     uintptr
	inputOffset uintptr
}

// NewProcessConsole resolves the console globals relative to the image base.
func NewProcessConsole(base uintptr, settings domain.HostSettings) (ports.HostConsole, error) {
	if base == 0 {
		return nil, errors.New("image base is zero")
	}
	return &processConsole{
		contextAddr: base + uintptr(settings.ConsoleContextOffset),
		printFn:     base + uintptr(settings.PrintOffset),
		inputOffset: uintptr(settings.InputTextOffset),
	}, nil
}

func (c *processConsole) ReadInput(state uintptr) (text []byte) {
	if state == 0 {
		return nil
	}
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer func() {
		if recover() != nil {
			text = nil
		}
	}()

	p := *(*uintptr)(unsafe.Pointer(state + c.inputOffset))
	if p == 0 {
		return nil
	}
	return []byte(windows.BytePtrToString((*byte)(unsafe.Pointer(p))))
}

func (c *processConsole) ConsoleState() uintptr {
	return *(*uintptr)(unsafe.Pointer(c.contextAddr))
}

func (c *processConsole) Print(console uintptr, cstr []byte) {
	if console == 0 || len(cstr) == 0 || cstr[len(cstr)-1] != 0 {
		return
	}
	_, _, _ = syscall.SyscallN(c.printFn,
		console,
		uintptr(unsafe.Pointer(&printFormat[0])),
		uintptr(unsafe.Pointer(&cstr[0])),
	)
	runtime.KeepAlive(cstr)
}

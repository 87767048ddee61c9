package logger

import (
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var procOutputDebugStringW = windows.NewLazySystemDLL("kernel32.dll").NewProc("OutputDebugStringW")

// debugOutput mirrors log lines to an attached debugger (DebugView, VS).
type debugOutput struct{}

func (debugOutput) Write(p []byte) (int, error) {
	msg, err := windows.UTF16PtrFromString(strings.ReplaceAll(string(p), "\x00", ""))
	if err != nil {
		return len(p), nil
	}
	_, _, _ = procOutputDebugStringW.Call(uintptr(unsafe.Pointer(msg)))
	return len(p), nil
}

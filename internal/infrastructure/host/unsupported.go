//go:build !windows || !amd64

package host

import (
	"errors"

	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// ErrUnsupported is returned by the process adapters outside windows/amd64.
var ErrUnsupported = errors.New("host process hooking requires windows/amd64")

// ImageBase is only available on windows/amd64.
func ImageBase() (uintptr, error) {
	return 0, ErrUnsupported
}

// NewProcessConsole is only available on windows/amd64.
func NewProcessConsole(uintptr, domain.HostSettings) (ports.HostConsole, error) {
	return nil, ErrUnsupported
}

// NewDetour is only available on windows/amd64.
func NewDetour() (ports.Hook, error) {
	return nil, ErrUnsupported
}

// Package ports defines the interfaces between the console pipeline and its adapters.
//
// The application core (interceptor, router, query executor, output channel)
// depends only on these interfaces. Everything that touches host memory, the
// SQLite driver or the filesystem lives behind them in the infrastructure
// layer, so the core can be exercised in tests against stubs and the
// simulated host.
package ports

import (
	"context"

	"github.com/doeshing/skyrim-search-se/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read skyrim_search_se.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ConsoleInputFunc matches the host's console input handler: an opaque
// console state pointer plus three arguments passed through verbatim.
type ConsoleInputFunc func(state uintptr, a2, a3, a4 int64)

// Hook detours a host entry point to a replacement while keeping the
// original callable.
type Hook interface {
	Install(target uintptr, replacement ConsoleInputFunc) error
	Enable() error
	CallOriginal(state uintptr, a2, a3, a4 int64)
}

// HostConsole is the only code allowed to touch host memory.
type HostConsole interface {
	// ReadInput returns the NUL-terminated input text referenced by a console
	// state, without the terminator. The bytes may not be valid UTF-8.
	ReadInput(state uintptr) []byte
	// ConsoleState returns the live console pointer, or 0 while the host has
	// not created its console yet.
	ConsoleState() uintptr
	// Print calls the host print routine with the fixed "%s" format.
	// cstr must be NUL-terminated.
	Print(console uintptr, cstr []byte)
}

// Printer writes text to the host console. It never fails from the caller's
// point of view.
type Printer interface {
	Print(text string)
}

// CommandRouter decides whether console input belongs to us and handles it if so.
type CommandRouter interface {
	Route(ctx context.Context, raw string) domain.Decision
}

// QueryExecutor runs literal SQL and returns the rendered result table.
type QueryExecutor interface {
	Run(ctx context.Context, sql string, intAsDecimal bool) (string, error)
}

// Store guards the single shared embedded database connection.
type Store interface {
	// Exclusive runs fn while holding the connection lock.
	Exclusive(ctx context.Context, fn func(Preparer) error) error
}

// Preparer compiles SQL on the locked connection.
type Preparer interface {
	Prepare(ctx context.Context, query string) (Statement, error)
}

// Statement is a prepared statement with no bound parameters.
type Statement interface {
	Query(ctx context.Context) (Cursor, error)
	Close() error
}

// Cursor walks a statement's result rows.
type Cursor interface {
	Columns() ([]string, error)
	Next() bool
	Values() ([]domain.Value, error)
	Err() error
	Close() error
}

// Logger provides structured logging abstraction for the application layer.
// It is also the side channel for failures that must not reach the host.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}

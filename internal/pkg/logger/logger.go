package logger

import (
	"io"
	"log"
	"os"

	"github.com/doeshing/skyrim-search-se/internal/domain"
)

// StdLogger is a lightweight implementation backed by Go's log package.
// Debug and Info are verbose-only; Warn and Error are always written because
// they are the only trace of failures swallowed on the console path.
type StdLogger struct {
	verbose bool
	log     *log.Logger
}

// NewStd creates a StdLogger writing to stderr and, on Windows, to the debugger.
func NewStd(verbose bool) *StdLogger {
	return NewWithWriter(verbose, io.MultiWriter(os.Stderr, debugOutput{}))
}

// NewWithWriter creates a StdLogger writing to w.
func NewWithWriter(verbose bool, w io.Writer) *StdLogger {
	return &StdLogger{verbose: verbose, log: log.New(w, domain.ProgramName+" ", log.LstdFlags)}
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.log.Println("[DEBUG]", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.log.Println("[INFO]", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Println("[WARN]", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.log.Println("[ERROR]", msg, err, fields)
}

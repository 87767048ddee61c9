package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lib "modernc.org/sqlite/lib"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// ErrMultipleStatements is returned when a console query holds more than one statement.
var ErrMultipleStatements = errors.New("multiple statements provided")

// ErrEmptyStatement is returned for SQL made only of blanks and semicolons.
var ErrEmptyStatement = errors.New("empty statement")

// SQLiteStore owns the process-wide database connection.
type SQLiteStore struct {
	conn *sqlite.Conn
	path string
	mu   sync.Mutex
}

// Open creates (or recreates) the search database described by settings and
// keeps a single connection for the life of the store.
func Open(ctx context.Context, settings domain.DatabaseSettings) (*SQLiteStore, error) {
	path := settings.Path
	if !settings.Debug {
		// An empty name gives the connection its own private temporary database.
		path = ""
	} else if path == "" {
		path = domain.DefaultDatabasePath
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("open error: %w", err)
	}

	store := &SQLiteStore{conn: conn, path: path}
	if err := store.init(ctx, settings.Pragmas); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init_schema error: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init(ctx context.Context, pragmas []string) error {
	if len(pragmas) == 0 {
		pragmas = defaultPragmas
	}
	return s.locked(ctx, func() error {
		// Pragmas such as synchronous refuse to change inside the savepoint
		// ExecuteScript opens, so they run one by one first.
		for _, pragma := range pragmas {
			query := "PRAGMA " + strings.TrimSuffix(strings.TrimSpace(pragma), ";")
			if err := sqlitex.ExecuteTransient(s.conn, query, nil); err != nil {
				return fmt.Errorf("%s: %w", query, err)
			}
		}
		return sqlitex.ExecuteScript(s.conn, npcSchema, nil)
	})
}

// locked runs fn holding the connection lock, with ctx able to interrupt it.
func (s *SQLiteStore) locked(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return errors.New("store closed")
	}
	var done <-chan struct{}
	if ctx != nil {
		done = ctx.Done()
	}
	old := s.conn.SetInterrupt(done)
	defer s.conn.SetInterrupt(old)
	return fn()
}

// ExecScript runs a batch of statements under the connection lock.
func (s *SQLiteStore) ExecScript(ctx context.Context, script string) error {
	return s.locked(ctx, func() error {
		return sqlitex.ExecuteScript(s.conn, script, nil)
	})
}

// Exclusive implements ports.Store.
func (s *SQLiteStore) Exclusive(ctx context.Context, fn func(ports.Preparer) error) error {
	return s.locked(ctx, func() error {
		return fn(connPreparer{conn: s.conn})
	})
}

// Path returns the database file, or "" for a temporary database.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Driver names the SQLite binding and engine version.
func (s *SQLiteStore) Driver() string {
	return "zombiezen.com/go/sqlite (SQLite " + lib.SQLITE_VERSION + ")"
}

// Close releases the connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

type connPreparer struct {
	conn *sqlite.Conn
}

func (p connPreparer) Prepare(_ context.Context, query string) (ports.Statement, error) {
	if blankSQL(query) {
		return nil, ErrEmptyStatement
	}
	stmt, trailing, err := p.conn.PrepareTransient(query)
	if err != nil {
		return nil, err
	}
	if trailing > 0 && trailing <= len(query) && !blankSQL(query[len(query)-trailing:]) {
		_ = stmt.Finalize()
		return nil, ErrMultipleStatements
	}
	return &statement{stmt: stmt}, nil
}

func blankSQL(s string) bool {
	return strings.Trim(s, " \t\r\n;") == ""
}

type statement struct {
	stmt *sqlite.Stmt
}

// Query steps to the first row so execution errors surface here rather
// than while iterating.
func (s *statement) Query(context.Context) (ports.Cursor, error) {
	hasRow, err := s.stmt.Step()
	if err != nil {
		return nil, err
	}
	return &cursor{stmt: s.stmt, hasRow: hasRow}, nil
}

func (s *statement) Close() error {
	return s.stmt.Finalize()
}

// cursor reads each cell by its storage class. Declared column types never
// change what is returned, so a DATETIME column holding text yields that text.
type cursor struct {
	stmt    *sqlite.Stmt
	started bool
	hasRow  bool
	err     error
}

func (c *cursor) Columns() ([]string, error) {
	names := make([]string, c.stmt.ColumnCount())
	for i := range names {
		names[i] = c.stmt.ColumnName(i)
	}
	return names, nil
}

func (c *cursor) Next() bool {
	if !c.started {
		c.started = true
		return c.hasRow
	}
	if !c.hasRow {
		return false
	}
	c.hasRow, c.err = c.stmt.Step()
	return c.hasRow && c.err == nil
}

func (c *cursor) Values() ([]domain.Value, error) {
	values := make([]domain.Value, c.stmt.ColumnCount())
	for i := range values {
		switch c.stmt.ColumnType(i) {
		case sqlite.TypeInteger:
			values[i] = domain.IntegerValue(c.stmt.ColumnInt64(i))
		case sqlite.TypeFloat:
			values[i] = domain.RealValue(c.stmt.ColumnFloat(i))
		case sqlite.TypeText:
			values[i] = domain.TextValueString(c.stmt.ColumnText(i))
		case sqlite.TypeBlob:
			blob := make([]byte, c.stmt.ColumnLen(i))
			c.stmt.ColumnBytes(i, blob)
			values[i] = domain.BlobValue(blob)
		default:
			values[i] = domain.NullValue()
		}
	}
	return values, nil
}

func (c *cursor) Err() error {
	return c.err
}

func (c *cursor) Close() error {
	return nil
}

var _ ports.Store = (*SQLiteStore)(nil)

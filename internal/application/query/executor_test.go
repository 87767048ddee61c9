package query

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/infrastructure/store"
	"github.com/doeshing/skyrim-search-se/internal/pkg/logger"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

func newTestExecutor(t *testing.T) (*Executor, *store.SQLiteStore) {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(ctx, domain.DatabaseSettings{
		Path:  filepath.Join(t.TempDir(), "search.db"),
		Debug: true,
	})
	if err != nil {
		t.Fatalf("store.Open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewExecutor(db, logger.NewStd(false)), db
}

func TestExecuteSelectLiteral(t *testing.T) {
	exec, _ := newTestExecutor(t)

	table, err := exec.Execute(context.Background(), "select 255 as v", false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if got := table.Render(); got != "v\n0xff\n" {
		t.Fatalf("Render() = %q", got)
	}

	table, err = exec.Execute(context.Background(), "select 255 as v", true)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if got := table.Render(); got != "v\n255\n" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestExecuteRendersEveryStorageClass(t *testing.T) {
	exec, _ := newTestExecutor(t)

	table, err := exec.Execute(context.Background(),
		"select -1 as i, 1.5 as r, 'Lydia' as t, x'0102' as b, null as n", false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(table.Rows))
	}
	want := []string{"0xffffffffffffffff", "1.5", "Lydia", "<2-byte blob>", "<null>"}
	if strings.Join(table.Rows[0], "|") != strings.Join(want, "|") {
		t.Fatalf("row = %q, want %q", table.Rows[0], want)
	}
	if strings.Join(table.Header, ",") != "i,r,t,b,n" {
		t.Fatalf("header = %q", table.Header)
	}
}

func TestExecuteShowsStoredTextForDateColumns(t *testing.T) {
	exec, db := newTestExecutor(t)
	if err := db.ExecScript(context.Background(), `
create table ev (d datetime, b boolean);
insert into ev values ('2020-01-01', 2);
`); err != nil {
		t.Fatalf("seed error: %v", err)
	}

	table, err := exec.Execute(context.Background(), "select d, typeof(d), b from ev", false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if got := table.Render(); got != "d          typeof(d) b\n2020-01-01 text      0x2\n" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestExecuteRejectsMultipleStatements(t *testing.T) {
	exec, _ := newTestExecutor(t)

	_, err := exec.Execute(context.Background(), "select 1; drop table npc", false)
	if domain.KindOf(err) != domain.KindQueryPrepare {
		t.Fatalf("expected prepare error, got %v", err)
	}
	if err.Error() != "prepare error: multiple statements provided" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if _, err := exec.Execute(context.Background(), "select count(*) from npc", false); err != nil {
		t.Fatalf("npc table should survive: %v", err)
	}
}

func TestExecuteInfinity(t *testing.T) {
	exec, _ := newTestExecutor(t)

	table, err := exec.Execute(context.Background(), "select 1e999 as hi, -1e999 as lo", false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if got := table.Render(); got != "hi  lo\ninf -inf\n" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestRunRendersResult(t *testing.T) {
	exec, _ := newTestExecutor(t)

	out, err := exec.Run(context.Background(), "select 255 as v, 'Lydia' as name", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out != "v    name\n0xff Lydia\n" {
		t.Fatalf("Run() = %q", out)
	}
}

func TestRunReleasesStoreOnce(t *testing.T) {
	cursor := &stubCursor{
		columns: []string{"id"},
		rows:    [][]domain.Value{{domain.IntegerValue(1)}},
	}
	store := &lockTrackingStore{stubStore: stubStore{stmt: &stubStatement{cursor: cursor}}}
	exec := NewExecutor(store, logger.NewStd(false))

	out, err := exec.Run(context.Background(), "select id from npc", true)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out != "id\n1\n" {
		t.Fatalf("Run() = %q", out)
	}
	if store.releases != 1 || !cursor.closed {
		t.Fatalf("releases=%d closed=%v", store.releases, cursor.closed)
	}
}

func TestRunFailureHasNoOutput(t *testing.T) {
	exec := NewExecutor(stubStore{prepareErr: errors.New("no such table: dragons")}, logger.NewStd(false))

	out, err := exec.Run(context.Background(), "select * from dragons", false)
	if err == nil || out != "" {
		t.Fatalf("Run() = %q, %v", out, err)
	}
}

func TestExecuteZeroRowsKeepsHeader(t *testing.T) {
	exec, _ := newTestExecutor(t)

	table, err := exec.Execute(context.Background(), "select id, edid, name from npc", false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(table.Rows))
	}
	if got := table.Render(); got != "id edid name\n" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestExecuteStatementWithoutColumnsIsNoData(t *testing.T) {
	exec, _ := newTestExecutor(t)

	_, err := exec.Execute(context.Background(), "create table scratch (a)", false)
	if domain.KindOf(err) != domain.KindNoData {
		t.Fatalf("expected no data error, got %v", err)
	}
	if err.Error() != "no data" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestExecuteMalformedSQL(t *testing.T) {
	exec, _ := newTestExecutor(t)

	_, err := exec.Execute(context.Background(), "select from", false)
	if err == nil {
		t.Fatal("expected error for malformed SQL")
	}
	if kind := domain.KindOf(err); kind != domain.KindQueryPrepare {
		t.Fatalf("unexpected kind %q: %v", kind, err)
	}
	if !strings.HasPrefix(err.Error(), "prepare error: ") {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !strings.Contains(err.Error(), "syntax error") {
		t.Fatalf("expected driver message, got %q", err.Error())
	}
}

func TestExecuteEmptyStatement(t *testing.T) {
	exec, _ := newTestExecutor(t)

	_, err := exec.Execute(context.Background(), "   ", false)
	if domain.KindOf(err) != domain.KindQueryPrepare {
		t.Fatalf("expected prepare error, got %v", err)
	}
}

func TestExecuteIsRepeatable(t *testing.T) {
	exec, db := newTestExecutor(t)
	if err := db.ExecScript(context.Background(),
		"insert into npc (id, edid, name) values (0x13bb8, 'HousecarlWhiterun', 'Lydia')"); err != nil {
		t.Fatalf("seed error: %v", err)
	}

	first, err := exec.Execute(context.Background(), "select * from npc", false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	second, err := exec.Execute(context.Background(), "select * from npc", false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if first.Render() != second.Render() {
		t.Fatalf("results differ:\n%s\n%s", first.Render(), second.Render())
	}
	if !strings.Contains(first.Render(), "0x13bb8") {
		t.Fatalf("unexpected table %q", first.Render())
	}
}

func TestExecuteIterationErrorDiscardsTable(t *testing.T) {
	cause := errors.New("disk I/O error")
	cursor := &stubCursor{
		columns: []string{"id"},
		rows:    [][]domain.Value{{domain.IntegerValue(1)}},
		err:     cause,
	}
	exec := NewExecutor(stubStore{stmt: &stubStatement{cursor: cursor}}, logger.NewStd(false))

	table, err := exec.Execute(context.Background(), "select id from npc", false)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if domain.KindOf(err) != domain.KindQueryIter {
		t.Fatalf("expected iteration error, got %q", domain.KindOf(err))
	}
	if len(table.Rows) != 0 || len(table.Header) != 0 {
		t.Fatalf("partial table leaked: %+v", table)
	}
	if !cursor.closed {
		t.Fatal("cursor not closed")
	}
}

func TestExecuteWithoutColumnNamesHasNoHeader(t *testing.T) {
	cursor := &stubCursor{
		columns: []string{""},
		rows:    [][]domain.Value{{domain.TextValueString("x")}},
	}
	exec := NewExecutor(stubStore{stmt: &stubStatement{cursor: cursor}}, logger.NewStd(false))

	table, err := exec.Execute(context.Background(), "select 'x'", false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if table.Header != nil {
		t.Fatalf("expected no header, got %q", table.Header)
	}
	if table.Render() != "x\n" {
		t.Fatalf("Render() = %q", table.Render())
	}
}

func TestExecutePrepareErrorIsReported(t *testing.T) {
	exec := NewExecutor(stubStore{prepareErr: errors.New("no such table: dragons")}, logger.NewStd(false))

	_, err := exec.Execute(context.Background(), "select * from dragons", false)
	if domain.KindOf(err) != domain.KindQueryPrepare {
		t.Fatalf("expected prepare error, got %v", err)
	}
	if err.Error() != "prepare error: no such table: dragons" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

type stubStore struct {
	stmt       *stubStatement
	prepareErr error
}

func (s stubStore) Exclusive(_ context.Context, fn func(ports.Preparer) error) error {
	return fn(s)
}

func (s stubStore) Prepare(context.Context, string) (ports.Statement, error) {
	if s.prepareErr != nil {
		return nil, s.prepareErr
	}
	return s.stmt, nil
}

type lockTrackingStore struct {
	stubStore
	releases int
}

func (s *lockTrackingStore) Exclusive(ctx context.Context, fn func(ports.Preparer) error) error {
	defer func() { s.releases++ }()
	return s.stubStore.Exclusive(ctx, fn)
}

type stubStatement struct {
	cursor *stubCursor
}

func (s *stubStatement) Query(context.Context) (ports.Cursor, error) { return s.cursor, nil }
func (s *stubStatement) Close() error                                { return nil }

type stubCursor struct {
	columns []string
	rows    [][]domain.Value
	err     error
	pos     int
	closed  bool
}

func (c *stubCursor) Columns() ([]string, error) { return c.columns, nil }

func (c *stubCursor) Next() bool {
	if c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *stubCursor) Values() ([]domain.Value, error) { return c.rows[c.pos-1], nil }
func (c *stubCursor) Err() error                      { return c.err }
func (c *stubCursor) Close() error {
	c.closed = true
	return nil
}

package query

import (
	"context"
	"errors"
	"strings"

	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// Executor runs console SQL against the shared store.
type Executor struct {
	Store  ports.Store
	Logger ports.Logger
}

// NewExecutor builds an Executor over store.
func NewExecutor(store ports.Store, logger ports.Logger) *Executor {
	return &Executor{Store: store, Logger: logger}
}

// Execute runs sql and returns the collected table. The store lock is held
// until the cursor is drained; a failure at any step discards the partial table.
func (e *Executor) Execute(ctx context.Context, sql string, intAsDecimal bool) (domain.ResultTable, error) {
	return e.execute(ctx, sql, intAsDecimal, nil)
}

// Run implements ports.QueryExecutor. The table is rendered before the store
// lock is released.
func (e *Executor) Run(ctx context.Context, sql string, intAsDecimal bool) (string, error) {
	var out string
	_, err := e.execute(ctx, sql, intAsDecimal, func(table domain.ResultTable) {
		out = table.Render()
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (e *Executor) execute(ctx context.Context, sql string, intAsDecimal bool, render func(domain.ResultTable)) (domain.ResultTable, error) {
	if e.Store == nil || e.Logger == nil {
		return domain.ResultTable{}, errors.New("query.Executor dependencies not satisfied")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(sql) == "" {
		return domain.ResultTable{}, domain.New(domain.KindQueryPrepare, "prepare error: empty statement")
	}

	var table domain.ResultTable
	err := e.Store.Exclusive(ctx, func(p ports.Preparer) error {
		stmt, err := p.Prepare(ctx, sql)
		if err != nil {
			return domain.Wrap(domain.KindQueryPrepare, "prepare error", err)
		}
		defer stmt.Close()

		cursor, err := stmt.Query(ctx)
		if err != nil {
			return domain.Wrap(domain.KindQueryExec, "query error", err)
		}
		defer cursor.Close()

		t, err := collect(cursor, intAsDecimal)
		if err != nil {
			return err
		}
		if render != nil {
			render(t)
		}
		table = t
		return nil
	})
	if err != nil {
		e.Logger.Debug("query failed", map[string]interface{}{"sql": sql, "error": err.Error()})
		return domain.ResultTable{}, err
	}

	e.Logger.Debug("query complete", map[string]interface{}{"sql": sql, "rows": len(table.Rows)})
	return table, nil
}

func collect(cursor ports.Cursor, intAsDecimal bool) (domain.ResultTable, error) {
	columns, err := cursor.Columns()
	if err != nil {
		return domain.ResultTable{}, domain.Wrap(domain.KindQueryExec, "query error", err)
	}
	if len(columns) == 0 {
		return domain.ResultTable{}, domain.New(domain.KindNoData, "no data")
	}

	table := domain.ResultTable{Header: header(columns)}
	for cursor.Next() {
		values, err := cursor.Values()
		if err != nil {
			return domain.ResultTable{}, domain.Wrap(domain.KindQueryIter, "rows.next() error", err)
		}
		cells := make([]string, len(columns))
		for i := range cells {
			if i < len(values) {
				cells[i] = values[i].Render(intAsDecimal)
			} else {
				cells[i] = domain.NullPlaceholder
			}
		}
		table.AddRow(cells)
	}
	if err := cursor.Err(); err != nil {
		return domain.ResultTable{}, domain.Wrap(domain.KindQueryIter, "rows.next() error", err)
	}
	return table, nil
}

// header keeps column names only when the store supplied at least one.
func header(columns []string) []string {
	for _, name := range columns {
		if name != "" {
			return columns
		}
	}
	return nil
}

var _ ports.QueryExecutor = (*Executor)(nil)

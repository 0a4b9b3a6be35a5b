// Package memengine is an in-memory implementation of the engine
// contract. It backs the demo binary and the test suite; rows live in
// plain slices guarded by one RWMutex, so every statement is atomic.
package memengine

import (
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/leengari/dataset/engine"
)

type Engine struct {
	mu     sync.RWMutex
	tables map[string]*table
	logger *slog.Logger
}

// New creates an empty engine with no tables
func New() *Engine {
	return &Engine{
		tables: make(map[string]*table),
		logger: slog.Default(),
	}
}

// SetLogger replaces the engine's logger
func (e *Engine) SetLogger(logger *slog.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// Execute runs a mutating statement under the engine's write lock
func (e *Engine) Execute(stmt engine.Statement) (engine.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch s := stmt.(type) {
	case *engine.CreateTableStatement:
		if _, ok := e.tables[s.Table]; ok {
			return engine.Result{}, fmt.Errorf("table already exists: %s", s.Table)
		}
		e.tables[s.Table] = newTable(s.Table)
		e.logger.Debug("table created", "table", s.Table)
		return engine.Result{}, nil

	case *engine.AddColumnStatement:
		t, err := e.lookup(s.Table)
		if err != nil {
			return engine.Result{}, err
		}
		return engine.Result{}, t.addColumn(s.Column)

	case *engine.CreateIndexStatement:
		t, err := e.lookup(s.Table)
		if err != nil {
			return engine.Result{}, err
		}
		return engine.Result{}, t.createIndex(s.Name, s.Columns)

	case *engine.DropTableStatement:
		if _, ok := e.tables[s.Table]; !ok {
			return engine.Result{}, &engine.TableNotFoundError{Table: s.Table}
		}
		delete(e.tables, s.Table)
		e.logger.Debug("table dropped", "table", s.Table)
		return engine.Result{}, nil

	case *engine.InsertStatement:
		t, err := e.lookup(s.Table)
		if err != nil {
			return engine.Result{}, err
		}
		if err := t.insert(s.Row); err != nil {
			return engine.Result{}, err
		}
		return engine.Result{RowsAffected: 1}, nil

	case *engine.UpdateStatement:
		t, err := e.lookup(s.Table)
		if err != nil {
			return engine.Result{}, err
		}
		n, err := t.update(s.Where, s.Set)
		return engine.Result{RowsAffected: n}, err

	case *engine.DeleteStatement:
		t, err := e.lookup(s.Table)
		if err != nil {
			return engine.Result{}, err
		}
		return engine.Result{RowsAffected: t.delete(s.Where)}, nil

	default:
		return engine.Result{}, fmt.Errorf("unsupported statement type: %T", stmt)
	}
}

// Query runs a read statement. Each page is evaluated under the read
// lock and streamed to the caller outside of it.
func (e *Engine) Query(stmt engine.Statement) iter.Seq2[engine.Row, error] {
	return func(yield func(engine.Row, error) bool) {
		switch s := stmt.(type) {
		case *engine.SelectStatement:
			rows, err := e.evalSelect(s)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, row := range rows {
				if !yield(row, nil) {
					return
				}
			}

		case *engine.CountStatement:
			n, err := e.evalCount(s)
			if err != nil {
				yield(nil, err)
				return
			}
			yield(engine.Row{"count": n}, nil)

		default:
			yield(nil, fmt.Errorf("unsupported statement type: %T", stmt))
		}
	}
}

// Columns reports the table's current column set
func (e *Engine) Columns(name string) (map[string]engine.ColumnType, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	cols := make(map[string]engine.ColumnType, len(t.columns))
	for _, col := range t.columns {
		cols[col.Name] = col.Type
	}
	return cols, nil
}

// HasTable reports whether the table exists
func (e *Engine) HasTable(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.tables[name]
	return ok
}

// lookup must be called while holding the lock
func (e *Engine) lookup(name string) (*table, error) {
	t, ok := e.tables[name]
	if !ok {
		return nil, &engine.TableNotFoundError{Table: name}
	}
	return t, nil
}

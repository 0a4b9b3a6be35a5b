package dataset

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/leengari/dataset/engine"
)

// Index describes one successfully created index
type Index struct {
	Name    string
	Columns []string
}

// Columns reports the table's live column names, sorted. The set is
// never cached: schema changes made through other handles must be
// visible immediately.
func (t *Table) Columns() ([]string, error) {
	cols, err := t.columnTypes()
	if err != nil {
		return nil, err
	}
	return sortedKeys(cols), nil
}

// HasColumn reports whether the live schema contains name
func (t *Table) HasColumn(name string) (bool, error) {
	cols, err := t.columnTypes()
	if err != nil {
		return false, err
	}
	_, ok := cols[name]
	return ok, nil
}

func (t *Table) columnTypes() (map[string]engine.ColumnType, error) {
	cols, err := t.db.engine.Columns(t.name)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", t.name, err)
	}
	return cols, nil
}

// ensureColumns materializes a column for every key of rec the live
// schema is missing. Types come from the explicit map when given, else
// from the resolver applied to the record's value. The column set is
// re-read here so a column another handle just added is not recreated.
func (t *Table) ensureColumns(rec Record, types map[string]engine.ColumnType) error {
	cols, err := t.columnTypes()
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(rec) {
		if _, ok := cols[name]; ok {
			continue
		}
		typ, ok := types[name]
		if !ok {
			typ = t.db.resolver(rec[name])
		}
		if err := t.CreateColumn(name, typ); err != nil {
			return err
		}
	}
	return nil
}

// CreateColumn adds a column under the database schema lock. The live
// column set is re-checked while holding it, so losing a creation race
// to a concurrent caller is a silent no-op.
func (t *Table) CreateColumn(name string, typ engine.ColumnType) error {
	d := t.db
	d.schemaMu.Lock()
	defer d.schemaMu.Unlock()

	cols, err := t.columnTypes()
	if err != nil {
		return err
	}
	if _, ok := cols[name]; ok {
		return nil
	}

	d.logger.Debug("creating column", "table", t.name, "column", name, "type", typ)
	stmt := &engine.AddColumnStatement{Table: t.name, Column: engine.Column{Name: name, Type: typ}}
	if _, err := d.engine.Execute(stmt); err != nil {
		return fmt.Errorf("create column %s.%s: %w", t.name, name, err)
	}
	ColumnsCreated.WithLabelValues(t.name).Inc()
	return nil
}

// CreateIndex creates an index over columns under the schema lock. An
// empty name derives a deterministic one from the column list, so
// repeated calls for the same columns are idempotent no-ops.
//
// Outcomes are cached per handle: a cached entry, even a nil one left
// by a failed attempt, short-circuits without touching the engine. A
// column missing from the live schema is an UnknownColumnError and is
// not cached. Engine-level failures are swallowed and cached as nil
// so they are not retried: an index is a performance hint, not a
// correctness requirement.
func (t *Table) CreateIndex(name string, columns ...string) (*Index, error) {
	if len(columns) == 0 {
		return nil, nil
	}

	d := t.db
	d.schemaMu.Lock()
	defer d.schemaMu.Unlock()

	if name == "" {
		sig := xxhash.Sum64String(strings.Join(columns, "||"))
		name = fmt.Sprintf("ix_%s_%d", t.name, sig)
	}
	if idx, ok := t.indexes[name]; ok {
		return idx, nil
	}

	cols, err := t.columnTypes()
	if err != nil {
		return nil, err
	}
	for _, c := range columns {
		if _, ok := cols[c]; !ok {
			return nil, &UnknownColumnError{Table: t.name, Column: c}
		}
	}

	stmt := &engine.CreateIndexStatement{Table: t.name, Name: name, Columns: columns}
	if _, err := d.engine.Execute(stmt); err != nil {
		d.logger.Debug("index creation failed", "table", t.name, "index", name, "error", err)
		IndexCreations.WithLabelValues(t.name, "failed").Inc()
		t.indexes[name] = nil
		return nil, nil
	}

	idx := &Index{Name: name, Columns: append([]string(nil), columns...)}
	t.indexes[name] = idx
	IndexCreations.WithLabelValues(t.name, "created").Inc()
	d.logger.Debug("index created", "table", t.name, "index", name, "columns", columns)
	return idx, nil
}

// Drop removes the table from the registry and the engine. The handle
// must not be used again; re-creating the table needs a fresh handle
// from the Database.
func (t *Table) Drop() error {
	d := t.db
	d.schemaMu.Lock()
	defer d.schemaMu.Unlock()

	d.forget(t.name)
	if _, err := d.engine.Execute(&engine.DropTableStatement{Table: t.name}); err != nil {
		return fmt.Errorf("drop table %s: %w", t.name, err)
	}
	d.logger.Debug("table dropped", "table", t.name)
	return nil
}

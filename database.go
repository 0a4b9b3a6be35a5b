// Package dataset is a dynamic-schema table layer: it reads and writes
// loosely-typed records against tables whose column set is not fixed in
// advance, creating columns and indexes on demand as new fields appear.
// The actual storage sits behind the engine contract.
package dataset

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/leengari/dataset/engine"
)

// Record is one logical row: column name -> value
type Record = engine.Row

// Filter selects rows by exact column/value matches
type Filter map[string]any

// Database owns the table handles of one engine and the schema lock
// that serializes every DDL operation across them. At most one schema
// mutation proceeds at a time, process-wide.
type Database struct {
	engine   engine.Engine
	resolver TypeResolver
	logger   *slog.Logger

	schemaMu sync.Mutex
	tables   *xsync.MapOf[string, *Table]
}

// New creates a Database on top of an engine
func New(eng engine.Engine) *Database {
	return &Database{
		engine:   eng,
		resolver: GuessType,
		logger:   slog.Default(),
		tables:   xsync.NewMapOf[string, *Table](),
	}
}

// SetLogger replaces the database's logger
func (d *Database) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// SetTypeResolver replaces the column type resolver used when a new
// column's type is not given explicitly
func (d *Database) SetTypeResolver(resolver TypeResolver) {
	if resolver != nil {
		d.resolver = resolver
	}
}

// Table returns the handle for name, creating the table on first
// access. A fresh table has a single auto-increment "id" column, which
// is also the default sort key for Find.
func (d *Database) Table(name string) (*Table, error) {
	if t, ok := d.tables.Load(name); ok {
		return t, nil
	}
	if err := d.ensureTable(name); err != nil {
		return nil, err
	}
	t, _ := d.tables.LoadOrStore(name, newTable(d, name))
	return t, nil
}

// TableNames lists the handles created through this Database, sorted
func (d *Database) TableNames() []string {
	var names []string
	d.tables.Range(func(name string, _ *Table) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

func (d *Database) ensureTable(name string) error {
	d.schemaMu.Lock()
	defer d.schemaMu.Unlock()

	if d.engine.HasTable(name) {
		return nil
	}
	d.logger.Debug("creating table", "table", name)
	if _, err := d.engine.Execute(&engine.CreateTableStatement{Table: name}); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	return nil
}

// forget discards a handle after its table was dropped
func (d *Database) forget(name string) {
	d.tables.Delete(name)
}

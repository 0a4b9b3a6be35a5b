package dataset

import (
	"fmt"

	"github.com/leengari/dataset/engine"
)

// Table is a handle on one engine table. Handles are cheap and safe
// for concurrent use; all schema mutation they perform is serialized
// through the owning Database's schema lock.
type Table struct {
	name string
	db   *Database

	// indexes caches index-creation outcomes for this handle, keyed by
	// index name. A nil entry records a failed attempt that must not be
	// retried. Guarded by the database schema lock.
	indexes map[string]*Index
}

func newTable(db *Database, name string) *Table {
	return &Table{
		name:    name,
		db:      db,
		indexes: make(map[string]*Index),
	}
}

// Name returns the table name
func (t *Table) Name() string {
	return t.name
}

// Insert adds rec as a single row, materializing columns for any keys
// the table does not have yet. No conflict checking happens here:
// duplicate keys fail however the engine reports them.
func (t *Table) Insert(rec Record, opts ...WriteOption) error {
	o := applyWriteOptions(opts)
	if o.ensure {
		if err := t.ensureColumns(rec, o.types); err != nil {
			return err
		}
	}

	if _, err := t.db.engine.Execute(&engine.InsertStatement{Table: t.name, Row: rec}); err != nil {
		return fmt.Errorf("insert into %s: %w", t.name, err)
	}
	RowsInserted.WithLabelValues(t.name).Inc()
	return nil
}

// Update sets rec's columns on every row whose keys columns equal
// rec's values for them, and reports whether any row matched.
//
// An empty keys list reports no match without touching the engine: it
// would otherwise update every row, which is never intended here. A
// key missing from rec compares against NULL and so matches nothing,
// also a benign no-match, never an error.
func (t *Table) Update(rec Record, keys []string, opts ...WriteOption) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}
	o := applyWriteOptions(opts)

	keyFilter := make(Filter, len(keys))
	for _, k := range keys {
		keyFilter[k] = rec[k]
	}

	var clause engine.Clause
	if o.ensure {
		if err := t.ensureColumns(rec, o.types); err != nil {
			return false, err
		}
		// Key columns not carried by rec still need to exist for the
		// clause; they are created like any filter column.
		ensured, err := t.whereClause(keyFilter)
		if err != nil {
			return false, err
		}
		clause = ensured
	} else {
		cols, err := t.columnTypes()
		if err != nil {
			return false, err
		}
		for k := range rec {
			if _, ok := cols[k]; !ok {
				return false, nil
			}
		}
		for _, k := range keys {
			if _, ok := cols[k]; !ok {
				return false, nil
			}
		}
		clause = clauseOf(keyFilter)
	}

	stmt := &engine.UpdateStatement{Table: t.name, Where: clause, Set: rec}
	res, err := t.db.engine.Execute(stmt)
	if err != nil {
		return false, fmt.Errorf("update %s: %w", t.name, err)
	}
	RowsUpdated.WithLabelValues(t.name).Add(float64(res.RowsAffected))
	return res.RowsAffected > 0, nil
}

// Upsert updates the row identified by keys, inserting rec when no row
// matched. An index on the key columns is created first, best-effort,
// to keep repeated upserts cheap.
//
// The two statements are not atomic: a concurrent writer can insert a
// conflicting row between the missed update and the insert. Callers
// needing a hard guarantee must serialize upserts per key themselves.
func (t *Table) Upsert(rec Record, keys []string, opts ...WriteOption) error {
	o := applyWriteOptions(opts)
	if o.ensure {
		t.CreateIndex("", keys...) //nolint:errcheck // performance hint only
	}

	updated, err := t.Update(rec, keys, opts...)
	if err != nil {
		return err
	}
	if !updated {
		return t.Insert(rec, opts...)
	}
	return nil
}

// Delete removes every row matching filter and returns the count. An
// empty filter clears the whole table.
func (t *Table) Delete(filter Filter) (int, error) {
	clause, err := t.whereClause(filter)
	if err != nil {
		return 0, err
	}

	res, err := t.db.engine.Execute(&engine.DeleteStatement{Table: t.name, Where: clause})
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", t.name, err)
	}
	RowsDeleted.WithLabelValues(t.name).Add(float64(res.RowsAffected))
	return res.RowsAffected, nil
}

// Distinct returns the distinct value tuples over columns for rows
// matching filter, ascending by those columns. A requested or filtered
// column absent from the live schema yields an empty result rather
// than an error; distinct is a discovery operation and an unknown
// column simply has no values. No columns are created here.
func (t *Table) Distinct(filter Filter, columns ...string) ([]Record, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("distinct on %s: no columns given", t.name)
	}

	cols, err := t.columnTypes()
	if err != nil {
		return nil, err
	}
	for _, c := range columns {
		if _, ok := cols[c]; !ok {
			return nil, nil
		}
	}
	for k := range filter {
		if _, ok := cols[k]; !ok {
			return nil, nil
		}
	}

	orders := make([]engine.Order, 0, len(columns))
	for _, c := range columns {
		orders = append(orders, engine.Order{Column: c})
	}
	stmt := &engine.SelectStatement{
		Table:    t.name,
		Columns:  columns,
		Where:    clauseOf(filter),
		OrderBy:  orders,
		Distinct: true,
	}

	var out []Record
	for row, err := range t.db.engine.Query(stmt) {
		if err != nil {
			return nil, fmt.Errorf("distinct on %s: %w", t.name, err)
		}
		out = append(out, Record(row))
	}
	return out, nil
}

// Count returns the number of rows matching filter; a nil filter
// counts the whole table
func (t *Table) Count(filter Filter) (int64, error) {
	clause, err := t.whereClause(filter)
	if err != nil {
		return 0, err
	}

	for row, err := range t.db.engine.Query(&engine.CountStatement{Table: t.name, Where: clause}) {
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", t.name, err)
		}
		return toInt64(row["count"]), nil
	}
	return 0, nil
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	default:
		return 0
	}
}

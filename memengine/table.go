package memengine

import (
	"strings"

	"github.com/leengari/dataset/engine"
)

// table holds one table's schema, rows and indexes.
// All access goes through the owning Engine's lock.
type table struct {
	name         string
	columns      []engine.Column
	rows         []engine.Row
	indexes      map[string]*index
	lastInsertID int64
}

// index is an in-memory index over one or more columns.
// Key = composite value key, Value = row positions.
type index struct {
	name    string
	columns []string
	data    map[string][]int
}

func newTable(name string) *table {
	return &table{
		name: name,
		columns: []engine.Column{
			{Name: "id", Type: engine.ColumnTypeInteger, PrimaryKey: true, AutoIncrement: true},
		},
		indexes: make(map[string]*index),
	}
}

func (t *table) hasColumn(name string) bool {
	for _, col := range t.columns {
		if col.Name == name {
			return true
		}
	}
	return false
}

func (t *table) addColumn(col engine.Column) error {
	if t.hasColumn(col.Name) {
		return &engine.ColumnExistsError{Table: t.name, Column: col.Name}
	}
	t.columns = append(t.columns, col)
	return nil
}

func (t *table) autoIncrementColumn() *engine.Column {
	for i := range t.columns {
		if t.columns[i].AutoIncrement {
			return &t.columns[i]
		}
	}
	return nil
}

// insert appends one row, assigning the auto-increment key when the
// caller omitted it. An explicit key must exceed the sequence; the
// sequence then follows it so later generated keys never collide.
func (t *table) insert(mutRow engine.Row) error {
	row := mutRow.Copy() // prevent mutation of caller's data

	for k, v := range row {
		if !t.hasColumn(k) {
			return &engine.ColumnNotFoundError{Table: t.name, Column: k}
		}
		row[k] = normalizeValue(v)
	}

	if autoCol := t.autoIncrementColumn(); autoCol != nil {
		if val, ok := row[autoCol.Name]; ok {
			if id, isInt := normalizeToInt64(val); isInt {
				if id <= t.lastInsertID {
					return &engine.PrimaryKeyConflictError{Table: t.name, ID: id}
				}
				row[autoCol.Name] = id
				t.lastInsertID = id
			}
		} else {
			t.lastInsertID++
			row[autoCol.Name] = t.lastInsertID
		}
	}

	pos := len(t.rows)
	t.rows = append(t.rows, row)
	for _, idx := range t.indexes {
		idx.add(row, pos)
	}
	return nil
}

// update sets the columns of set on every row matching where and
// returns the number of rows touched
func (t *table) update(where engine.Clause, set engine.Row) (int, error) {
	for k := range set {
		if !t.hasColumn(k) {
			return 0, &engine.ColumnNotFoundError{Table: t.name, Column: k}
		}
	}

	count := 0
	for i, row := range t.rows {
		if !matches(row, where) {
			continue
		}
		for k, v := range set {
			t.rows[i][k] = normalizeValue(v)
		}
		count++
	}

	if count > 0 {
		t.rebuildIndexes()
	}
	return count, nil
}

// delete removes every row matching where and returns the count
func (t *table) delete(where engine.Clause) int {
	var kept []engine.Row
	deleted := 0
	for _, row := range t.rows {
		if matches(row, where) {
			deleted++
		} else {
			kept = append(kept, row)
		}
	}

	if deleted > 0 {
		t.rows = kept
		t.rebuildIndexes()
	}
	return deleted
}

func (t *table) createIndex(name string, columns []string) error {
	if _, ok := t.indexes[name]; ok {
		return &engine.IndexExistsError{Table: t.name, Name: name}
	}
	for _, c := range columns {
		if !t.hasColumn(c) {
			return &engine.ColumnNotFoundError{Table: t.name, Column: c}
		}
	}

	idx := &index{
		name:    name,
		columns: append([]string(nil), columns...),
		data:    make(map[string][]int),
	}
	for pos, row := range t.rows {
		idx.add(row, pos)
	}
	t.indexes[name] = idx
	return nil
}

// rebuildIndexes recomputes every index from the current rows.
// Must be called after any bulk mutation.
func (t *table) rebuildIndexes() {
	for _, idx := range t.indexes {
		idx.data = make(map[string][]int)
		for pos, row := range t.rows {
			idx.add(row, pos)
		}
	}
}

func (idx *index) add(row engine.Row, pos int) {
	key := compositeKey(row, idx.columns)
	idx.data[key] = append(idx.data[key], pos)
}

// compositeKey builds a string key from the row's values for the given
// columns. Missing values key as an empty segment.
func compositeKey(row engine.Row, columns []string) string {
	var b strings.Builder
	for i, c := range columns {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if v, ok := row[c]; ok && v != nil {
			writeValueKey(&b, v)
		}
	}
	return b.String()
}

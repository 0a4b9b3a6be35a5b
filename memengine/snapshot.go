package memengine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/natefinch/atomic"

	"github.com/leengari/dataset/engine"
)

// snapshotFile is the on-disk layout: one JSON document holding every
// table's schema, index definitions and rows
type snapshotFile struct {
	Tables []tableSnapshot `json:"tables"`
}

type tableSnapshot struct {
	Name         string          `json:"name"`
	LastInsertID int64           `json:"last_insert_id"`
	Columns      []engine.Column `json:"columns"`
	Indexes      []indexSnapshot `json:"indexes,omitempty"`
	Rows         []engine.Row    `json:"rows"`
}

type indexSnapshot struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// SaveSnapshot writes the whole engine state to path. The file is
// written via a temp file and an atomic rename so a crash mid-write
// never leaves a truncated snapshot.
func (e *Engine) SaveSnapshot(path string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	snap := snapshotFile{}
	for _, name := range names {
		t := e.tables[name]
		ts := tableSnapshot{
			Name:         t.name,
			LastInsertID: t.lastInsertID,
			Columns:      t.columns,
			Rows:         t.rows,
		}
		idxNames := make([]string, 0, len(t.indexes))
		for n := range t.indexes {
			idxNames = append(idxNames, n)
		}
		sort.Strings(idxNames)
		for _, n := range idxNames {
			idx := t.indexes[n]
			ts.Indexes = append(ts.Indexes, indexSnapshot{Name: idx.name, Columns: idx.columns})
		}
		snap.Tables = append(snap.Tables, ts)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}

	e.logger.Debug("snapshot saved", "path", path, "tables", len(snap.Tables))
	return nil
}

// LoadSnapshot replaces the engine state with the contents of path.
// JSON loses Go's value types, so integers and datetimes are restored
// from the recorded column types.
func (e *Engine) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot %s: %w", path, err)
	}

	tables := make(map[string]*table, len(snap.Tables))
	for _, ts := range snap.Tables {
		t := &table{
			name:         ts.Name,
			columns:      ts.Columns,
			lastInsertID: ts.LastInsertID,
			indexes:      make(map[string]*index),
		}
		for _, row := range ts.Rows {
			restoreRowTypes(row, ts.Columns)
			t.rows = append(t.rows, row)
		}
		for _, is := range ts.Indexes {
			if err := t.createIndex(is.Name, is.Columns); err != nil {
				return fmt.Errorf("rebuild index %s on %s: %w", is.Name, ts.Name, err)
			}
		}
		tables[ts.Name] = t
	}

	e.mu.Lock()
	e.tables = tables
	e.mu.Unlock()

	e.logger.Debug("snapshot loaded", "path", path, "tables", len(tables))
	return nil
}

// restoreRowTypes converts JSON's float64/string values back to the
// types the column declares
func restoreRowTypes(row engine.Row, columns []engine.Column) {
	for _, col := range columns {
		v, ok := row[col.Name]
		if !ok || v == nil {
			continue
		}
		switch col.Type {
		case engine.ColumnTypeInteger:
			if f, ok := v.(float64); ok && f == float64(int64(f)) {
				row[col.Name] = int64(f)
			}
		case engine.ColumnTypeDateTime:
			if s, ok := v.(string); ok {
				if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
					row[col.Name] = ts
				}
			}
		}
	}
}

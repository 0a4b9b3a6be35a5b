// Package engine defines the statement contract between the dataset
// layer and the executor that owns the actual storage. The dataset
// layer never generates SQL text; it hands over statement nodes and
// the engine interprets them however it stores rows.
package engine

import "iter"

// Engine executes statements against one logical database
type Engine interface {
	// Execute runs a mutating statement (DDL or DML) and reports how
	// many rows it touched. Statement execution is atomic.
	Execute(stmt Statement) (Result, error)

	// Query runs a read statement and streams its rows. The sequence
	// is lazy: abandoning it early must not cost more than the rows
	// already consumed.
	Query(stmt Statement) iter.Seq2[Row, error]

	// Columns reports the live column set of a table, read fresh on
	// every call. Concurrent schema changes made through other handles
	// must be visible immediately.
	Columns(table string) (map[string]ColumnType, error)

	// HasTable reports whether the table exists
	HasTable(table string) bool
}

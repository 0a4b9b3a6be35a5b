package engine

import "fmt"

// TableNotFoundError reports a statement against a table the engine
// does not know about
type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table not found: %s", e.Table)
}

// ColumnNotFoundError reports a statement referencing a column that is
// not part of the table's live schema
type ColumnNotFoundError struct {
	Table  string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %s.%s", e.Table, e.Column)
}

// ColumnExistsError reports an AddColumn for a column that already exists
type ColumnExistsError struct {
	Table  string
	Column string
}

func (e *ColumnExistsError) Error() string {
	return fmt.Sprintf("column already exists: %s.%s", e.Table, e.Column)
}

// PrimaryKeyConflictError reports an insert whose explicit primary
// key does not exceed the table's auto-increment sequence
type PrimaryKeyConflictError struct {
	Table string
	ID    int64
}

func (e *PrimaryKeyConflictError) Error() string {
	return fmt.Sprintf("primary key conflict on %s: id %d is not above the sequence", e.Table, e.ID)
}

// IndexExistsError reports a CreateIndex under a name already in use
type IndexExistsError struct {
	Table string
	Name  string
}

func (e *IndexExistsError) Error() string {
	return fmt.Sprintf("index already exists: %s on %s", e.Name, e.Table)
}

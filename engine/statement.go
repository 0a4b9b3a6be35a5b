package engine

// Statement is the base interface for all executable statements
type Statement interface {
	// StatementType returns the type identifier (for debugging/logging)
	StatementType() string
}

// Cond is a single equality condition (column = value).
// A nil value matches nothing, mirroring SQL NULL comparison semantics.
type Cond struct {
	Column string
	Value  any
}

// Clause is a conjunction of equality conditions.
// An empty clause matches every row.
type Clause []Cond

// Order is one sort key of an ORDER BY list
type Order struct {
	Column string
	Desc   bool
}

// CreateTableStatement creates a table with a single auto-increment
// "id" primary key column
type CreateTableStatement struct {
	Table string
}

func (s *CreateTableStatement) StatementType() string { return "CREATE TABLE" }

// AddColumnStatement adds one column to an existing table
type AddColumnStatement struct {
	Table  string
	Column Column
}

func (s *AddColumnStatement) StatementType() string { return "ADD COLUMN" }

// CreateIndexStatement creates a named index over the given columns
type CreateIndexStatement struct {
	Table   string
	Name    string
	Columns []string
}

func (s *CreateIndexStatement) StatementType() string { return "CREATE INDEX" }

// DropTableStatement removes a table, its rows and its indexes
type DropTableStatement struct {
	Table string
}

func (s *DropTableStatement) StatementType() string { return "DROP TABLE" }

// InsertStatement inserts a single row
type InsertStatement struct {
	Table string
	Row   Row
}

func (s *InsertStatement) StatementType() string { return "INSERT" }

// UpdateStatement sets the columns of Set on every row matching Where
type UpdateStatement struct {
	Table string
	Where Clause
	Set   Row
}

func (s *UpdateStatement) StatementType() string { return "UPDATE" }

// DeleteStatement removes every row matching Where
type DeleteStatement struct {
	Table string
	Where Clause
}

func (s *DeleteStatement) StatementType() string { return "DELETE" }

// SelectStatement reads rows matching Where, ordered by OrderBy.
// Columns restricts the projection when non-empty; Distinct removes
// duplicate projected tuples. Limit applies only when positive.
type SelectStatement struct {
	Table    string
	Columns  []string
	Where    Clause
	OrderBy  []Order
	Limit    int
	Offset   int
	Distinct bool
}

func (s *SelectStatement) StatementType() string { return "SELECT" }

// CountStatement yields a single row {"count": n} with the number of
// rows matching Where
type CountStatement struct {
	Table string
	Where Clause
}

func (s *CountStatement) StatementType() string { return "COUNT" }

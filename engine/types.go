package engine

// Row represents a single record
// Key = column name, Value = cell value
type Row map[string]any

// Copy creates a shallow copy of the row to prevent mutation
func (r Row) Copy() Row {
	cp := make(Row, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

type ColumnType string

const (
	ColumnTypeInteger  ColumnType = "INTEGER"
	ColumnTypeFloat    ColumnType = "FLOAT"
	ColumnTypeText     ColumnType = "TEXT"
	ColumnTypeBoolean  ColumnType = "BOOLEAN"
	ColumnTypeDateTime ColumnType = "DATETIME"
)

type Column struct {
	Name          string     `json:"name"`
	Type          ColumnType `json:"type"`
	PrimaryKey    bool       `json:"primary_key,omitempty"`
	AutoIncrement bool       `json:"auto_increment,omitempty"`
}

// Result reports the outcome of a mutating statement
type Result struct {
	RowsAffected int
}

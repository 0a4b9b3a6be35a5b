package dataset

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by FindOne when no row matches the filter
var ErrNotFound = errors.New("dataset: no matching row")

// UnknownColumnError reports a sort key, index column or distinct
// column that is not part of the table's live schema
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %s.%s", e.Table, e.Column)
}

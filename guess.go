package dataset

import (
	"time"

	"github.com/leengari/dataset/engine"
)

// TypeResolver maps a sample value to the column type used when the
// column is materialized
type TypeResolver func(v any) engine.ColumnType

// GuessType is the default resolver: a single best-effort guess from
// the value's runtime type, defaulting to TEXT for anything it does
// not recognize (including nil).
func GuessType(v any) engine.ColumnType {
	switch v.(type) {
	case bool:
		return engine.ColumnTypeBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return engine.ColumnTypeInteger
	case float32, float64:
		return engine.ColumnTypeFloat
	case time.Time:
		return engine.ColumnTypeDateTime
	default:
		return engine.ColumnTypeText
	}
}

package memengine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/leengari/dataset/engine"
)

// evalSelect materializes one result window: filter, project,
// deduplicate, order, then slice by offset/limit
func (e *Engine) evalSelect(s *engine.SelectStatement) ([]engine.Row, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.lookup(s.Table)
	if err != nil {
		return nil, err
	}
	if err := t.checkColumns(s); err != nil {
		return nil, err
	}

	var out []engine.Row
	for _, row := range t.rows {
		if matches(row, s.Where) {
			out = append(out, projectRow(row, s.Columns))
		}
	}

	if s.Distinct {
		out = distinctRows(out, s.Columns)
	}
	sortRows(out, s.OrderBy)

	if s.Offset > 0 {
		if s.Offset >= len(out) {
			return nil, nil
		}
		out = out[s.Offset:]
	}
	if s.Limit > 0 && s.Limit < len(out) {
		out = out[:s.Limit]
	}
	return out, nil
}

func (e *Engine) evalCount(s *engine.CountStatement) (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.lookup(s.Table)
	if err != nil {
		return 0, err
	}
	for _, c := range s.Where {
		if !t.hasColumn(c.Column) {
			return 0, &engine.ColumnNotFoundError{Table: t.name, Column: c.Column}
		}
	}

	var n int64
	for _, row := range t.rows {
		if matches(row, s.Where) {
			n++
		}
	}
	return n, nil
}

func (t *table) checkColumns(s *engine.SelectStatement) error {
	for _, c := range s.Where {
		if !t.hasColumn(c.Column) {
			return &engine.ColumnNotFoundError{Table: t.name, Column: c.Column}
		}
	}
	for _, o := range s.OrderBy {
		if !t.hasColumn(o.Column) {
			return &engine.ColumnNotFoundError{Table: t.name, Column: o.Column}
		}
	}
	for _, c := range s.Columns {
		if !t.hasColumn(c) {
			return &engine.ColumnNotFoundError{Table: t.name, Column: c}
		}
	}
	return nil
}

// matches tests a row against an equality conjunction. A condition on
// a nil value matches nothing, like SQL "col = NULL".
func matches(row engine.Row, where engine.Clause) bool {
	for _, c := range where {
		if c.Value == nil {
			return false
		}
		v, ok := row[c.Column]
		if !ok || v == nil {
			return false
		}
		if !valuesEqual(v, c.Value) {
			return false
		}
	}
	return true
}

// projectRow copies the row, restricted to columns when given.
// Projected columns missing from the row appear as nil.
func projectRow(row engine.Row, columns []string) engine.Row {
	if len(columns) == 0 {
		return row.Copy()
	}
	out := make(engine.Row, len(columns))
	for _, c := range columns {
		if v, ok := row[c]; ok {
			out[c] = v
		} else {
			out[c] = nil
		}
	}
	return out
}

// distinctRows keeps the first occurrence of each projected tuple
func distinctRows(rows []engine.Row, columns []string) []engine.Row {
	seen := make(map[string]bool, len(rows))
	var out []engine.Row
	for _, row := range rows {
		key := compositeKey(row, columns)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}

// sortRows orders rows by the given keys, stable so equal keys keep
// insertion order. Nil values sort first.
func sortRows(rows []engine.Row, orderBy []engine.Order) {
	if len(orderBy) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orderBy {
			c := compareValues(rows[i][o.Column], rows[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// valuesEqual compares two scalar values, treating every numeric type
// as one domain so int64(3) equals float64(3)
func valuesEqual(a, b any) bool {
	if fa, ok := normalizeToFloat(a); ok {
		if fb, ok := normalizeToFloat(b); ok {
			return fa == fb
		}
		return false
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
		return false
	}
	return a == b
}

// compareValues imposes a total order over scalar values: nil, then
// booleans, then numbers, then times, then strings
func compareValues(a, b any) int {
	ra, rb := valueRank(a), valueRank(b)
	if ra != rb {
		return ra - rb
	}

	switch ra {
	case rankNil:
		return 0
	case rankBool:
		ba, bb := a.(bool), b.(bool)
		if ba == bb {
			return 0
		}
		if !ba {
			return -1
		}
		return 1
	case rankNumber:
		fa, _ := normalizeToFloat(a)
		fb, _ := normalizeToFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case rankTime:
		return a.(time.Time).Compare(b.(time.Time))
	case rankString:
		return strings.Compare(a.(string), b.(string))
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

const (
	rankNil = iota
	rankBool
	rankNumber
	rankTime
	rankString
	rankOther
)

func valueRank(v any) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case time.Time:
		return rankTime
	case string:
		return rankString
	}
	if _, ok := normalizeToFloat(v); ok {
		return rankNumber
	}
	return rankOther
}

// normalizeValue folds the numeric zoo down to int64/float64 so stored
// values compare and serialize consistently
func normalizeValue(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

func normalizeToInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case float64:
		if x == float64(int64(x)) {
			return int64(x), true
		}
	}
	return 0, false
}

func normalizeToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// writeValueKey renders one value into an index key segment
func writeValueKey(b *strings.Builder, v any) {
	if f, ok := normalizeToFloat(v); ok {
		fmt.Fprintf(b, "n:%v", f)
		return
	}
	if t, ok := v.(time.Time); ok {
		fmt.Fprintf(b, "t:%s", t.UTC().Format(time.RFC3339Nano))
		return
	}
	fmt.Fprintf(b, "v:%v", v)
}

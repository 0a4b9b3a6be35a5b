package dataset

import (
	"sort"
	"strings"

	"github.com/leengari/dataset/engine"
)

// whereClause turns a filter into an equality conjunction, first
// making sure every referenced column exists. A column first seen in a
// filter is created on the spot with a type guessed from the filter
// value, matching insert semantics: filters may reference fields no
// write has carried yet.
func (t *Table) whereClause(filter Filter) (engine.Clause, error) {
	if len(filter) == 0 {
		return nil, nil
	}
	if err := t.ensureColumns(Record(filter), nil); err != nil {
		return nil, err
	}
	return clauseOf(filter), nil
}

// clauseOf builds the conjunction in sorted column order so the same
// filter always produces the same statement
func clauseOf(filter Filter) engine.Clause {
	clause := make(engine.Clause, 0, len(filter))
	for _, k := range sortedKeys(filter) {
		clause = append(clause, engine.Cond{Column: k, Value: filter[k]})
	}
	return clause
}

// orderBy parses sort keys against the live schema. A leading '-'
// sorts descending on the remainder of the key.
func (t *Table) orderBy(keys []string) ([]engine.Order, error) {
	cols, err := t.columnTypes()
	if err != nil {
		return nil, err
	}

	orders := make([]engine.Order, 0, len(keys))
	for _, key := range keys {
		name, desc := key, false
		if strings.HasPrefix(key, "-") {
			name, desc = key[1:], true
		}
		if _, ok := cols[name]; !ok {
			return nil, &UnknownColumnError{Table: t.name, Column: name}
		}
		orders = append(orders, engine.Order{Column: name, Desc: desc})
	}
	return orders, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

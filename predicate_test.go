package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/dataset/engine"
	"github.com/leengari/dataset/memengine"
)

func TestClauseOfSortedDeterministic(t *testing.T) {
	filter := Filter{"zeta": 1, "alpha": 2, "mid": 3}

	want := engine.Clause{
		{Column: "alpha", Value: 2},
		{Column: "mid", Value: 3},
		{Column: "zeta", Value: 1},
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, clauseOf(filter))
	}
}

func TestWhereClauseEmpty(t *testing.T) {
	_, tbl := newTestTable(t)

	clause, err := tbl.whereClause(nil)
	require.NoError(t, err)
	assert.Nil(t, clause)

	clause, err = tbl.whereClause(Filter{})
	require.NoError(t, err)
	assert.Nil(t, clause)
}

func TestWhereClauseEnsuresColumns(t *testing.T) {
	db, tbl := newTestTable(t)

	_, err := tbl.whereClause(Filter{"age": 30})
	require.NoError(t, err)

	cols, err := db.engine.Columns("users")
	require.NoError(t, err)
	assert.Equal(t, engine.ColumnTypeInteger, cols["age"])
}

func TestOrderByParsing(t *testing.T) {
	_, tbl := newTestTable(t)
	require.NoError(t, tbl.Insert(Record{"name": "a", "age": 1}))

	orders, err := tbl.orderBy([]string{"-age", "name"})
	require.NoError(t, err)
	assert.Equal(t, []engine.Order{
		{Column: "age", Desc: true},
		{Column: "name"},
	}, orders)
}

func TestOrderByUnknownColumn(t *testing.T) {
	db := New(memengine.New())
	tbl, err := db.Table("t")
	require.NoError(t, err)

	_, err = tbl.orderBy([]string{"-missing"})
	var unknown *UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Column)
}

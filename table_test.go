package dataset

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/dataset/engine"
	"github.com/leengari/dataset/memengine"
)

func newTestTable(t *testing.T) (*Database, *Table) {
	t.Helper()
	db := New(memengine.New())
	tbl, err := db.Table("users")
	require.NoError(t, err)
	return db, tbl
}

func seedRows(t *testing.T, tbl *Table, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := tbl.Insert(Record{
			"username": fmt.Sprintf("user%05d", i),
			"age":      20 + i%50,
		})
		require.NoError(t, err)
	}
}

func TestInsertCreatesColumns(t *testing.T) {
	_, tbl := newTestTable(t)

	err := tbl.Insert(Record{"username": "alice", "age": 30, "active": true})
	require.NoError(t, err)

	cols, err := tbl.Columns()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"id", "username", "age", "active"}, cols)
}

func TestInsertWithExplicitTypes(t *testing.T) {
	db, tbl := newTestTable(t)

	err := tbl.Insert(Record{"score": "12"}, WithColumnTypes(map[string]engine.ColumnType{
		"score": engine.ColumnTypeInteger,
	}))
	require.NoError(t, err)

	cols, err := db.engine.Columns("users")
	require.NoError(t, err)
	assert.Equal(t, engine.ColumnTypeInteger, cols["score"])
}

func TestEnsureColumnsIdempotent(t *testing.T) {
	_, tbl := newTestTable(t)
	rec := Record{"username": "alice", "age": 30}

	require.NoError(t, tbl.ensureColumns(rec, nil))
	first, err := tbl.Columns()
	require.NoError(t, err)

	require.NoError(t, tbl.ensureColumns(rec, nil))
	second, err := tbl.Columns()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestConcurrentEnsureColumns(t *testing.T) {
	_, tbl := newTestTable(t)
	rec := Record{"a": 1, "b": "x", "c": true, "d": 1.5}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = tbl.ensureColumns(rec, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	cols, err := tbl.Columns()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"id", "a", "b", "c", "d"}, cols)
}

func TestCreateIndexDeterministic(t *testing.T) {
	_, tbl := newTestTable(t)
	require.NoError(t, tbl.Insert(Record{"username": "alice", "age": 30}))

	first, err := tbl.CreateIndex("", "username", "age")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := tbl.CreateIndex("", "username", "age")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCreateIndexUnknownColumn(t *testing.T) {
	_, tbl := newTestTable(t)

	idx, err := tbl.CreateIndex("", "no_such_column")
	assert.Nil(t, idx)

	var unknown *UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "no_such_column", unknown.Column)
}

func TestCreateIndexFailureCachedNotRetried(t *testing.T) {
	db, tbl := newTestTable(t)

	// Occupy the name at the engine so the table-level attempt fails
	_, err := db.engine.Execute(&engine.CreateIndexStatement{
		Table: "users", Name: "ix_taken", Columns: []string{"id"},
	})
	require.NoError(t, err)

	idx, err := tbl.CreateIndex("ix_taken", "id")
	require.NoError(t, err)
	assert.Nil(t, idx)

	// Cached as absent: the engine is not asked again
	counting := &countingEngine{Engine: db.engine}
	db.engine = counting
	idx, err = tbl.CreateIndex("ix_taken", "id")
	require.NoError(t, err)
	assert.Nil(t, idx)
	assert.Zero(t, counting.executes)
}

func TestUpsert(t *testing.T) {
	_, tbl := newTestTable(t)

	require.NoError(t, tbl.Upsert(Record{"id": 1, "val": "a"}, []string{"id"}))
	require.NoError(t, tbl.Upsert(Record{"id": 1, "val": "b"}, []string{"id"}))

	n, err := tbl.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rec, err := tbl.FindOne(Filter{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, "b", rec["val"])
}

func TestUpsertKeysNeverSeen(t *testing.T) {
	_, tbl := newTestTable(t)

	// First upsert references key columns that do not exist yet: the
	// best-effort index fails, the update misses, the insert lands.
	require.NoError(t, tbl.Upsert(Record{"sku": "a-1", "stock": 5}, []string{"sku"}))
	require.NoError(t, tbl.Upsert(Record{"sku": "a-1", "stock": 7}, []string{"sku"}))

	n, err := tbl.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rec, err := tbl.FindOne(Filter{"sku": "a-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec["stock"])
}

func TestFindWindowedCompleteness(t *testing.T) {
	for _, n := range []int{0, 1, 5000, 12001} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			_, tbl := newTestTable(t)
			seedRows(t, tbl, n)

			var lastID int64
			got := 0
			for rec, err := range tbl.Find(nil) {
				require.NoError(t, err)
				id := rec["id"].(int64)
				assert.Greater(t, id, lastID)
				lastID = id
				got++
			}
			assert.Equal(t, n, got)
		})
	}
}

func TestFindLimit(t *testing.T) {
	_, tbl := newTestTable(t)
	seedRows(t, tbl, 25)

	t.Run("limit below row count", func(t *testing.T) {
		got := 0
		for _, err := range tbl.Find(nil, Limit(10)) {
			require.NoError(t, err)
			got++
		}
		assert.Equal(t, 10, got)
	})

	t.Run("window smaller than limit", func(t *testing.T) {
		got := 0
		for _, err := range tbl.Find(nil, Limit(10), WindowSize(3)) {
			require.NoError(t, err)
			got++
		}
		assert.Equal(t, 10, got)
	})

	t.Run("limit above row count", func(t *testing.T) {
		got := 0
		for _, err := range tbl.Find(nil, Limit(100)) {
			require.NoError(t, err)
			got++
		}
		assert.Equal(t, 25, got)
	})
}

func TestFindOffset(t *testing.T) {
	_, tbl := newTestTable(t)
	seedRows(t, tbl, 10)

	var ids []int64
	for rec, err := range tbl.Find(nil, Offset(7)) {
		require.NoError(t, err)
		ids = append(ids, rec["id"].(int64))
	}
	assert.Equal(t, []int64{8, 9, 10}, ids)
}

func TestFindOrderByDescending(t *testing.T) {
	_, tbl := newTestTable(t)
	seedRows(t, tbl, 5)

	var ids []int64
	for rec, err := range tbl.Find(nil, OrderBy("-id")) {
		require.NoError(t, err)
		ids = append(ids, rec["id"].(int64))
	}
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids)
}

func TestFindUnknownOrderColumn(t *testing.T) {
	_, tbl := newTestTable(t)
	seedRows(t, tbl, 3)

	var found error
	for _, err := range tbl.Find(nil, OrderBy("no_such_column")) {
		found = err
		break
	}

	var unknown *UnknownColumnError
	require.ErrorAs(t, found, &unknown)
	assert.Equal(t, "no_such_column", unknown.Column)
}

func TestFindFilterCreatesColumn(t *testing.T) {
	_, tbl := newTestTable(t)
	seedRows(t, tbl, 3)

	got := 0
	for _, err := range tbl.Find(Filter{"city": "Berlin"}) {
		require.NoError(t, err)
		got++
	}
	assert.Zero(t, got)

	ok, err := tbl.HasColumn("city")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFindEarlyBreakStopsFetching(t *testing.T) {
	db, tbl := newTestTable(t)
	seedRows(t, tbl, 10)

	counting := &countingEngine{Engine: db.engine}
	db.engine = counting

	for _, err := range tbl.Find(nil, WindowSize(3)) {
		require.NoError(t, err)
		break
	}
	assert.Equal(t, 1, counting.queries)
}

func TestFindPageSequence(t *testing.T) {
	db, tbl := newTestTable(t)
	seedRows(t, tbl, 7)

	counting := &countingEngine{Engine: db.engine}
	db.engine = counting

	got := 0
	for _, err := range tbl.Find(nil, WindowSize(3)) {
		require.NoError(t, err)
		got++
	}
	assert.Equal(t, 7, got)
	// pages of 3, 3, 1, then the empty page that ends the scan
	assert.Equal(t, 4, counting.queries)

	counting.queries = 0
	got = 0
	for _, err := range tbl.Find(nil, WindowSize(3), Limit(7)) {
		require.NoError(t, err)
		got++
	}
	assert.Equal(t, 7, got)
	// the limit is exhausted before a fourth page is issued
	assert.Equal(t, 3, counting.queries)
}

func TestFindOne(t *testing.T) {
	_, tbl := newTestTable(t)
	seedRows(t, tbl, 3)

	rec, err := tbl.FindOne(Filter{"username": "user00001"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec["id"])

	_, err = tbl.FindOne(Filter{"username": "nobody"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAll(t *testing.T) {
	_, tbl := newTestTable(t)
	seedRows(t, tbl, 4)

	got := 0
	for _, err := range tbl.All() {
		require.NoError(t, err)
		got++
	}
	assert.Equal(t, 4, got)
}

func TestUpdate(t *testing.T) {
	_, tbl := newTestTable(t)
	require.NoError(t, tbl.Insert(Record{"username": "alice", "age": 30}))

	updated, err := tbl.Update(Record{"username": "alice", "age": 31}, []string{"username"})
	require.NoError(t, err)
	assert.True(t, updated)

	rec, err := tbl.FindOne(Filter{"username": "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(31), rec["age"])
}

func TestUpdateEmptyKeys(t *testing.T) {
	_, tbl := newTestTable(t)
	require.NoError(t, tbl.Insert(Record{"username": "alice", "age": 30}))

	updated, err := tbl.Update(Record{"age": 99}, nil)
	require.NoError(t, err)
	assert.False(t, updated)

	rec, err := tbl.FindOne(Filter{"username": "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(30), rec["age"])
}

func TestUpdateMissingKeyValue(t *testing.T) {
	_, tbl := newTestTable(t)
	require.NoError(t, tbl.Insert(Record{"username": "alice"}))

	// rec carries no value for the key column: the clause compares
	// against NULL and matches nothing
	updated, err := tbl.Update(Record{"username": "bob"}, []string{"id"})
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestUpdateWithoutEnsure(t *testing.T) {
	_, tbl := newTestTable(t)
	require.NoError(t, tbl.Insert(Record{"username": "alice"}))

	updated, err := tbl.Update(
		Record{"username": "alice", "brand_new": 1},
		[]string{"username"},
		WithEnsureColumns(false),
	)
	require.NoError(t, err)
	assert.False(t, updated)

	ok, err := tbl.HasColumn("brand_new")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteFiltered(t *testing.T) {
	_, tbl := newTestTable(t)
	seedRows(t, tbl, 10)

	deleted, err := tbl.Delete(Filter{"username": "user00003"})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	n, err := tbl.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
}

func TestDeleteAll(t *testing.T) {
	_, tbl := newTestTable(t)
	seedRows(t, tbl, 10)

	deleted, err := tbl.Delete(nil)
	require.NoError(t, err)
	assert.Equal(t, 10, deleted)

	n, err := tbl.Count(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDistinct(t *testing.T) {
	_, tbl := newTestTable(t)
	for _, rec := range []Record{
		{"year": 2023, "country": "DE"},
		{"year": 2023, "country": "FR"},
		{"year": 2024, "country": "DE"},
		{"year": 2023, "country": "DE"},
	} {
		require.NoError(t, tbl.Insert(rec))
	}

	years, err := tbl.Distinct(nil, "year")
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, int64(2023), years[0]["year"])
	assert.Equal(t, int64(2024), years[1]["year"])

	filtered, err := tbl.Distinct(Filter{"country": "DE"}, "year")
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	tuples, err := tbl.Distinct(nil, "year", "country")
	require.NoError(t, err)
	assert.Len(t, tuples, 3)
}

func TestDistinctUnknownColumn(t *testing.T) {
	_, tbl := newTestTable(t)
	seedRows(t, tbl, 3)

	rows, err := tbl.Distinct(nil, "nonexistent_col")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = tbl.Distinct(Filter{"nonexistent_col": 1}, "username")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCountFiltered(t *testing.T) {
	_, tbl := newTestTable(t)
	seedRows(t, tbl, 10)

	n, err := tbl.Count(Filter{"username": "user00002"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDrop(t *testing.T) {
	db, tbl := newTestTable(t)
	seedRows(t, tbl, 5)

	require.NoError(t, tbl.Drop())
	assert.False(t, db.engine.HasTable("users"))

	// A fresh handle recreates the table empty
	fresh, err := db.Table("users")
	require.NoError(t, err)
	assert.NotSame(t, tbl, fresh)

	n, err := fresh.Count(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTableNames(t *testing.T) {
	db := New(memengine.New())
	for _, name := range []string{"b", "a", "c"} {
		_, err := db.Table(name)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b", "c"}, db.TableNames())
}

func TestInsertEngineErrorPropagates(t *testing.T) {
	_, tbl := newTestTable(t)

	err := tbl.Insert(Record{"ghost": 1}, WithEnsureColumns(false))
	require.Error(t, err)

	var notFound *engine.ColumnNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

package memengine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/dataset/engine"
)

func TestSnapshotRoundtrip(t *testing.T) {
	e := newPeopleEngine(t)
	_, err := e.Execute(&engine.AddColumnStatement{
		Table:  "people",
		Column: engine.Column{Name: "joined", Type: engine.ColumnTypeDateTime},
	})
	require.NoError(t, err)

	joined := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	insertPeople(t, e,
		engine.Row{"name": "a", "age": 30, "joined": joined},
		engine.Row{"name": "b", "age": 40},
	)
	_, err = e.Execute(&engine.CreateIndexStatement{Table: "people", Name: "ix_name", Columns: []string{"name"}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, e.SaveSnapshot(path))

	restored := New()
	require.NoError(t, restored.LoadSnapshot(path))

	before := collect(t, e, &engine.SelectStatement{Table: "people", OrderBy: []engine.Order{{Column: "id"}}})
	after := collect(t, restored, &engine.SelectStatement{Table: "people", OrderBy: []engine.Order{{Column: "id"}}})
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("rows changed across snapshot (-before +after):\n%s", diff)
	}

	// types survive the JSON roundtrip
	assert.IsType(t, int64(0), after[0]["id"])
	assert.IsType(t, int64(0), after[0]["age"])
	assert.Equal(t, joined, after[0]["joined"])

	// the auto-increment sequence continues where it left off
	_, err = restored.Execute(&engine.InsertStatement{Table: "people", Row: engine.Row{"name": "c"}})
	require.NoError(t, err)
	rows := collect(t, restored, &engine.SelectStatement{
		Table: "people",
		Where: engine.Clause{{Column: "name", Value: "c"}},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0]["id"])

	// the rebuilt index rejects a duplicate definition like the original
	_, err = restored.Execute(&engine.CreateIndexStatement{Table: "people", Name: "ix_name", Columns: []string{"name"}})
	var exists *engine.IndexExistsError
	require.ErrorAs(t, err, &exists)
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	e := New()
	err := e.LoadSnapshot(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestSaveSnapshotEmptyEngine(t *testing.T) {
	e := New()
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, e.SaveSnapshot(path))

	restored := New()
	require.NoError(t, restored.LoadSnapshot(path))
	assert.False(t, restored.HasTable("people"))
}

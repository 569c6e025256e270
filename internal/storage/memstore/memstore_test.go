package memstore

import (
	"errors"
	"testing"

	"raDB/internal/ra"
	"raDB/internal/storage"
)

func employees() *ra.Relation {
	return ra.NewRelation("Employees", ra.ColumnsOf("Employees", "EID", "Name", "Age"), []ra.Row{
		{ra.StringValue("E1"), ra.StringValue("John"), ra.IntValue(32)},
		{ra.StringValue("E2"), ra.StringValue("Mary"), ra.IntValue(28)},
	})
}

// TestMemstoreDefineLookup verifies that we can define a relation and read
// it back through a snapshot.
func TestMemstoreDefineLookup(t *testing.T) {
	store := New()

	if err := store.Define(employees()); err != nil {
		t.Fatalf("Define failed: %v", err)
	}

	snap := store.Snapshot()
	rel, ok := snap.Lookup("Employees")
	if !ok {
		t.Fatalf("Lookup: relation not found")
	}

	expectedCols := []string{"EID", "Name", "Age"}
	cols := rel.Attributes()
	if len(cols) != len(expectedCols) {
		t.Fatalf("expected %d columns, got %d", len(expectedCols), len(cols))
	}
	for i, want := range expectedCols {
		if cols[i] != want {
			t.Fatalf("column %d: expected %q, got %q", i, want, cols[i])
		}
	}

	if len(rel.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rel.Rows))
	}

	checkRow := func(row ra.Row, id, name string, age int64) {
		if len(row) != 3 {
			t.Fatalf("expected 3 values in row, got %d", len(row))
		}
		if row[0].S != id || row[1].S != name {
			t.Fatalf("expected (%s, %s), got (%s, %s)", id, name, row[0].S, row[1].S)
		}
		if row[2].Type != ra.TypeInt || row[2].I64 != age {
			t.Fatalf("age: expected %d, got (type=%v, value=%d)", age, row[2].Type, row[2].I64)
		}
	}

	checkRow(rel.Rows[0], "E1", "John", 32)
	checkRow(rel.Rows[1], "E2", "Mary", 28)

	if _, ok := snap.Lookup("Departments"); ok {
		t.Fatalf("expected unknown relation to be absent")
	}
}

// TestMemstoreDefineCopiesInput makes sure the store never shares rows with
// the caller or with readers.
func TestMemstoreDefineCopiesInput(t *testing.T) {
	store := New()
	rel := employees()

	if err := store.Define(rel); err != nil {
		t.Fatalf("Define failed: %v", err)
	}

	// Mutating the caller's relation must not affect the store.
	rel.Rows[0][1] = ra.StringValue("Changed")

	got, _ := store.Snapshot().Lookup("Employees")
	if got.Rows[0][1].S != "John" {
		t.Fatalf("store shares rows with caller: %q", got.Rows[0][1].S)
	}

	// Mutating a looked-up relation must not affect the store either.
	got.Rows[0][1] = ra.StringValue("Changed")
	again, _ := store.Snapshot().Lookup("Employees")
	if again.Rows[0][1].S != "John" {
		t.Fatalf("store shares rows with reader: %q", again.Rows[0][1].S)
	}
}

func TestMemstoreSnapshotIsStable(t *testing.T) {
	store := New()
	if err := store.Define(employees()); err != nil {
		t.Fatalf("Define failed: %v", err)
	}

	snap := store.Snapshot()

	redefined := ra.NewRelation("Employees", ra.ColumnsOf("Employees", "EID"), nil)
	if err := store.Define(redefined); err != nil {
		t.Fatalf("Define (redefine) failed: %v", err)
	}

	old, _ := snap.Lookup("Employees")
	if len(old.Columns) != 3 || len(old.Rows) != 2 {
		t.Fatalf("snapshot changed after redefine: %d cols, %d rows", len(old.Columns), len(old.Rows))
	}

	cur, _ := store.Snapshot().Lookup("Employees")
	if len(cur.Columns) != 1 {
		t.Fatalf("expected redefined relation, got %d columns", len(cur.Columns))
	}
}

func TestMemstoreDefineRejectsInvalid(t *testing.T) {
	store := New()

	bad := ra.NewRelation("R", ra.ColumnsOf("R", "A", "B"), []ra.Row{{ra.IntValue(1)}})
	err := store.Define(bad)
	if !errors.Is(err, storage.ErrInvalidRelation) {
		t.Fatalf("expected ErrInvalidRelation, got %v", err)
	}

	if names := store.ListRelations(); len(names) != 0 {
		t.Fatalf("invalid relation was stored: %v", names)
	}
}

func TestMemstoreListAndSchema(t *testing.T) {
	store := New()
	for _, name := range []string{"B", "A", "C"} {
		if err := store.Define(ra.NewRelation(name, ra.ColumnsOf(name, "X"), nil)); err != nil {
			t.Fatalf("Define %s failed: %v", name, err)
		}
	}

	names := store.ListRelations()
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "C" {
		t.Fatalf("expected sorted names [A B C], got %v", names)
	}

	cols, err := store.Schema("B")
	if err != nil {
		t.Fatalf("Schema failed: %v", err)
	}
	if len(cols) != 1 || cols[0].Name != "X" || cols[0].Origin != "B" {
		t.Fatalf("unexpected schema: %+v", cols)
	}

	if _, err := store.Schema("missing"); err == nil {
		t.Fatalf("expected error for missing relation")
	}
}

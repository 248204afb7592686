package collinear

import (
	"errors"
	"math"
	"testing"
)

// mustMatrix builds a Matrix from named columns (not rows), failing the test
// on error. Most fixtures are easier to read column-wise.
func mustMatrix(t *testing.T, names []string, cols [][]float64) *Matrix {
	t.Helper()
	rows := make([][]float64, len(cols[0]))
	for i := range rows {
		rows[i] = make([]float64, len(cols))
		for j := range cols {
			rows[i][j] = cols[j][i]
		}
	}
	m, err := NewMatrix(names, rows)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	return m
}

func TestPrepare_DropsIncompleteRows(t *testing.T) {
	ds := Dataset{
		{"a": 1, "b": 2, "c": 3},
		{"a": 4, "b": math.NaN(), "c": 6}, // missing b
		{"a": 7, "c": 9},                  // absent b
		{"a": 10, "b": 11, "c": 12},
		{"a": 13, "b": 14, "c": math.Inf(1)}, // non-finite c
	}
	m, err := Prepare(ds, PrepareOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Rows() != 2 {
		t.Fatalf("expected 2 complete rows, got %d", m.Rows())
	}
	if m.Cols() != 3 {
		t.Fatalf("expected 3 columns, got %d", m.Cols())
	}
	// Column order is name-sorted when Select is empty.
	names := m.Names()
	want := []string{"a", "b", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if got := m.Column("a"); got[0] != 1 || got[1] != 10 {
		t.Errorf("column a = %v, want [1 10]", got)
	}
}

func TestPrepare_OmitAndSelect(t *testing.T) {
	ds := Dataset{
		{"id": 1, "a": 1, "b": 2, "c": 3},
		{"id": 2, "a": 4, "b": 5, "c": 6},
	}

	m, err := Prepare(ds, PrepareOptions{Omit: []string{"id"}})
	if err != nil {
		t.Fatalf("omit: %v", err)
	}
	if m.Cols() != 3 {
		t.Errorf("omit: expected 3 columns, got %d", m.Cols())
	}

	// Select preserves the given order.
	m, err = Prepare(ds, PrepareOptions{Select: []string{"c", "a"}})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	names := m.Names()
	if names[0] != "c" || names[1] != "a" {
		t.Errorf("select order = %v, want [c a]", names)
	}
}

func TestPrepare_SelectUnknownColumn(t *testing.T) {
	ds := Dataset{{"a": 1, "b": 2}, {"a": 3, "b": 4}}
	if _, err := Prepare(ds, PrepareOptions{Select: []string{"a", "nope"}}); err == nil {
		t.Error("expected error for unknown selected column")
	}
}

func TestPrepare_InsufficientData(t *testing.T) {
	// Too few columns.
	ds := Dataset{{"a": 1}, {"a": 2}}
	_, err := Prepare(ds, PrepareOptions{})
	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insufficient.Cols != 1 {
		t.Errorf("Cols = %d, want 1", insufficient.Cols)
	}

	// Too few complete rows.
	ds = Dataset{
		{"a": 1, "b": 2},
		{"a": math.NaN(), "b": 3},
		{"a": 4, "b": math.NaN()},
	}
	_, err = Prepare(ds, PrepareOptions{})
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insufficient.Rows != 1 {
		t.Errorf("Rows = %d, want 1", insufficient.Rows)
	}
}

func TestNewMatrix_Validation(t *testing.T) {
	if _, err := NewMatrix([]string{"a", "a"}, [][]float64{{1, 2}, {3, 4}}); err == nil {
		t.Error("expected error for duplicate name")
	}
	if _, err := NewMatrix([]string{"a", "b"}, [][]float64{{1, 2}, {3}}); err == nil {
		t.Error("expected error for ragged row")
	}
	if _, err := NewMatrix([]string{"a", "b"}, [][]float64{{1, math.NaN()}, {3, 4}}); err == nil {
		t.Error("expected error for NaN value")
	}
	var insufficient *InsufficientDataError
	if _, err := NewMatrix([]string{"a", "b"}, [][]float64{{1, 2}}); !errors.As(err, &insufficient) {
		t.Errorf("expected InsufficientDataError for a single row, got %v", err)
	}
}

func TestMatrix_Subset(t *testing.T) {
	m := mustMatrix(t, []string{"a", "b", "c"}, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	sub, err := m.Subset([]string{"c", "a"})
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	if sub.Cols() != 2 || sub.Rows() != 3 {
		t.Fatalf("subset shape = %dx%d, want 3x2", sub.Rows(), sub.Cols())
	}
	if got := sub.Column("c"); got[0] != 7 || got[2] != 9 {
		t.Errorf("column c = %v, want [7 8 9]", got)
	}

	if _, err := m.Subset([]string{"a", "nope"}); err == nil {
		t.Error("expected error for unknown column")
	}
	var insufficient *InsufficientDataError
	if _, err := m.Subset([]string{"a"}); !errors.As(err, &insufficient) {
		t.Errorf("expected InsufficientDataError for 1-column subset, got %v", err)
	}
}

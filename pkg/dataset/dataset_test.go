package dataset

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func testRows() [][]float64 {
	return [][]float64{
		{1, 10, 100},
		{2, 20, 200},
		{3, 30, 300},
		{4, 40, 400},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]float64
		features []string
		wantErr  bool
	}{
		{"valid", testRows(), []string{"a", "b", "c"}, false},
		{"empty rows", nil, []string{"a"}, false},
		{"ragged rows", [][]float64{{1, 2}, {3}}, []string{"a", "b"}, true},
		{"duplicate features", testRows(), []string{"a", "b", "a"}, true},
		{"no features", testRows(), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := New(tt.rows, tt.features)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if ds.Rows() != len(tt.rows) {
				t.Errorf("Rows() = %d, want %d", ds.Rows(), len(tt.rows))
			}
			if ds.Cols() != len(tt.features) {
				t.Errorf("Cols() = %d, want %d", ds.Cols(), len(tt.features))
			}
		})
	}
}

func TestFromColumns(t *testing.T) {
	cols := map[string][]float64{
		"a": {1, 2, 3},
		"b": {4, 5, 6},
	}
	ds, err := FromColumns(cols, []string{"a", "b"})
	if err != nil {
		t.Fatalf("FromColumns() error = %v", err)
	}
	if ds.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", ds.Rows())
	}

	// Mutating source columns must not affect the dataset
	cols["a"][0] = 99
	got, _ := ds.Column("a")
	if got[0] != 1 {
		t.Errorf("FromColumns did not copy: got %v", got[0])
	}

	if _, err := FromColumns(cols, []string{"a", "missing"}); err == nil {
		t.Error("expected error for missing column")
	}

	cols["b"] = []float64{1}
	if _, err := FromColumns(cols, []string{"a", "b"}); err == nil {
		t.Error("expected error for mismatched column lengths")
	}
}

func TestColumnAccess(t *testing.T) {
	ds, err := New(testRows(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}

	col, err := ds.Column("b")
	if err != nil {
		t.Fatalf("Column() error = %v", err)
	}
	want := []float64{10, 20, 30, 40}
	if !slices.Equal(col, want) {
		t.Errorf("Column(b) = %v, want %v", col, want)
	}

	// Column returns a copy
	col[0] = 999
	again, _ := ds.Column("b")
	if again[0] != 10 {
		t.Error("Column() did not return a copy")
	}

	if _, err := ds.Column("missing"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestSetColumn(t *testing.T) {
	ds, _ := New(testRows(), []string{"a", "b", "c"})

	if err := ds.SetColumn("b", []float64{5, 6, 7, 8}); err != nil {
		t.Fatalf("SetColumn() error = %v", err)
	}
	got, _ := ds.Column("b")
	if !slices.Equal(got, []float64{5, 6, 7, 8}) {
		t.Errorf("Column(b) after SetColumn = %v", got)
	}

	if err := ds.SetColumn("b", []float64{1, 2}); err == nil {
		t.Error("expected error for wrong length")
	}
	if err := ds.SetColumn("missing", []float64{1, 2, 3, 4}); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestRowAndMatrix(t *testing.T) {
	ds, _ := New(testRows(), []string{"a", "b", "c"})

	row, err := ds.Row(1)
	if err != nil {
		t.Fatalf("Row() error = %v", err)
	}
	if !slices.Equal(row, []float64{2, 20, 200}) {
		t.Errorf("Row(1) = %v", row)
	}

	if _, err := ds.Row(-1); err == nil {
		t.Error("expected error for negative index")
	}
	if _, err := ds.Row(4); err == nil {
		t.Error("expected error for out-of-range index")
	}

	m := ds.Matrix()
	if len(m) != 4 || !slices.Equal(m[3], []float64{4, 40, 400}) {
		t.Errorf("Matrix() = %v", m)
	}

	// Matrix is a materialized copy
	m[0][0] = -1
	if v, _ := ds.Column("a"); v[0] != 1 {
		t.Error("Matrix() aliases internal storage")
	}
}

func TestCopyIsDeep(t *testing.T) {
	ds, _ := New(testRows(), []string{"a", "b", "c"})
	cp := ds.Copy()

	if err := cp.SetColumn("a", []float64{0, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}

	orig, _ := ds.Column("a")
	if !slices.Equal(orig, []float64{1, 2, 3, 4}) {
		t.Errorf("mutating copy changed original: %v", orig)
	}
}

func TestSampleColumn(t *testing.T) {
	ds, _ := New(testRows(), []string{"a", "b", "c"})
	rng := rand.New(rand.NewPCG(42, 42))

	samples, err := ds.SampleColumn("a", 100, rng)
	if err != nil {
		t.Fatalf("SampleColumn() error = %v", err)
	}
	if len(samples) != 100 {
		t.Fatalf("len(samples) = %d, want 100", len(samples))
	}

	// Every sample must come from the original column values
	valid := map[float64]bool{1: true, 2: true, 3: true, 4: true}
	for _, s := range samples {
		if !valid[s] {
			t.Fatalf("sample %v not drawn from column values", s)
		}
	}

	if _, err := ds.SampleColumn("missing", 10, rng); err == nil {
		t.Error("expected error for unknown column")
	}

	empty, _ := New(nil, []string{"x"})
	if _, err := empty.SampleColumn("x", 5, rng); err == nil {
		t.Error("expected error sampling from empty column")
	}
}

func TestSampleColumnDeterministic(t *testing.T) {
	ds, _ := New(testRows(), []string{"a", "b", "c"})

	a, _ := ds.SampleColumn("a", 50, rand.New(rand.NewPCG(7, 7)))
	b, _ := ds.SampleColumn("a", 50, rand.New(rand.NewPCG(7, 7)))
	if !slices.Equal(a, b) {
		t.Error("same seed produced different samples")
	}
}

func TestIndex(t *testing.T) {
	ds, _ := New(testRows(), []string{"a", "b", "c"})

	got := ds.Index()
	if !slices.Equal(got, []string{"0", "1", "2", "3"}) {
		t.Errorf("default Index() = %v", got)
	}

	if err := ds.SetIndex([]string{"w", "x", "y", "z"}); err != nil {
		t.Fatal(err)
	}
	if got := ds.Index(); !slices.Equal(got, []string{"w", "x", "y", "z"}) {
		t.Errorf("Index() = %v", got)
	}

	if err := ds.SetIndex([]string{"too", "short"}); err == nil {
		t.Error("expected error for wrong index length")
	}
}

package dataset

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		features []string
		rows     int
	}{
		{
			name:     "valid",
			input:    "a,b\n1,2\n3,4\n",
			features: []string{"a", "b"},
			rows:     2,
		},
		{
			name:     "header only",
			input:    "a,b\n",
			features: []string{"a", "b"},
			rows:     0,
		},
		{
			name:     "scientific notation",
			input:    "x\n1e-3\n2.5e2\n",
			features: []string{"x"},
			rows:     2,
		},
		{name: "empty input", input: "", wantErr: true},
		{name: "non-numeric value", input: "a,b\n1,two\n", wantErr: true},
		{name: "duplicate header", input: "a,a\n1,2\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ReadCSV(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !slices.Equal(ds.Features(), tt.features) {
				t.Errorf("Features() = %v, want %v", ds.Features(), tt.features)
			}
			if ds.Rows() != tt.rows {
				t.Errorf("Rows() = %d, want %d", ds.Rows(), tt.rows)
			}
		})
	}
}

func TestCSVRoundTrip(t *testing.T) {
	ds, _ := New([][]float64{{1.5, -2}, {0.25, 3}}, []string{"a", "b"})

	var buf bytes.Buffer
	if err := WriteCSV(ds, &buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if !slices.Equal(back.Features(), ds.Features()) {
		t.Errorf("features changed in round trip: %v", back.Features())
	}
	for _, f := range ds.Features() {
		want, _ := ds.Column(f)
		got, _ := back.Column(f)
		if !slices.Equal(got, want) {
			t.Errorf("column %q = %v, want %v", f, got, want)
		}
	}
}

func TestReadCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")

	ds, _ := New([][]float64{{1, 2}}, []string{"a", "b"})
	if err := WriteCSVFile(ds, path); err != nil {
		t.Fatalf("WriteCSVFile() error = %v", err)
	}

	back, err := ReadCSVFile(path)
	if err != nil {
		t.Fatalf("ReadCSVFile() error = %v", err)
	}
	if back.Rows() != 1 || back.Cols() != 2 {
		t.Errorf("round trip shape = %dx%d, want 1x2", back.Rows(), back.Cols())
	}

	if _, err := ReadCSVFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

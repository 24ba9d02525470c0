package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/raonyguimaraes/skater/pkg/errors"
)

// ReadCSVFile reads a CSV file into a Dataset. The first record is the
// feature header; every following record is one row of float64 values.
func ReadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV decodes CSV data from an io.Reader into a Dataset.
// Use ReadCSVFile for files or pass bytes.NewReader for in-memory data.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "empty CSV input")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read CSV header")
	}

	var rows [][]float64
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read CSV line %d", line)
		}

		row := make([]float64, len(rec))
		for i, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err,
					"parse value %q at line %d column %d", s, line, i+1)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	return New(rows, header)
}

// WriteCSVFile writes a Dataset to a CSV file with a feature header.
// The file is created with 0644 permissions.
func WriteCSVFile(d *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(d, f)
}

// WriteCSV encodes a Dataset as CSV to an io.Writer.
func WriteCSV(d *Dataset, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(d.features); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rec := make([]string, len(d.features))
	for i := 0; i < d.rows; i++ {
		for j, f := range d.features {
			rec[j] = strconv.FormatFloat(d.columns[f][i], 'g', -1, 64)
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

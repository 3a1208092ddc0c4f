package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSV parses comma-separated rows with the same layout as the
// spreadsheet template.
func ParseCSV(r io.Reader) (*Result, error) {
	return readAllRows(r, readCSVRows)
}

func readCSVRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

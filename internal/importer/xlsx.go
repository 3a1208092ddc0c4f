package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX parses the first worksheet of an .xlsx workbook.
func ParseXLSX(r io.Reader) (*Result, error) {
	return readAllRows(r, readXLSXRows)
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// templateRows is the sample content written by WriteTemplate.
var templateRows = [][]any{
	{"Question", "Option A", "Option B", "Option C", "Option D", "Answer", "Category", "Difficulty", "Explanation", "Type"},
	{"What is Go's zero value for a pointer?", "0", "nil", "undefined", "empty", "2", "Go", "Easy", "Pointers, slices, maps and channels default to nil.", "single"},
	{"Which are reference types in Go?", "slice", "array", "map", "channel", "1,3,4", "Go", "Medium", "Arrays are values; slices, maps and channels refer to shared data.", "multiple"},
	{"A goroutine is an OS thread.", "", "", "", "", "2", "Go", "Easy", "Goroutines are multiplexed onto OS threads by the runtime.", "judgment"},
}

const templateSheet = "Questions"

// WriteTemplate writes a sample .xlsx workbook showing the expected layout.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for i, row := range templateRows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(templateSheet, cellRef, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(templateSheet, "A1", "J1", header); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	if err := f.SetColWidth(templateSheet, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(templateSheet, "I", "I", 50); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

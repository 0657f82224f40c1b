package s0_ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/spreadclean/internal/contracts"
)

// Read loads a raw export, choosing the reader from the file extension.
// .xlsx files are read from their first sheet.
func Read(path string) (*contracts.RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, "")
	case ".csv", ".txt":
		return ReadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", path)
	}
}

// ReadCSV reads a comma separated export with a header row
func ReadCSV(path string) (*contracts.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := DecodeCSV(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}

// DecodeCSV reads CSV rows from r. Short rows are padded to the header width.
func DecodeCSV(r io.Reader, source string) (*contracts.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged exports happen; width is fixed below

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &contracts.SchemaError{Source: source, Column: "*", Message: "file has no header row"}
		}
		return nil, err
	}

	table := &contracts.RawTable{
		Source: source,
		Header: cleanHeader(header),
		Rows:   make([][]string, 0),
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlank(record) {
			continue
		}
		table.Rows = append(table.Rows, fitWidth(record, len(table.Header)))
	}

	return table, nil
}

// ReadXLSX reads a worksheet. An empty sheet name selects the first sheet.
func ReadXLSX(path, sheet string) (*contracts.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &contracts.SchemaError{Source: filepath.Base(path), Column: "*", Message: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, &contracts.SchemaError{Source: filepath.Base(path), Column: "*", Message: "sheet has no header row"}
	}

	table := &contracts.RawTable{
		Source: filepath.Base(path),
		Header: cleanHeader(rows[0]),
		Rows:   make([][]string, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		// excelize trims trailing empty cells
		table.Rows = append(table.Rows, fitWidth(row, len(table.Header)))
	}

	return table, nil
}

// RequireColumns returns a SchemaError for the first column missing from the header
func RequireColumns(table *contracts.RawTable, columns ...string) error {
	for _, col := range columns {
		if table.Index(col) < 0 {
			return &contracts.SchemaError{Source: table.Source, Column: col}
		}
	}
	return nil
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func fitWidth(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

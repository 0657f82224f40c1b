package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Supported output formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Writer writes one table to a file
type Writer interface {
	Ext() string
	WriteTable(path string, t Table) error
}

// NewWriter returns the writer for format
func NewWriter(format string) (Writer, error) {
	switch format {
	case FormatXLSX, "":
		return XLSXWriter{}, nil
	case FormatCSV:
		return CSVWriter{BOMPrefix: true}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// CSVWriter writes comma separated files
type CSVWriter struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Ext returns "csv"
func (CSVWriter) Ext() string { return FormatCSV }

// WriteTable writes t to path, replacing any existing file
func (w CSVWriter) WriteTable(path string, t Table) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if w.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(t.Header))
	for i, row := range t.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = formatCell(row[j])
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

func formatCell(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}

// XLSXWriter writes single-sheet workbooks named after the table
type XLSXWriter struct{}

// Ext returns "xlsx"
func (XLSXWriter) Ext() string { return FormatXLSX }

// WriteTable writes t to path with the stream writer
func (XLSXWriter) WriteTable(path string, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Excel caps sheet names at 31 characters
func sheetName(name string) string {
	if name == "" {
		return "Sheet1"
	}
	if r := []rune(name); len(r) > 31 {
		return string(r[:31])
	}
	return name
}

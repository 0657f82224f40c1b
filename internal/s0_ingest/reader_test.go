package s0_ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/spreadclean/internal/contracts"
)

func TestDecodeCSV(t *testing.T) {
	input := "\ufeffDate, CUSIP ,spread\n" +
		"01/05/2021,X123,NULL\n" +
		",,\n" +
		"01/06/2021,X123\n"

	table, err := DecodeCSV(strings.NewReader(input), "SecurityData.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "CUSIP", "spread"}, table.Header)
	require.Len(t, table.Rows, 2, "blank rows are skipped")
	assert.Equal(t, []string{"01/05/2021", "X123", "NULL"}, table.Rows[0])
	assert.Equal(t, []string{"01/06/2021", "X123", ""}, table.Rows[1], "short rows are padded")
	assert.Equal(t, 2, table.Index("spread"))
	assert.Equal(t, -1, table.Index("ytm"))
}

func TestDecodeCSV_Empty(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader(""), "empty.csv")

	var se *contracts.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "empty.csv", se.Source)
}

func TestRequireColumns(t *testing.T) {
	table := &contracts.RawTable{Source: "x.csv", Header: []string{"Date", "CUSIP"}}

	assert.NoError(t, RequireColumns(table, "Date", "CUSIP"))

	err := RequireColumns(table, "Date", "spread", "ytm")
	var se *contracts.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "spread", se.Column)
}

func TestRead_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SecurityData.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,CUSIP\n1/4/2021,A\n"), 0o644))

	table, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "SecurityData.csv", table.Source)
	assert.Len(t, table.Rows, 1)
}

func TestRead_XLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CDSPrices.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Date", "IG5", "HY5"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"1/4/2021", "101.5", "NULL"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"1/5/2021", "101.6"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "IG5", "HY5"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "NULL", table.Rows[0][2])
	assert.Equal(t, "", table.Rows[1][2])
}

func TestRead_UnsupportedExtension(t *testing.T) {
	_, err := Read("data.parquet")
	assert.Error(t, err)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package tabular

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestReadXLSXRoundTrip(t *testing.T) {
	r := buildWorkbook(t, [][]interface{}{
		{"Student Name", "Nationality", "Program Name", "Email"},
		{"Alice Mwangi", "Kenya", "B.Tech AIML", "alice@example.com"},
		{"Bob Otieno", "Kenya", "Diploma in Mechanical Engineering", "bob@example.com"},
	})

	table, err := ReadXLSX(r)
	require.NoError(t, err)

	require.Len(t, table.Headers, 4)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Alice Mwangi", table.Cell(table.Rows[0], table.Column("Student Name")))
	assert.Equal(t, "bob@example.com", table.Cell(table.Rows[1], table.Column("Email")))
}

func TestReadXLSXHeaderLookupIsCaseInsensitive(t *testing.T) {
	r := buildWorkbook(t, [][]interface{}{
		{" student NAME ", "NATIONALITY", "program name"},
		{"Alice Mwangi", "Kenya", "B.Tech AIML"},
	})

	table, err := ReadXLSX(r)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Column("Student Name"))
	assert.Equal(t, 2, table.Column("Program Name"))
	assert.Equal(t, -1, table.Column("Email"))
}

func TestReadXLSXToleratesShortRows(t *testing.T) {
	// Excel omits trailing empty cells, so a row without an email comes
	// back shorter than the header row.
	r := buildWorkbook(t, [][]interface{}{
		{"Student Name", "Nationality", "Program Name", "Email"},
		{"Alice Mwangi", "Kenya", "B.Tech AIML"},
	})

	table, err := ReadXLSX(r)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Alice Mwangi", table.Cell(table.Rows[0], table.Column("Student Name")))
	assert.Equal(t, "", table.Cell(table.Rows[0], table.Column("Email")))
}

func TestReadXLSXRejectsGarbage(t *testing.T) {
	_, err := ReadXLSX(bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)
}

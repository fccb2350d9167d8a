package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "Student Name,Nationality,Program Name\nAisha Khan,Kenya,B.Tech AIML\nLiang Wei,China,MBA\n"
	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Student Name", "Nationality", "Program Name"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Aisha Khan", table.Rows[0][0])
}

func TestReadCSVStripsBOM(t *testing.T) {
	input := "\xef\xbb\xbfStudent Name,Program Name\nA,B\n"
	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Column("Student Name"))
}

func TestReadCSVToleratesRaggedRows(t *testing.T) {
	input := "Student Name,Nationality,Program Name\nShort Row\nFull,Row,Here\n"
	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "", table.Cell(table.Rows[0], 2))
	assert.Equal(t, "Here", table.Cell(table.Rows[1], 2))
}

func TestReadCSVEmpty(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestColumnMatchesCaseInsensitively(t *testing.T) {
	table := Table{Headers: []string{" Student Name ", "EMAIL"}}
	assert.Equal(t, 0, table.Column("student name"))
	assert.Equal(t, 1, table.Column("Email"))
	assert.Equal(t, -1, table.Column("Nationality"))
}

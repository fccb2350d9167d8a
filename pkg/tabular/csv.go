package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV parses CSV content into a Table. The first row is treated as the
// header row. A UTF-8 BOM is stripped; ragged rows are tolerated so that a
// single short row surfaces later as a row-level problem, not a parse abort.
func ReadCSV(r io.Reader) (Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("read csv headers: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, record)
	}

	return Table{Headers: headers, Rows: rows}, nil
}

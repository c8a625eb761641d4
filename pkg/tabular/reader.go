package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/healthtwin-engine/internal/domain"
)

// Read parses CSV content into typed rows. The first record is the header;
// input with no header or no data rows surfaces domain.ErrEmptyInput.
func Read(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("reading header: %w", domain.ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := append([]string(nil), header...)

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		row := Row{
			Line:    line,
			Columns: columns,
			Cells:   make(map[string]Cell, len(header)),
		}
		for i, column := range header {
			row.Cells[column] = ParseCell(record[i])
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("parsing rows: %w", domain.ErrEmptyInput)
	}
	return rows, nil
}

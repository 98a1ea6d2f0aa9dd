package intake

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet data row keyed by header cell text.
type Row map[string]string

// ReadWorkbook parses the first sheet of an xlsx workbook. The first row
// is treated as the header and becomes the keys of every Row.
func ReadWorkbook(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidFile
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrInvalidFile
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, ErrInvalidFile
	}
	if len(raw) < 2 {
		return nil, ErrNoDataRows
	}

	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(Row, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(cells) {
				row[key] = cells[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

package intake

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFile means the upload could not be parsed as a workbook.
	ErrInvalidFile = errors.New("file could not be read as a spreadsheet")

	// ErrNoDataRows means the workbook parsed but held only a header row.
	ErrNoDataRows = errors.New("spreadsheet contains no data rows")

	// ErrNoValidRows means every row failed validation or resolution, so
	// nothing was persisted. The UploadResult carries the row errors.
	ErrNoValidRows = errors.New("no valid rows to import")

	// ErrScopeNotFound means the SOW does not belong to the given client
	// and company pair.
	ErrScopeNotFound = errors.New("sow not found for client")
)

// PersistenceError wraps an infrastructure-level failure during commit.
// Row-level rejections are reported as RowErrors instead.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist claims: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// RowError reports a problem with a single spreadsheet row. Row is the
// 1-based row number as the user sees it in the file (header is row 1).
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

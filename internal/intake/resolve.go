package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// patientFinder resolves external patient identifiers in one batch call.
// The returned map is keyed by uppercased external ID; identifiers are
// matched case-insensitively.
type patientFinder interface {
	FindByExternalIDs(ctx context.Context, externalIDs []string, clientID, companyID uuid.UUID) (map[string]uuid.UUID, error)
}

// rowPatientID reads the row's patient identifier through the mapping.
func rowPatientID(row Row, m Mapping) string {
	return strings.TrimSpace(row[m[patientIDPath]])
}

// resolvePatients maps every row to its patient UUID with a single
// lookup. Rows whose identifier is blank or unknown get a RowError and
// are excluded from the returned index. Row numbers are reported as the
// user sees them in the file: data starts at row 2.
func resolvePatients(ctx context.Context, rows []Row, m Mapping, finder patientFinder, clientID, companyID uuid.UUID) (map[int]uuid.UUID, []RowError, error) {
	var ids []string
	for _, row := range rows {
		if id := rowPatientID(row, m); id != "" {
			ids = append(ids, strings.ToUpper(id))
		}
	}

	found, err := finder.FindByExternalIDs(ctx, ids, clientID, companyID)
	if err != nil {
		return nil, nil, err
	}

	resolved := make(map[int]uuid.UUID, len(rows))
	var rowErrors []RowError
	for i, row := range rows {
		rowNum := i + 2
		id := rowPatientID(row, m)
		if id == "" {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Message: "Missing patient ID."})
			continue
		}
		patientID, ok := found[strings.ToUpper(id)]
		if !ok {
			rowErrors = append(rowErrors, RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("Patient with ID '%s' not found.", id),
			})
			continue
		}
		resolved[rowNum] = patientID
	}
	return resolved, rowErrors, nil
}

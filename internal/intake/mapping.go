package intake

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Mapping binds logical claim fields (dot paths) to spreadsheet column
// headers. Example: {"claimInfo.grossCharges": "Total Charges"}.
type Mapping map[string]string

const patientIDPath = "patientId"

var recognizedPaths = map[string]bool{
	patientIDPath:               true,
	"claimInfo.procedureCodes":  true,
	"claimInfo.diagnosisCodes":  true,
	"claimInfo.grossCharges":    true,
	"claimInfo.serviceDate":     true,
	"claimInfo.payerName":       true,
	"claimInfo.claimNumber":     true,
	"claimInfo.notes":           true,
}

// ParseMapping decodes the mapping JSON and drops unknown paths with a
// warning. A mapping without patientId cannot resolve any row and is
// rejected outright.
func ParseMapping(data []byte, logger zerolog.Logger) (Mapping, error) {
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid mapping JSON: %w", err)
	}
	for path := range m {
		if !recognizedPaths[path] {
			logger.Warn().Str("path", path).Msg("ignoring unrecognized mapping path")
			delete(m, path)
		}
	}
	if _, ok := m[patientIDPath]; !ok {
		return nil, fmt.Errorf("mapping must include %s", patientIDPath)
	}
	return m, nil
}

// applyMapping projects a spreadsheet row into a nested object following
// the mapping's dot paths. Absent or empty cells leave the path unset;
// intermediate maps are created as needed. No field is special-cased.
func applyMapping(row Row, m Mapping) map[string]interface{} {
	out := make(map[string]interface{})
	for path, column := range m {
		value, ok := row[column]
		if !ok || value == "" {
			continue
		}
		setPath(out, path, value)
	}
	return out
}

func setPath(obj map[string]interface{}, path string, value interface{}) {
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := obj[part].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			obj[part] = child
		}
		obj = child
	}
	obj[parts[len(parts)-1]] = value
}

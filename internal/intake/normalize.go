package intake

import (
	"math"
	"strconv"
	"strings"
)

// ProcedureCode is a CPT code with its share of the row's gross charges.
type ProcedureCode struct {
	CPTCode      string
	ChargeAmount float64
}

// DiagnosisCode is an ICD-10 code in canonical uppercase form.
type DiagnosisCode struct {
	ICDCode string
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// parseCharges extracts a numeric amount from free-form cell text by
// stripping currency symbols, separators and whitespace. Anything that
// still fails to parse is treated as zero.
func parseCharges(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

func splitCodes(raw string) []string {
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			codes = append(codes, part)
		}
	}
	return codes
}

// normalizeProcedures splits a comma-separated CPT list and divides the
// gross charge evenly, rounding each share to cents. Rounding remainders
// are deliberately left unreconciled; the claim keeps the true total.
func normalizeProcedures(rawCodes, rawCharges string) []ProcedureCode {
	codes := splitCodes(rawCodes)
	if len(codes) == 0 {
		return nil
	}
	share := round2(parseCharges(rawCharges) / float64(len(codes)))
	procs := make([]ProcedureCode, len(codes))
	for i, code := range codes {
		procs[i] = ProcedureCode{CPTCode: code, ChargeAmount: share}
	}
	return procs
}

// normalizeDiagnoses splits a comma-separated ICD list and uppercases
// each code. No format validation happens here.
func normalizeDiagnoses(raw string) []DiagnosisCode {
	codes := splitCodes(raw)
	if len(codes) == 0 {
		return nil
	}
	diags := make([]DiagnosisCode, len(codes))
	for i, code := range codes {
		diags[i] = DiagnosisCode{ICDCode: strings.ToUpper(code)}
	}
	return diags
}

// normalizeClaimInfo rewrites the string-valued procedure and diagnosis
// paths of a mapped object into their structured forms, in place.
func normalizeClaimInfo(obj map[string]interface{}) {
	info, ok := obj["claimInfo"].(map[string]interface{})
	if !ok {
		return
	}
	rawCharges, _ := info["grossCharges"].(string)
	if rawProcs, ok := info["procedureCodes"].(string); ok {
		info["procedureCodes"] = normalizeProcedures(rawProcs, rawCharges)
	}
	if rawDiags, ok := info["diagnosisCodes"].(string); ok {
		info["diagnosisCodes"] = normalizeDiagnoses(rawDiags)
	}
}

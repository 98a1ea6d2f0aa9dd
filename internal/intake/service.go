package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rcm/rcm/internal/domain/claim"
)

// scopeVerifier confirms the SOW belongs to the client and company.
type scopeVerifier interface {
	VerifyScope(ctx context.Context, sowID, clientID, companyID uuid.UUID) error
}

// committer persists a batch of claim drafts without aborting siblings
// on row-level rejections.
type committer interface {
	InsertManyUnordered(ctx context.Context, drafts []claim.Draft) (int, []claim.RowFailure, error)
}

type Service struct {
	sows     scopeVerifier
	patients patientFinder
	claims   committer
	logger   zerolog.Logger
}

func NewService(sows scopeVerifier, patients patientFinder, claims committer, logger zerolog.Logger) *Service {
	return &Service{sows: sows, patients: patients, claims: claims, logger: logger}
}

// UploadInput is a parsed bulk-upload request.
type UploadInput struct {
	FileData  []byte
	Mapping   Mapping
	ClientID  uuid.UUID
	SOWID     uuid.UUID
	CompanyID uuid.UUID
	CreatedBy string
}

// UploadResult summarizes an upload. Errors lists every row that was
// dropped, whether during resolution or persistence.
type UploadResult struct {
	InsertedCount int        `json:"inserted_count"`
	TotalRows     int        `json:"total_rows"`
	Errors        []RowError `json:"errors,omitempty"`
	Message       string     `json:"message"`
}

var serviceDateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006", "2006/01/02"}

func parseServiceDate(raw string) *time.Time {
	for _, layout := range serviceDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func optString(info map[string]interface{}, key string) *string {
	if s, ok := info[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

// buildDraft turns a mapped and normalized row object into a claim draft.
func (s *Service) buildDraft(rowNum int, obj map[string]interface{}, patientID uuid.UUID, in UploadInput) claim.Draft {
	cl := &claim.Claim{
		CompanyID: in.CompanyID,
		ClientID:  in.ClientID,
		SOWID:     in.SOWID,
		PatientID: patientID,
		Status:    "new",
	}
	if in.CreatedBy != "" {
		cl.CreatedBy = &in.CreatedBy
	}

	info, _ := obj["claimInfo"].(map[string]interface{})
	if info != nil {
		cl.ClaimNumber = optString(info, "claimNumber")
		cl.PayerName = optString(info, "payerName")
		cl.Notes = optString(info, "notes")
		if raw, ok := info["grossCharges"].(string); ok {
			cl.GrossCharges = round2(parseCharges(raw))
		}
		if raw, ok := info["serviceDate"].(string); ok {
			cl.ServiceDate = parseServiceDate(raw)
		}
		if procs, ok := info["procedureCodes"].([]ProcedureCode); ok {
			for _, p := range procs {
				cl.Procedures = append(cl.Procedures, claim.Procedure{CPTCode: p.CPTCode, ChargeAmount: p.ChargeAmount})
			}
		}
		if diags, ok := info["diagnosisCodes"].([]DiagnosisCode); ok {
			for _, d := range diags {
				cl.Diagnoses = append(cl.Diagnoses, claim.Diagnosis{ICDCode: d.ICDCode})
			}
		}
	}
	return claim.Draft{Row: rowNum, Claim: cl}
}

// Process runs one bulk upload end to end: verify the SOW scope, read
// the workbook, resolve patients, map and normalize the surviving rows,
// then commit. Nothing is persisted unless at least one row survives.
func (s *Service) Process(ctx context.Context, in UploadInput) (*UploadResult, error) {
	logger := s.logger.With().
		Str("sow_id", in.SOWID.String()).
		Str("client_id", in.ClientID.String()).
		Logger()

	if err := s.sows.VerifyScope(ctx, in.SOWID, in.ClientID, in.CompanyID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScopeNotFound, err)
	}

	rows, err := ReadWorkbook(in.FileData)
	if err != nil {
		return nil, err
	}

	resolved, rowErrors, err := resolvePatients(ctx, rows, in.Mapping, s.patients, in.ClientID, in.CompanyID)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	var drafts []claim.Draft
	for i, row := range rows {
		rowNum := i + 2
		patientID, ok := resolved[rowNum]
		if !ok {
			continue
		}
		obj := applyMapping(row, in.Mapping)
		normalizeClaimInfo(obj)
		drafts = append(drafts, s.buildDraft(rowNum, obj, patientID, in))
	}

	result := &UploadResult{TotalRows: len(rows), Errors: rowErrors}
	if len(drafts) == 0 {
		result.Message = "No valid rows to import."
		return result, ErrNoValidRows
	}

	inserted, failures, err := s.claims.InsertManyUnordered(ctx, drafts)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	for _, f := range failures {
		result.Errors = append(result.Errors, RowError{Row: f.Row, Message: f.Message})
	}
	result.InsertedCount = inserted
	result.Message = fmt.Sprintf("Imported %d of %d rows.", inserted, len(rows))

	logger.Info().
		Int("inserted", inserted).
		Int("total_rows", len(rows)).
		Int("row_errors", len(result.Errors)).
		Msg("bulk claim upload completed")
	return result, nil
}

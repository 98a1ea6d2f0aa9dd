package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rcm/rcm/internal/domain/claim"
)

type mockSOWs struct {
	err   error
	calls int
}

func (m *mockSOWs) VerifyScope(ctx context.Context, sowID, clientID, companyID uuid.UUID) error {
	m.calls++
	return m.err
}

type mockPatients struct {
	byExternalID map[string]uuid.UUID
	err          error
	calls        int
	lastIDs      []string
}

func (m *mockPatients) FindByExternalIDs(ctx context.Context, externalIDs []string, clientID, companyID uuid.UUID) (map[string]uuid.UUID, error) {
	m.calls++
	m.lastIDs = externalIDs
	if m.err != nil {
		return nil, m.err
	}
	found := make(map[string]uuid.UUID)
	for _, id := range externalIDs {
		key := strings.ToUpper(id)
		if pid, ok := m.byExternalID[key]; ok {
			found[key] = pid
		}
	}
	return found, nil
}

type mockClaims struct {
	inserted []claim.Draft
	failures []claim.RowFailure
	err      error
	calls    int
}

func (m *mockClaims) InsertManyUnordered(ctx context.Context, drafts []claim.Draft) (int, []claim.RowFailure, error) {
	m.calls++
	if m.err != nil {
		return 0, nil, m.err
	}
	m.inserted = append(m.inserted, drafts...)
	return len(drafts) - len(m.failures), m.failures, nil
}

func defaultMapping() Mapping {
	return Mapping{
		"patientId":                "Patient ID",
		"claimInfo.procedureCodes": "CPT Codes",
		"claimInfo.diagnosisCodes": "ICD Codes",
		"claimInfo.grossCharges":   "Total Charges",
		"claimInfo.serviceDate":    "Service Date",
		"claimInfo.payerName":      "Payer",
		"claimInfo.claimNumber":    "Claim #",
		"claimInfo.notes":          "Notes",
	}
}

var uploadHeader = []string{"Patient ID", "CPT Codes", "ICD Codes", "Total Charges", "Service Date", "Payer", "Claim #", "Notes"}

func newUpload(t *testing.T, data [][]string) UploadInput {
	t.Helper()
	return UploadInput{
		FileData:  buildWorkbook(t, uploadHeader, data),
		Mapping:   defaultMapping(),
		ClientID:  uuid.New(),
		SOWID:     uuid.New(),
		CompanyID: uuid.New(),
		CreatedBy: "user-1",
	}
}

func TestProcess_EndToEnd(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()
	patients := &mockPatients{byExternalID: map[string]uuid.UUID{"MRN-1": p1, "MRN-2": p2}}
	claims := &mockClaims{}
	svc := NewService(&mockSOWs{}, patients, claims, zerolog.Nop())

	in := newUpload(t, [][]string{
		{"MRN-1", "99213, 99214", "e11.9, i10", "$200.00", "2026-03-15", "Aetna", "CLM-1", "priority"},
		{"mrn-2", "A,B,C", "z00.00", "100", "", "", "", ""},
		{"MRN-404", "99213", "i10", "50", "", "", "", ""},
	})

	result, err := svc.Process(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalRows != 3 {
		t.Errorf("expected 3 total rows, got %d", result.TotalRows)
	}
	if result.InsertedCount != 2 {
		t.Errorf("expected 2 inserted, got %d", result.InsertedCount)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 row error, got %v", result.Errors)
	}
	// Data starts at file row 2, so the third data row is row 4.
	if result.Errors[0].Row != 4 {
		t.Errorf("expected error on row 4, got %d", result.Errors[0].Row)
	}
	if result.Errors[0].Message != "Patient with ID 'MRN-404' not found." {
		t.Errorf("unexpected message: %q", result.Errors[0].Message)
	}
	if patients.calls != 1 {
		t.Errorf("expected a single batched patient lookup, got %d", patients.calls)
	}
	// Identifiers are uppercased before the lookup so the repo matches
	// against the canonical stored form.
	wantIDs := []string{"MRN-1", "MRN-2", "MRN-404"}
	if len(patients.lastIDs) != len(wantIDs) {
		t.Fatalf("unexpected lookup ids: %v", patients.lastIDs)
	}
	for i, want := range wantIDs {
		if patients.lastIDs[i] != want {
			t.Errorf("lookup id %d: expected %q, got %q", i, want, patients.lastIDs[i])
		}
	}

	if len(claims.inserted) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(claims.inserted))
	}
	first := claims.inserted[0].Claim
	if claims.inserted[0].Row != 2 {
		t.Errorf("expected first draft from row 2, got %d", claims.inserted[0].Row)
	}
	if first.PatientID != p1 {
		t.Errorf("expected first draft resolved to %s", p1)
	}
	if first.GrossCharges != 200.0 {
		t.Errorf("expected gross charges 200.00, got %v", first.GrossCharges)
	}
	if len(first.Procedures) != 2 || first.Procedures[0].ChargeAmount != 100.0 {
		t.Errorf("unexpected procedures: %+v", first.Procedures)
	}
	if len(first.Diagnoses) != 2 || first.Diagnoses[0].ICDCode != "E11.9" {
		t.Errorf("unexpected diagnoses: %+v", first.Diagnoses)
	}
	if first.ServiceDate == nil || first.ServiceDate.Format("2006-01-02") != "2026-03-15" {
		t.Errorf("unexpected service date: %v", first.ServiceDate)
	}
	if first.ClaimNumber == nil || *first.ClaimNumber != "CLM-1" {
		t.Errorf("unexpected claim number: %v", first.ClaimNumber)
	}
	if first.CreatedBy == nil || *first.CreatedBy != "user-1" {
		t.Errorf("unexpected created_by: %v", first.CreatedBy)
	}

	second := claims.inserted[1].Claim
	if second.PatientID != p2 {
		t.Errorf("expected case-insensitive match for mrn-2")
	}
	for _, p := range second.Procedures {
		if p.ChargeAmount != 33.33 {
			t.Errorf("expected 33.33 per code, got %v", p.ChargeAmount)
		}
	}
}

func TestProcess_ScopeCheckedBeforeReading(t *testing.T) {
	sows := &mockSOWs{err: fmt.Errorf("sow xyz not found for client abc")}
	patients := &mockPatients{}
	claims := &mockClaims{}
	svc := NewService(sows, patients, claims, zerolog.Nop())

	// The file is garbage; a scope failure must win because nothing is
	// read before the SOW is verified.
	in := UploadInput{
		FileData:  []byte("not a spreadsheet"),
		Mapping:   defaultMapping(),
		ClientID:  uuid.New(),
		SOWID:     uuid.New(),
		CompanyID: uuid.New(),
	}

	_, err := svc.Process(context.Background(), in)
	if !errors.Is(err, ErrScopeNotFound) {
		t.Fatalf("expected ErrScopeNotFound, got %v", err)
	}
	if patients.calls != 0 || claims.calls != 0 {
		t.Error("expected no downstream calls after scope failure")
	}
}

func TestProcess_NoValidRows(t *testing.T) {
	patients := &mockPatients{byExternalID: map[string]uuid.UUID{}}
	claims := &mockClaims{}
	svc := NewService(&mockSOWs{}, patients, claims, zerolog.Nop())

	in := newUpload(t, [][]string{
		{"MRN-404", "99213", "i10", "50", "", "", "", ""},
		{"MRN-405", "99214", "i10", "75", "", "", "", ""},
	})

	result, err := svc.Process(context.Background(), in)
	if !errors.Is(err, ErrNoValidRows) {
		t.Fatalf("expected ErrNoValidRows, got %v", err)
	}
	if claims.calls != 0 {
		t.Error("expected no insert call when every row failed")
	}
	if result == nil || len(result.Errors) != 2 {
		t.Fatalf("expected result carrying 2 row errors, got %+v", result)
	}
	if result.Errors[0].Row != 2 || result.Errors[1].Row != 3 {
		t.Errorf("unexpected row numbers: %v", result.Errors)
	}
}

func TestProcess_InvalidFile(t *testing.T) {
	svc := NewService(&mockSOWs{}, &mockPatients{}, &mockClaims{}, zerolog.Nop())

	in := UploadInput{
		FileData:  []byte("garbage"),
		Mapping:   defaultMapping(),
		ClientID:  uuid.New(),
		SOWID:     uuid.New(),
		CompanyID: uuid.New(),
	}
	_, err := svc.Process(context.Background(), in)
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("expected ErrInvalidFile, got %v", err)
	}
}

func TestProcess_PersistenceError(t *testing.T) {
	p1 := uuid.New()
	patients := &mockPatients{byExternalID: map[string]uuid.UUID{"MRN-1": p1}}
	claims := &mockClaims{err: fmt.Errorf("connection reset")}
	svc := NewService(&mockSOWs{}, patients, claims, zerolog.Nop())

	in := newUpload(t, [][]string{{"MRN-1", "99213", "i10", "50", "", "", "", ""}})

	_, err := svc.Process(context.Background(), in)
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestProcess_PartialPersistenceFailuresMerged(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()
	patients := &mockPatients{byExternalID: map[string]uuid.UUID{"MRN-1": p1, "MRN-2": p2}}
	claims := &mockClaims{failures: []claim.RowFailure{{Row: 3, Message: "claim rejected: duplicate claim_number"}}}
	svc := NewService(&mockSOWs{}, patients, claims, zerolog.Nop())

	in := newUpload(t, [][]string{
		{"MRN-1", "99213", "i10", "50", "", "", "", ""},
		{"MRN-2", "99214", "i10", "75", "", "", "", ""},
		{"MRN-404", "99213", "i10", "10", "", "", "", ""},
	})

	result, err := svc.Process(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected resolution and persistence errors merged, got %v", result.Errors)
	}
}

func TestProcess_MissingPatientIDCell(t *testing.T) {
	p1 := uuid.New()
	patients := &mockPatients{byExternalID: map[string]uuid.UUID{"MRN-1": p1}}
	claims := &mockClaims{}
	svc := NewService(&mockSOWs{}, patients, claims, zerolog.Nop())

	in := newUpload(t, [][]string{
		{"", "99213", "i10", "50", "", "", "", ""},
		{"MRN-1", "99214", "i10", "75", "", "", "", ""},
	})

	result, err := svc.Process(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.InsertedCount != 1 {
		t.Errorf("expected 1 inserted, got %d", result.InsertedCount)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 2 {
		t.Errorf("expected error for blank patient ID on row 2, got %v", result.Errors)
	}
}

func TestProcess_LogsThroughInjectedLogger(t *testing.T) {
	p1 := uuid.New()
	patients := &mockPatients{byExternalID: map[string]uuid.UUID{"MRN-1": p1}}
	var buf bytes.Buffer
	svc := NewService(&mockSOWs{}, patients, &mockClaims{}, zerolog.New(&buf))

	in := newUpload(t, [][]string{{"MRN-1", "99213", "i10", "50", "", "", "", ""}})

	if _, err := svc.Process(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "bulk claim upload completed") {
		t.Errorf("expected completion log, got %q", out)
	}
	if !strings.Contains(out, in.SOWID.String()) {
		t.Error("expected sow_id on the completion log")
	}
}

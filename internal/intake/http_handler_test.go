package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var (
	errNotFound  = errors.New("sow not found")
	errConnReset = errors.New("connection reset")
)

type uploadForm struct {
	file     []byte
	mapping  string
	clientID string
	sowID    string
}

func postUpload(t *testing.T, h *Handler, form uploadForm) (*httptest.ResponseRecorder, error) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if form.file != nil {
		fw, err := w.CreateFormFile("file", "claims.xlsx")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := fw.Write(form.file); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	_ = w.WriteField("mapping", form.mapping)
	_ = w.WriteField("client_id", form.clientID)
	_ = w.WriteField("sow_id", form.sowID)
	_ = w.WriteField("company_id", uuid.New().String())
	w.Close()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/bulk-upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h.BulkUpload(c)
}

func validForm(t *testing.T, rows [][]string) uploadForm {
	t.Helper()
	mapping, _ := json.Marshal(defaultMapping())
	return uploadForm{
		file:     buildWorkbook(t, uploadHeader, rows),
		mapping:  string(mapping),
		clientID: uuid.New().String(),
		sowID:    uuid.New().String(),
	}
}

func TestBulkUpload_Created(t *testing.T) {
	p1 := uuid.New()
	patients := &mockPatients{byExternalID: map[string]uuid.UUID{"MRN-1": p1}}
	h := NewHandler(NewService(&mockSOWs{}, patients, &mockClaims{}, zerolog.Nop()), zerolog.Nop())

	form := validForm(t, [][]string{
		{"MRN-1", "99213", "i10", "50", "", "", "", ""},
	})
	rec, err := postUpload(t, h, form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var result UploadResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if result.InsertedCount != 1 || result.TotalRows != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestBulkUpload_NoValidRowsReturns400WithErrors(t *testing.T) {
	patients := &mockPatients{byExternalID: map[string]uuid.UUID{}}
	h := NewHandler(NewService(&mockSOWs{}, patients, &mockClaims{}, zerolog.Nop()), zerolog.Nop())

	form := validForm(t, [][]string{
		{"MRN-404", "99213", "i10", "50", "", "", "", ""},
	})
	rec, err := postUpload(t, h, form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var result UploadResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 2 {
		t.Errorf("expected row error for row 2, got %+v", result.Errors)
	}
}

func TestBulkUpload_ScopeFailureReturns404(t *testing.T) {
	sows := &mockSOWs{err: errNotFound}
	h := NewHandler(NewService(sows, &mockPatients{}, &mockClaims{}, zerolog.Nop()), zerolog.Nop())

	form := validForm(t, [][]string{
		{"MRN-1", "99213", "i10", "50", "", "", "", ""},
	})
	_, err := postUpload(t, h, form)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestBulkUpload_MissingMapping(t *testing.T) {
	h := NewHandler(NewService(&mockSOWs{}, &mockPatients{}, &mockClaims{}, zerolog.Nop()), zerolog.Nop())

	form := validForm(t, [][]string{{"MRN-1", "", "", "", "", "", "", ""}})
	form.mapping = ""
	_, err := postUpload(t, h, form)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestBulkUpload_MissingFile(t *testing.T) {
	h := NewHandler(NewService(&mockSOWs{}, &mockPatients{}, &mockClaims{}, zerolog.Nop()), zerolog.Nop())

	mapping, _ := json.Marshal(defaultMapping())
	form := uploadForm{
		mapping:  string(mapping),
		clientID: uuid.New().String(),
		sowID:    uuid.New().String(),
	}
	_, err := postUpload(t, h, form)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestBulkUpload_PersistenceErrorReturns500(t *testing.T) {
	p1 := uuid.New()
	patients := &mockPatients{byExternalID: map[string]uuid.UUID{"MRN-1": p1}}
	claims := &mockClaims{err: errConnReset}
	h := NewHandler(NewService(&mockSOWs{}, patients, claims, zerolog.Nop()), zerolog.Nop())

	form := validForm(t, [][]string{
		{"MRN-1", "99213", "i10", "50", "", "", "", ""},
	})
	_, err := postUpload(t, h, form)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}

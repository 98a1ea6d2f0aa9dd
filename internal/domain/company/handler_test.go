package company

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newHandlerTest() (*Handler, *mockCompanyRepo, *mockEmployeeRepo) {
	svc, companies, employees := newTestService()
	return NewHandler(svc), companies, employees
}

func TestHandler_CreateCompany(t *testing.T) {
	h, _, _ := newHandlerTest()

	e := echo.New()
	body := `{"name":"Summit Revenue Partners","contact_email":"ops@summit.example"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateCompany(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var co Company
	if err := json.Unmarshal(rec.Body.Bytes(), &co); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if co.Name != "Summit Revenue Partners" {
		t.Errorf("unexpected name: %s", co.Name)
	}
	if co.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestHandler_CreateCompany_Invalid(t *testing.T) {
	h, _, _ := newHandlerTest()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies", strings.NewReader(`{"name":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateCompany(c)
	if err == nil {
		t.Fatal("expected error for blank name")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandler_GetCompany_NotFound(t *testing.T) {
	h, _, _ := newHandlerTest()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetCompany(c)
	if err == nil {
		t.Fatal("expected error for unknown company")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", httpErr.Code)
	}
}

func TestHandler_GetCompany_InvalidID(t *testing.T) {
	h, _, _ := newHandlerTest()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetCompany(c)
	if err == nil {
		t.Fatal("expected error for invalid id")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandler_CreateEmployee(t *testing.T) {
	h, _, _ := newHandlerTest()
	companyID := uuid.New()

	e := echo.New()
	body := `{"name":"Dana Reyes","email":"dana@example.com","role":"analyst"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(companyID.String())

	if err := h.CreateEmployee(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var emp Employee
	if err := json.Unmarshal(rec.Body.Bytes(), &emp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if emp.CompanyID != companyID {
		t.Errorf("expected company_id from path, got %s", emp.CompanyID)
	}
}

func TestHandler_ListCompanies(t *testing.T) {
	h, _, _ := newHandlerTest()

	// Seed via the service
	if err := h.svc.CreateCompany(context.Background(), &Company{Name: "A"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.svc.CreateCompany(context.Background(), &Company{Name: "B"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListCompanies(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Total)
	}
}

func TestHandler_DeleteCompany(t *testing.T) {
	h, repo, _ := newHandlerTest()

	co := &Company{Name: "Doomed Inc"}
	if err := h.svc.CreateCompany(context.Background(), co); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(co.ID.String())

	if err := h.DeleteCompany(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if len(repo.companies) != 0 {
		t.Error("expected company to be deleted")
	}
}

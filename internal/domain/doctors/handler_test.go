package doctors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicportal/portal/internal/platform/auth"
)

type staticRoles map[string]string

func (s staticRoles) RoleOf(_ context.Context, email string) (string, error) {
	return s[email], nil
}

// newTestServer mounts the doctor routes behind the admin guard. Callers pick
// their identity with the dev auth header.
func newTestServer() (*echo.Echo, *mockRepo) {
	svc, repo := newTestService()
	e := echo.New()
	e.Use(auth.DevAuthMiddleware("anon@x.com"))
	guard := auth.NewGuard(staticRoles{"boss@clinic.test": auth.RoleAdmin, "pat@x.com": ""})
	NewHandler(svc).RegisterRoutes(e.Group(""), guard.RequireAdmin())
	return e, repo
}

func do(e *echo.Echo, method, path, body, caller string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(auth.DevAuthHeader, caller)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const doctorBody = `{"name":"Dr. Lee","email":"lee@clinic.test","specialty":"Cleaning","image":"https://img/lee.png"}`

func TestRoutes_AdminCanManageDoctors(t *testing.T) {
	e, repo := newTestServer()

	rec := do(e, http.MethodPost, "/doctors", doctorBody, "boss@clinic.test")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.doctors) != 1 {
		t.Fatalf("expected one doctor, got %d", len(repo.doctors))
	}

	var id uuid.UUID
	for k := range repo.doctors {
		id = k
	}
	if rec := do(e, http.MethodGet, "/doctors/"+id.String(), "", "boss@clinic.test"); rec.Code != http.StatusOK {
		t.Errorf("get: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/doctors", "", "boss@clinic.test"); rec.Code != http.StatusOK {
		t.Errorf("list: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodDelete, "/doctors/"+id.String(), "", "boss@clinic.test"); rec.Code != http.StatusOK {
		t.Errorf("delete: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodDelete, "/doctors/"+id.String(), "", "boss@clinic.test"); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestRoutes_NonAdminForbiddenWithoutWrite(t *testing.T) {
	e, repo := newTestServer()
	seed := &Doctor{Name: "A", Email: "a@x.com", Specialty: "Cleaning"}
	repo.Create(context.Background(), seed)
	repo.writes = 0

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/doctors", doctorBody},
		{http.MethodDelete, "/doctors/" + seed.ID.String(), ""},
		{http.MethodGet, "/doctors", ""},
		{http.MethodGet, "/doctors/" + seed.ID.String(), ""},
	}
	for _, caller := range []string{"pat@x.com", "stranger@x.com"} {
		for _, tt := range tests {
			rec := do(e, tt.method, tt.path, tt.body, caller)
			if rec.Code != http.StatusForbidden {
				t.Errorf("%s %s as %s: expected 403, got %d", tt.method, tt.path, caller, rec.Code)
			}
		}
	}
	if repo.writes != 0 || len(repo.doctors) != 1 {
		t.Errorf("forbidden calls must not write: writes=%d doctors=%d", repo.writes, len(repo.doctors))
	}
}

func TestRoutes_InvalidDoctor(t *testing.T) {
	e, _ := newTestServer()
	rec := do(e, http.MethodPost, "/doctors", `{"name":"No Email"}`, "boss@clinic.test")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

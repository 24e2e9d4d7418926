package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicportal/portal/internal/platform/gateway"
)

func post(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_CreatePaymentIntent(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	c, rec := post(echo.New(), "/create-payment-intent", `{"_id":"`+f.booked.String()+`","price":50,"treatment":"Cleaning"}`)

	if err := h.CreatePaymentIntent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["clientSecret"] != "pi_1_secret" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_CreatePaymentIntent_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		gwErr  error
		status int
	}{
		{"zero price", `{"price":0}`, nil, http.StatusBadRequest},
		{"too many decimals", `{"price":1.234}`, nil, http.StatusBadRequest},
		{"gateway down", `{"price":50}`, gateway.ErrUpstream, http.StatusBadGateway},
		{"card token missing", `{"price":50}`, gateway.ErrCardTokenRequired, http.StatusBadRequest},
		{"bad json", `{"price":`, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.gw.err = tt.gwErr
			h := NewHandler(f.svc)
			c, _ := post(echo.New(), "/create-payment-intent", tt.body)

			err := h.CreatePaymentIntent(c)
			var httpErr *echo.HTTPError
			if !errors.As(err, &httpErr) || httpErr.Code != tt.status {
				t.Errorf("expected %d, got %v", tt.status, err)
			}
		})
	}
}

func TestHandler_ConfirmPayment(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	c, rec := post(echo.New(), "/payments", `{"bookingId":"`+f.booked.String()+`","transaction":"tx1","email":"pat@x.com","price":50}`)

	if err := h.ConfirmPayment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["acknowledged"] != true || resp["insertedId"] != f.payments.records[0].ID.String() {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_ConfirmPayment_NotFound(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	c, _ := post(echo.New(), "/payments", `{"bookingId":"63a1f0c2e4b0a1b2c3d4e5f6","transaction":"tx1"}`)

	err := h.ConfirmPayment(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

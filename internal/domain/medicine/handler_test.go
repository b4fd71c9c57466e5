package medicine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/zephyrixtech/clinic-next/internal/platform/apperr"
)

func newTestHandler() (*Handler, *Service) {
	svc := NewService(newMockRepo())
	return NewHandler(svc), svc
}

func TestHandler_AdjustQuantity(t *testing.T) {
	h, svc := newTestHandler()
	m := validMedicine()
	if err := svc.Create(nil, m); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	body := `{"quantity": 25, "operation": "subtract"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/medicines/x/quantity", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(m.ID.String())

	if err := h.AdjustQuantity(c); err != nil {
		t.Fatalf("AdjustQuantity handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var got Medicine
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Quantity != 75 {
		t.Errorf("expected quantity 75, got %d", got.Quantity)
	}
}

func TestHandler_AdjustQuantity_BadOp(t *testing.T) {
	h, svc := newTestHandler()
	m := validMedicine()
	if err := svc.Create(nil, m); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	body := `{"quantity": 5, "operation": "divide"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/medicines/x/quantity", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(m.ID.String())

	err := h.AdjustQuantity(c)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHandler_ListLowStock_BadThreshold(t *testing.T) {
	h, _ := newTestHandler()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/medicines/low-stock?threshold=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListLowStock(c)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHandler_Get_ComputesFlags(t *testing.T) {
	h, svc := newTestHandler()
	m := validMedicine()
	m.Quantity = 0
	if err := svc.Create(nil, m); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/medicines/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(m.ID.String())

	if err := h.Get(c); err != nil {
		t.Fatalf("Get handler error: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got["inStock"] != false {
		t.Error("expected inStock false in JSON")
	}
	if got["lowStock"] != true {
		t.Error("expected lowStock true in JSON")
	}
}

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/Simplici0/workshopcost/internal/costing"
	"github.com/Simplici0/workshopcost/internal/store"
)

func createHostQuote(t *testing.T, srv *server) (string, costing.HostQuote) {
	t.Helper()

	rr := do(t, srv, http.MethodPost, "/api/quotes/host", hostBody)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create quote: status %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		ID     string            `json:"id"`
		Result costing.HostQuote `json:"result"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp.ID, resp.Result
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetQuoteDetailReadsSnapshotWithoutRecalculation(t *testing.T) {
	srv := newTestServer(t, true)
	id, original := createHostQuote(t, srv)

	// Raise every medium-band rate after the quote was taken.
	rr := do(t, srv, http.MethodPut, "/api/tariffs/medium", `{
		"electricity_rate": 1, "gas_rate": 1, "electricity_daily_charge": 5, "gas_daily_charge": 5,
		"water_rate": 10, "admin_monthly": 900, "electricity_intensity": 300, "gas_intensity": 300,
		"water_per_employee": 30, "maintenance_per_area": 40
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update band: status %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	srv.handleQuoteDetail(rr, withID(httptest.NewRequest(http.MethodGet, "/api/quotes/"+id, nil), id))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var got store.Quote
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	var result costing.HostQuote
	if err := got.DecodeResult(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Breakdown.GrandTotal != original.Breakdown.GrandTotal {
		t.Fatalf("expected snapshot total %.2f, got %.2f", original.Breakdown.GrandTotal, result.Breakdown.GrandTotal)
	}
	if !strings.Contains(string(got.Params), `"title":"Laundry"`) {
		t.Fatalf("expected stored params, got %s", got.Params)
	}
}

func TestHandleQuoteTextReturnsPlainText(t *testing.T) {
	srv := newTestServer(t, true)
	id, _ := createHostQuote(t, srv)

	rr := httptest.NewRecorder()
	srv.handleQuoteText(rr, withID(httptest.NewRequest(http.MethodGet, "/api/quotes/"+id+"/text", nil), id))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("expected text/plain content type, got %q", rr.Header().Get("Content-Type"))
	}

	body := rr.Body.String()
	for _, expected := range []string{"Laundry", "Reference: " + id, "Prisoner Wages: £866.67", "Grand Total: £", "Tariff band: medium"} {
		if !strings.Contains(body, expected) {
			t.Fatalf("expected body to contain %q, got: %s", expected, body)
		}
	}
}

func TestHandleQuoteHTMLAndPDF(t *testing.T) {
	srv := newTestServer(t, true)
	id, _ := createHostQuote(t, srv)

	rr := do(t, srv, http.MethodGet, "/api/quotes/"+id+"/html", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("html: status %d, content type %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Body.String(), "<table>") {
		t.Fatalf("expected html table, got: %s", rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/api/quotes/"+id+"/pdf", "")
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("pdf: status %d, content type %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rr.Body.String(), "%PDF") {
		t.Fatalf("expected pdf bytes, got %q", rr.Body.String())
	}
	if pdf := srv.pdf.(*fakePDF); pdf.doc.Title != "Laundry" {
		t.Fatalf("renderer got document %q", pdf.doc.Title)
	}
}

func TestHandleQuoteDetailMissing(t *testing.T) {
	srv := newTestServer(t, true)

	for _, path := range []string{"/api/quotes/nope", "/api/quotes/nope/text", "/api/quotes/nope/html", "/api/quotes/nope/pdf"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected status 404, got %d", path, rr.Code)
		}
	}
}

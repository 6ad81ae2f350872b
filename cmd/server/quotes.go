package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Simplici0/workshopcost/internal/costing"
	"github.com/Simplici0/workshopcost/internal/report"
	"github.com/Simplici0/workshopcost/internal/store"
	"github.com/Simplici0/workshopcost/internal/telemetry"
)

type quoteResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Result    any    `json:"result"`
}

func (s *server) handleQuoteHost(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.Start(r.Context(), "quote.host")
	defer span.End()

	var req hostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, ok := s.snapshot(ctx, w)
	if !ok {
		return
	}
	q := costing.ComputeHostBreakdown(cfg, req.Workshop)
	development, _ := q.Breakdown.Amount(costing.LabelDevelopment)
	span.SetAttributes(
		attribute.String("band", string(q.Overheads.Band)),
		attribute.Float64("development_charge", development),
		attribute.Float64("grand_total", q.Breakdown.GrandTotal),
	)

	s.recordAndRespond(ctx, w, store.NewQuote{
		Mode:       store.ModeHost,
		Title:      req.Title,
		Customer:   string(req.Workshop.Customer),
		Band:       string(q.Overheads.Band),
		GrandTotal: q.Breakdown.GrandTotal,
		Params:     req,
		Result:     q,
	})
}

func (s *server) handleQuoteProduction(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.Start(r.Context(), "quote.production")
	defer span.End()

	var req productionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, ok := s.snapshot(ctx, w)
	if !ok {
		return
	}
	q := costing.ComputeProductionContractual(cfg, req.Items, req.Workshop)
	span.SetAttributes(
		attribute.String("band", string(q.Overheads.Band)),
		attribute.Int("items", len(q.Items)),
	)

	s.recordAndRespond(ctx, w, store.NewQuote{
		Mode:       store.ModeProduction,
		Title:      req.Title,
		Customer:   string(req.Workshop.Customer),
		Band:       string(q.Overheads.Band),
		GrandTotal: q.WeeklyTotalIncVAT(),
		Params:     req,
		Result:     q,
	})
}

func (s *server) handleQuoteAdhoc(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.Start(r.Context(), "quote.adhoc")
	defer span.End()

	var req adhocRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lines, today, err := req.parse(s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, ok := s.snapshot(ctx, w)
	if !ok {
		return
	}
	res := costing.ComputeAdhocJob(cfg, lines, req.Workshop, today)
	span.SetAttributes(
		attribute.String("band", string(res.Overheads.Band)),
		attribute.Bool("hard_block", res.Feasibility.HardBlock),
	)

	s.recordAndRespond(ctx, w, store.NewQuote{
		Mode:       store.ModeAdhoc,
		Title:      req.Title,
		Customer:   string(req.Workshop.Customer),
		Band:       string(res.Overheads.Band),
		GrandTotal: res.TotalIncVAT,
		HardBlock:  res.Feasibility.HardBlock,
		Params:     req,
		Result:     res,
	})
}

func (s *server) recordAndRespond(ctx context.Context, w http.ResponseWriter, nq store.NewQuote) {
	saved, err := s.quotes.Record(ctx, nq)
	if err != nil {
		log.Printf("record %s quote: %v", nq.Mode, err)
		writeError(w, http.StatusInternalServerError, "failed to record quote")
		return
	}
	writeJSON(w, http.StatusCreated, quoteResponse{ID: saved.ID, CreatedAt: saved.CreatedAt, Result: nq.Result})
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.quotes.List(r.Context(), query)
	if err != nil {
		log.Printf("list quotes: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load quotes")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "quote", err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// quoteDocument loads a logged quote and rebuilds its report document from
// the stored snapshot.
func (s *server) quoteDocument(w http.ResponseWriter, r *http.Request) (report.Document, bool) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "quote", err)
		return report.Document{}, false
	}
	doc, err := report.FromQuote(q, s.currency)
	if err != nil {
		log.Printf("build report for quote %s: %v", q.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return report.Document{}, false
	}
	return doc, true
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.quoteDocument(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(report.Text(doc)))
}

func (s *server) handleQuoteHTML(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.quoteDocument(w, r)
	if !ok {
		return
	}
	page, err := report.HTML(doc)
	if err != nil {
		log.Printf("render html: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.Start(r.Context(), "quote.pdf", attribute.String("quote_id", chi.URLParam(r, "id")))
	defer span.End()

	doc, ok := s.quoteDocument(w, r)
	if !ok {
		return
	}
	pdf, err := s.pdf.Render(ctx, doc)
	if err != nil {
		log.Printf("render pdf: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to render pdf")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "quote-"+chi.URLParam(r, "id")+".pdf"))
	_, _ = w.Write(pdf)
}

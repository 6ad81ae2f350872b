package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/Simplici0/workshopcost/internal/config"
	"github.com/Simplici0/workshopcost/internal/db"
	"github.com/Simplici0/workshopcost/internal/migrations"
	"github.com/Simplici0/workshopcost/internal/report"
	"github.com/Simplici0/workshopcost/internal/seed"
	"github.com/Simplici0/workshopcost/internal/store"
	"github.com/Simplici0/workshopcost/internal/tariff"
	"github.com/Simplici0/workshopcost/internal/telemetry"
)

// pdfRenderer prints a report document.
type pdfRenderer interface {
	Render(ctx context.Context, doc report.Document) ([]byte, error)
}

type server struct {
	tariffs  *store.TariffStore
	quotes   *store.QuoteLog
	pdf      pdfRenderer
	currency string
	now      func() time.Time
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, "workshopcost")
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database.DB); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}

		seedCfg := seed.Config{}
		if cfg.TariffFile != "" {
			catalog, err := tariff.Load(cfg.TariffFile)
			if err != nil {
				log.Fatalf("failed to load tariff file: %v", err)
			}
			seedCfg.Tariffs = catalog
		}
		stats, err := seed.Run(ctx, database, seedCfg)
		if err != nil {
			log.Fatalf("failed to seed tariffs: %v", err)
		}
		log.Printf("seed complete: %d inserts", stats.Inserts)
	}

	srv := &server{
		tariffs:  store.NewTariffStore(database),
		quotes:   store.NewQuoteLog(database),
		pdf:      report.NewPDFRenderer(cfg.WebDir),
		currency: cfg.CurrencySymbol,
		now:      time.Now,
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tariffs", s.handleTariffsGet)
		r.Put("/tariffs/{band}", s.handleTariffBandPut)

		r.Post("/quotes/host", s.handleQuoteHost)
		r.Post("/quotes/production", s.handleQuoteProduction)
		r.Post("/quotes/adhoc", s.handleQuoteAdhoc)

		r.Get("/quotes", s.handleQuotesList)
		r.Get("/quotes/{id}", s.handleQuoteDetail)
		r.Get("/quotes/{id}/text", s.handleQuoteText)
		r.Get("/quotes/{id}/html", s.handleQuoteHTML)
		r.Get("/quotes/{id}/pdf", s.handleQuotePDF)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps storage failures onto HTTP statuses and logs the
// unexpected ones.
func writeStoreError(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	log.Printf("%s: %v", what, err)
	writeError(w, http.StatusInternalServerError, "failed to load "+what)
}

// snapshot reads the tariff set for one calculation.
func (s *server) snapshot(ctx context.Context, w http.ResponseWriter) (*tariff.Configuration, bool) {
	cfg, err := s.tariffs.Snapshot(ctx)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusServiceUnavailable, "tariffs are not initialised; run migrations and seed")
		return nil, false
	}
	if err != nil {
		log.Printf("tariff snapshot: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load tariffs")
		return nil, false
	}
	return cfg, true
}

package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Simplici0/workshopcost/internal/tariff"
	"github.com/Simplici0/workshopcost/internal/telemetry"
)

func (s *server) handleTariffsGet(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.snapshot(r.Context(), w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *server) handleTariffBandPut(w http.ResponseWriter, r *http.Request) {
	key := tariff.BandKey(chi.URLParam(r, "band"))
	ctx, span := telemetry.Start(r.Context(), "tariffs.update", attribute.String("band", string(key)))
	defer span.End()

	switch key {
	case tariff.Low, tariff.Medium, tariff.High:
	default:
		writeError(w, http.StatusNotFound, "unknown tariff band")
		return
	}

	var band tariff.Band
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&band); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	band.Key = key
	if err := band.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.tariffs.SaveBand(ctx, band); err != nil {
		log.Printf("save tariff band %s: %v", key, err)
		writeError(w, http.StatusInternalServerError, "failed to save tariff band")
		return
	}
	writeJSON(w, http.StatusOK, band)
}

package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Simplici0/workshopcost/internal/costing"
)

const maxBodyBytes = 1 << 20

type hostRequest struct {
	Title    string           `json:"title"`
	Workshop costing.Workshop `json:"workshop"`
}

type productionRequest struct {
	Title    string                   `json:"title"`
	Workshop costing.Workshop         `json:"workshop"`
	Items    []costing.ProductionItem `json:"items"`
}

type adhocRequest struct {
	Title    string                   `json:"title"`
	Workshop costing.Workshop         `json:"workshop"`
	Today    string                   `json:"today,omitempty"`
	Lines    []costing.AdhocLineInput `json:"lines"`
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func (req hostRequest) validate() error {
	return req.Workshop.Validate()
}

func (req productionRequest) validate() error {
	return errors.Join(req.Workshop.Validate(), costing.ValidateItems(req.Items, req.Workshop.Prisoners))
}

func (req adhocRequest) parse(now time.Time) ([]costing.AdhocLine, time.Time, error) {
	return costing.ParseAdhocRequest(req.Workshop, req.Today, req.Lines, now)
}

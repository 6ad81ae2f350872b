package main

import (
	"strings"
	"testing"
	"time"

	"github.com/Simplici0/workshopcost/internal/costing"
)

func validWorkshop() costing.Workshop {
	return costing.Workshop{
		WeeklyHours:   37.5,
		Prisoners:     4,
		Contracts:     1,
		Customer:      costing.OtherGovernment,
		OutputPercent: 100,
	}
}

func TestAdhocRequestParse_Success(t *testing.T) {
	req := adhocRequest{
		Workshop: validWorkshop(),
		Today:    "2026-10-19",
		Lines: []costing.AdhocLineInput{
			{Name: "Signs", Units: 10, MinutesPerItem: 30, PrisonersPerItem: 1, Deadline: "2026-10-23"},
		},
	}

	lines, today, err := req.parse(time.Now())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if today.Format("2006-01-02") != "2026-10-19" {
		t.Fatalf("unexpected today %v", today)
	}
	if len(lines) != 1 || lines[0].Deadline.Format("2006-01-02") != "2026-10-23" || lines[0].Units != 10 {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestAdhocRequestParse_TodayDefaultsToNow(t *testing.T) {
	now := time.Date(2026, 10, 21, 15, 0, 0, 0, time.UTC)
	req := adhocRequest{
		Workshop: validWorkshop(),
		Lines:    []costing.AdhocLineInput{{Units: 1, MinutesPerItem: 5, PrisonersPerItem: 1, Deadline: "2026-10-30"}},
	}

	_, today, err := req.parse(now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !today.Equal(now) {
		t.Fatalf("today = %v, want %v", today, now)
	}
}

func TestAdhocRequestParse_InvalidDates(t *testing.T) {
	req := adhocRequest{
		Workshop: validWorkshop(),
		Today:    "19/10/2026",
		Lines:    []costing.AdhocLineInput{{Units: 1, MinutesPerItem: 5, PrisonersPerItem: 1, Deadline: "soon"}},
	}

	_, _, err := req.parse(time.Now())
	if err == nil {
		t.Fatalf("expected date validation error")
	}
	for _, want := range []string{"today:", "lines[0].deadline"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestAdhocRequestParse_RequiresLines(t *testing.T) {
	req := adhocRequest{Workshop: validWorkshop()}

	if _, _, err := req.parse(time.Now()); err == nil {
		t.Fatalf("expected error for empty lines")
	}
}

func TestProductionRequestValidate_InvalidItems(t *testing.T) {
	req := productionRequest{
		Workshop: validWorkshop(),
		Items: []costing.ProductionItem{
			{Name: "Pallets", MinutesPerUnit: 10, PrisonersRequired: 0, PrisonersAssigned: 1, OutputPercent: 120},
		},
	}

	err := req.validate()
	if err == nil {
		t.Fatalf("expected item validation error")
	}
	if !strings.Contains(err.Error(), "prisoners_required") || !strings.Contains(err.Error(), "output_percent") {
		t.Fatalf("expected both item errors, got %v", err)
	}
}

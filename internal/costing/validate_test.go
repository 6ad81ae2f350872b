package costing

import (
	"strings"
	"testing"
	"time"
)

func baseWorkshop() Workshop {
	return Workshop{
		WeeklyHours:   30,
		Prisoners:     4,
		Contracts:     1,
		Customer:      OtherGovernment,
		OutputPercent: 100,
	}
}

func TestWorkshopValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Workshop)
		want   string
	}{
		"valid without supervisors": {mutate: func(w *Workshop) {}},
		"valid full allocation": {mutate: func(w *Workshop) {
			w.SupervisorSalaries = []float64{30000}
			w.SupervisorAllocationPercent = 100
		}},
		"justified low allocation": {mutate: func(w *Workshop) {
			w.SupervisorSalaries = []float64{30000}
			w.Contracts = 4
			w.SupervisorAllocationPercent = 10
			w.AllocationJustification = "shared with the kitchen"
		}},
		"unjustified low allocation": {
			mutate: func(w *Workshop) {
				w.SupervisorSalaries = []float64{30000}
				w.Contracts = 2
				w.SupervisorAllocationPercent = 20
			},
			want: "allocation_justification",
		},
		"zero hours":       {mutate: func(w *Workshop) { w.WeeklyHours = 0 }, want: "weekly_hours"},
		"too many hours":   {mutate: func(w *Workshop) { w.WeeklyHours = 169 }, want: "weekly_hours"},
		"no contracts":     {mutate: func(w *Workshop) { w.Contracts = 0 }, want: "contracts"},
		"unknown customer": {mutate: func(w *Workshop) { w.Customer = "retail" }, want: "customer"},
		"unknown tier":     {mutate: func(w *Workshop) { w.SupportTier = "gold" }, want: "support_tier"},
		"unknown method":   {mutate: func(w *Workshop) { w.Maintenance.Method = "guess" }, want: "maintenance.method"},
		"output over 100":  {mutate: func(w *Workshop) { w.OutputPercent = 101 }, want: "output_percent"},
		"negative salary": {
			mutate: func(w *Workshop) {
				w.SupervisorSalaries = []float64{-1}
				w.SupervisorAllocationPercent = 100
			},
			want: "supervisor_salaries[0]",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := baseWorkshop()
			tc.mutate(&w)
			err := w.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateLines(t *testing.T) {
	deadline := time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC)

	if err := ValidateLines(nil); err == nil {
		t.Fatalf("expected error for no lines")
	}
	err := ValidateLines([]AdhocLine{{Units: 0, MinutesPerItem: -1, PrisonersPerItem: 0}})
	if err == nil {
		t.Fatalf("expected line errors")
	}
	for _, want := range []string{"units", "minutes_per_item", "prisoners_per_item", "deadline"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
	if err := ValidateLines([]AdhocLine{{Units: 1, PrisonersPerItem: 1, Deadline: deadline}}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidateItems_RequiresOutputPercent(t *testing.T) {
	items := []ProductionItem{{Name: "Pallets", MinutesPerUnit: 10, PrisonersRequired: 1, PrisonersAssigned: 1}}

	err := ValidateItems(items, 4)
	if err == nil || !strings.Contains(err.Error(), "items[0].output_percent") {
		t.Fatalf("expected output_percent error, got %v", err)
	}

	items[0].OutputPercent = 100
	if err := ValidateItems(items, 4); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestParseAdhocRequest(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	inputs := []AdhocLineInput{{Name: "Signs", Units: 10, MinutesPerItem: 5, PrisonersPerItem: 1, Deadline: "2026-10-30"}}

	w := baseWorkshop()
	w.OutputPercent = 0
	_, _, err := ParseAdhocRequest(w, "", inputs, now)
	if err == nil || !strings.Contains(err.Error(), "output_percent is required") {
		t.Fatalf("expected output_percent error, got %v", err)
	}

	w.OutputPercent = 100
	lines, today, err := ParseAdhocRequest(w, "", inputs, now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !today.Equal(now) || len(lines) != 1 || lines[0].Deadline.Format("2006-01-02") != "2026-10-30" {
		t.Fatalf("unexpected parse result: %v %+v", today, lines)
	}

	_, _, err = ParseAdhocRequest(w, "19/10/2026", []AdhocLineInput{{Units: 0, PrisonersPerItem: 1, Deadline: "soon"}}, now)
	if err == nil {
		t.Fatalf("expected errors")
	}
	for _, want := range []string{"today:", "lines[0].deadline", "lines[0].units"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

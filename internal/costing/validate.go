package costing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Simplici0/workshopcost/internal/tariff"
)

const hoursPerWeek = 24 * 7

// Validate checks workshop parameters at the boundary. The calculators assume
// it has passed.
func (w Workshop) Validate() error {
	var errs []error
	if w.Area < 0 {
		errs = append(errs, errors.New("area must be >= 0"))
	}
	if w.WeeklyHours <= 0 || w.WeeklyHours > hoursPerWeek {
		errs = append(errs, fmt.Errorf("weekly_hours must be between 0 and %d", hoursPerWeek))
	}
	if w.Prisoners < 0 {
		errs = append(errs, errors.New("prisoners must be >= 0"))
	}
	if w.PrisonerWeeklyWage < 0 {
		errs = append(errs, errors.New("prisoner_weekly_wage must be >= 0"))
	}
	for i, s := range w.SupervisorSalaries {
		if s < 0 {
			errs = append(errs, fmt.Errorf("supervisor_salaries[%d] must be >= 0", i))
		}
	}
	if w.Contracts < 1 {
		errs = append(errs, errors.New("contracts must be >= 1"))
	}
	if w.SupervisorAllocationPercent < 0 || w.SupervisorAllocationPercent > 100 {
		errs = append(errs, errors.New("supervisor_allocation_percent must be between 0 and 100"))
	} else if w.allocates() && w.Contracts >= 1 && w.SupervisorAllocationPercent < RecommendedAllocation(w.Contracts) &&
		strings.TrimSpace(w.AllocationJustification) == "" {
		errs = append(errs, fmt.Errorf("supervisor_allocation_percent %.1f is below the recommended %.1f and needs an allocation_justification",
			w.SupervisorAllocationPercent, RecommendedAllocation(w.Contracts)))
	}
	switch w.Customer {
	case Commercial, OtherGovernment:
	default:
		errs = append(errs, fmt.Errorf("customer must be %q or %q", Commercial, OtherGovernment))
	}
	if w.VAT.Rate < 0 || w.VAT.Rate > 100 {
		errs = append(errs, errors.New("vat.rate must be between 0 and 100"))
	}
	switch w.SupportTier {
	case "", tariff.SupportNone, tariff.SupportPartial, tariff.SupportFull:
	default:
		errs = append(errs, fmt.Errorf("support_tier %q is not recognised", w.SupportTier))
	}
	switch w.Maintenance.Method {
	case "", MaintenancePerArea, MaintenanceFixed, MaintenanceReinstatement:
	default:
		errs = append(errs, fmt.Errorf("maintenance.method %q is not recognised", w.Maintenance.Method))
	}
	if w.Maintenance.RatePerArea < 0 || w.Maintenance.FixedMonthly < 0 || w.Maintenance.ReinstatementValue < 0 {
		errs = append(errs, errors.New("maintenance amounts must be >= 0"))
	}
	if w.Maintenance.ReinstatementPercent < 0 || w.Maintenance.ReinstatementPercent > 100 {
		errs = append(errs, errors.New("maintenance.reinstatement_percent must be between 0 and 100"))
	}
	if w.OutputPercent < 0 || w.OutputPercent > 100 {
		errs = append(errs, errors.New("output_percent must be between 0 and 100"))
	}
	return errors.Join(errs...)
}

// allocates reports whether supervisor time is being charged at all. A
// workshop with no supervisors and no allocation has nothing to justify.
func (w Workshop) allocates() bool {
	return len(w.SupervisorSalaries) > 0 || w.SupervisorAllocationPercent > 0
}

// ValidateItems checks contractual items against the workshop headcount.
func ValidateItems(items []ProductionItem, prisoners int) error {
	if len(items) == 0 {
		return errors.New("at least one item is required")
	}
	var errs []error
	for i, it := range items {
		if it.MinutesPerUnit < 0 {
			errs = append(errs, fmt.Errorf("items[%d].minutes_per_unit must be >= 0", i))
		}
		if it.PrisonersRequired < 1 {
			errs = append(errs, fmt.Errorf("items[%d].prisoners_required must be >= 1", i))
		}
		if it.PrisonersAssigned < 0 || it.PrisonersAssigned > prisoners {
			errs = append(errs, fmt.Errorf("items[%d].prisoners_assigned must be between 0 and %d", i, prisoners))
		}
		if it.OutputPercent <= 0 || it.OutputPercent > 100 {
			errs = append(errs, fmt.Errorf("items[%d].output_percent must be greater than 0 and at most 100", i))
		}
	}
	return errors.Join(errs...)
}

// ParseAdhocRequest turns a submitted ad-hoc job into engine input. today
// defaults to now when blank. Ad-hoc capacity depends on the workshop's
// output percentage, so an omitted (zero) value is rejected here rather than
// priced as an idle workshop.
func ParseAdhocRequest(w Workshop, today string, inputs []AdhocLineInput, now time.Time) ([]AdhocLine, time.Time, error) {
	day, todayErr := ResolveToday(today, now)
	lines, linesErr := ParseAdhocLines(inputs)
	var outputErr error
	if w.OutputPercent == 0 {
		outputErr = errors.New("output_percent is required for ad-hoc jobs and must be greater than 0")
	}
	if err := errors.Join(todayErr, linesErr, w.Validate(), outputErr, ValidateLines(lines)); err != nil {
		return nil, time.Time{}, err
	}
	return lines, day, nil
}

// ValidateLines checks ad-hoc order lines.
func ValidateLines(lines []AdhocLine) error {
	if len(lines) == 0 {
		return errors.New("at least one line is required")
	}
	var errs []error
	for i, l := range lines {
		if l.Units < 1 {
			errs = append(errs, fmt.Errorf("lines[%d].units must be >= 1", i))
		}
		if l.MinutesPerItem < 0 {
			errs = append(errs, fmt.Errorf("lines[%d].minutes_per_item must be >= 0", i))
		}
		if l.PrisonersPerItem < 1 {
			errs = append(errs, fmt.Errorf("lines[%d].prisoners_per_item must be >= 1", i))
		}
		if l.Deadline.IsZero() {
			errs = append(errs, fmt.Errorf("lines[%d].deadline is required", i))
		}
	}
	return errors.Join(errs...)
}

package costing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Simplici0/workshopcost/internal/tariff"
)

// minCapacityMinutes keeps the cost-per-minute denominator positive.
const minCapacityMinutes = 1.0

// AdhocLine is one line of a one-off order.
type AdhocLine struct {
	Name             string    `json:"name"`
	Units            int       `json:"units"`
	MinutesPerItem   float64   `json:"minutes_per_item"`
	PrisonersPerItem int       `json:"prisoners_per_item"`
	Deadline         time.Time `json:"deadline"`
}

// AdhocLineResult prices one line and measures it against its own deadline.
type AdhocLineResult struct {
	Name           string      `json:"name"`
	Units          int         `json:"units"`
	Deadline       time.Time   `json:"deadline"`
	MinutesPerUnit float64     `json:"minutes_per_unit"`
	TotalMinutes   float64     `json:"total_minutes"`
	UnitCostExVAT  float64     `json:"unit_cost_ex_vat"`
	UnitCostIncVAT float64     `json:"unit_cost_inc_vat"`
	LineCostExVAT  float64     `json:"line_cost_ex_vat"`
	LineCostIncVAT float64     `json:"line_cost_inc_vat"`
	DaysAvailable  int         `json:"days_available"`
	DaysNeeded     WorkingDays `json:"days_needed"`
}

// Feasibility is the admission verdict for the whole job against the
// earliest deadline. A hard block is a business outcome, not an error.
type Feasibility struct {
	EarliestDeadline time.Time   `json:"earliest_deadline"`
	AvailableDays    int         `json:"available_days"`
	AvailableMinutes float64     `json:"available_minutes"`
	TotalMinutes     float64     `json:"total_minutes"`
	DaysNeeded       WorkingDays `json:"days_needed"`
	HardBlock        bool        `json:"hard_block"`
	Reason           string      `json:"reason,omitempty"`
}

// AdhocResult is the priced ad-hoc job.
type AdhocResult struct {
	Lines                 []AdhocLineResult `json:"lines"`
	TotalExVAT            float64           `json:"total_ex_vat"`
	TotalIncVAT           float64           `json:"total_inc_vat"`
	VATRate               float64           `json:"vat_rate"`
	CostPerMinute         float64           `json:"cost_per_minute"`
	WeeklyCost            float64           `json:"weekly_cost"`
	DailyCapacityMinutes  float64           `json:"daily_capacity_minutes"`
	WeeklyCapacityMinutes float64           `json:"weekly_capacity_minutes"`
	Feasibility           Feasibility       `json:"feasibility"`
	Overheads             Overheads         `json:"overheads"`
}

// DailyCapacity is the minutes a workshop processes per working day,
// assuming the weekly hours are spread over five days.
func DailyCapacity(prisoners int, weeklyHours, outputPercent float64) float64 {
	if prisoners <= 0 || weeklyHours <= 0 || outputPercent <= 0 {
		return 0
	}
	return float64(prisoners) * (weeklyHours / workingDays) * minutesPerHr * (outputPercent / 100)
}

// WeeklyCapacity is the minutes a workshop processes per week.
func WeeklyCapacity(prisoners int, weeklyHours, outputPercent float64) float64 {
	if prisoners <= 0 || weeklyHours <= 0 || outputPercent <= 0 {
		return 0
	}
	return float64(prisoners) * weeklyHours * minutesPerHr * (outputPercent / 100)
}

// ComputeAdhocJob prices each line at a uniform cost per minute and checks
// the combined workload fits before the earliest deadline.
func ComputeAdhocJob(cfg *tariff.Configuration, lines []AdhocLine, w Workshop, today time.Time) AdhocResult {
	shared, oh := w.weeklyShared(cfg)

	daily := DailyCapacity(w.Prisoners, w.WeeklyHours, w.OutputPercent)
	weeklyCap := WeeklyCapacity(w.Prisoners, w.WeeklyHours, w.OutputPercent)
	weeklyCost := float64(w.Prisoners)*w.PrisonerWeeklyWage + shared.total()
	perMinute := weeklyCost / math.Max(weeklyCap, minCapacityMinutes)

	res := AdhocResult{
		Lines:                 make([]AdhocLineResult, 0, len(lines)),
		VATRate:               w.appliedVATRate(),
		CostPerMinute:         perMinute,
		WeeklyCost:            weeklyCost,
		DailyCapacityMinutes:  daily,
		WeeklyCapacityMinutes: weeklyCap,
		Overheads:             oh,
	}

	earliest := -1
	var earliestDeadline time.Time
	totalMinutes := 0.0
	totalUnits := 0
	for i, l := range lines {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			name = fmt.Sprintf("Line %d", i+1)
		}

		perUnit := l.MinutesPerItem * float64(l.PrisonersPerItem)
		minutes := perUnit * float64(l.Units)
		unitCost := perMinute * perUnit
		lineCost := unitCost * float64(l.Units)
		available := WorkingDaysBetween(today, l.Deadline)

		res.Lines = append(res.Lines, AdhocLineResult{
			Name:           name,
			Units:          l.Units,
			Deadline:       l.Deadline,
			MinutesPerUnit: perUnit,
			TotalMinutes:   minutes,
			UnitCostExVAT:  unitCost,
			UnitCostIncVAT: w.withVAT(unitCost),
			LineCostExVAT:  lineCost,
			LineCostIncVAT: w.withVAT(lineCost),
			DaysAvailable:  available,
			DaysNeeded:     daysNeeded(minutes, daily),
		})

		res.TotalExVAT += lineCost
		totalMinutes += minutes
		totalUnits += l.Units
		if earliest < 0 || available < earliest {
			earliest = available
			earliestDeadline = l.Deadline
		}
	}
	if earliest < 0 {
		earliest = 0
	}
	res.TotalIncVAT = w.withVAT(res.TotalExVAT)
	res.Feasibility = assessFeasibility(totalMinutes, totalUnits, daily, earliest, earliestDeadline)
	return res
}

// assessFeasibility blocks when the workload exceeds the minutes available
// before the earliest deadline, or when any units are requested of a
// workshop with no capacity at all.
func assessFeasibility(totalMinutes float64, units int, daily float64, days int, deadline time.Time) Feasibility {
	f := Feasibility{
		EarliestDeadline: deadline,
		AvailableDays:    days,
		AvailableMinutes: daily * float64(days),
		TotalMinutes:     totalMinutes,
		DaysNeeded:       daysNeeded(totalMinutes, daily),
	}
	f.HardBlock = f.TotalMinutes > f.AvailableMinutes || (daily <= 0 && units > 0)
	if f.HardBlock {
		f.Reason = fmt.Sprintf(
			"The job needs %.0f minutes of work (%s working days) but only %.0f minutes are available in the %d working days before the earliest deadline. "+
				"Reduce the units requested, add prisoners, increase weekly hours, extend the deadline or lower the output percentage.",
			f.TotalMinutes, f.DaysNeeded, f.AvailableMinutes, f.AvailableDays)
	}
	return f
}

// ceilTolerant rounds up, ignoring float noise just above a whole number.
func ceilTolerant(x float64) float64 {
	return math.Ceil(x - 1e-9)
}

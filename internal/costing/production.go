package costing

import (
	"fmt"
	"math"
	"strings"

	"github.com/Simplici0/workshopcost/internal/tariff"
)

// ProductionItem is one recurring product line in a contractual workshop.
type ProductionItem struct {
	Name              string  `json:"name" yaml:"name"`
	MinutesPerUnit    float64 `json:"minutes_per_unit" yaml:"minutes_per_unit"`
	PrisonersRequired int     `json:"prisoners_required" yaml:"prisoners_required"`
	PrisonersAssigned int     `json:"prisoners_assigned" yaml:"prisoners_assigned"`
	OutputPercent     float64 `json:"output_percent" yaml:"output_percent"`
}

// ProductionResult prices one item. The unit fields are nil when the item
// produces nothing in a week.
type ProductionResult struct {
	Name              string   `json:"name"`
	OutputPercent     float64  `json:"output_percent"`
	FullCapacityUnits float64  `json:"full_capacity_units"`
	UnitsPerWeek      int      `json:"units_per_week"`
	LabourMinutes     float64  `json:"labour_minutes"`
	Share             float64  `json:"share"`
	WeeklyCost        float64  `json:"weekly_cost"`
	UnitCost          *float64 `json:"unit_cost"`
	UnitPriceExVAT    *float64 `json:"unit_price_ex_vat"`
	UnitPriceIncVAT   *float64 `json:"unit_price_inc_vat"`
}

// ProductionQuote is the contractual pricing for a basket of items.
type ProductionQuote struct {
	Items             []ProductionResult `json:"items"`
	WeeklyInstructor  float64            `json:"weekly_instructor"`
	WeeklyOverhead    float64            `json:"weekly_overhead"`
	WeeklyDevelopment float64            `json:"weekly_development"`
	VATRate           float64            `json:"vat_rate"`
	Overheads         Overheads          `json:"overheads"`
}

// FullCapacityUnits is weekly output at 100% of target: labour minutes
// available divided by labour minutes one unit consumes.
func FullCapacityUnits(assigned int, weeklyHours, minutesPerUnit float64, required int) float64 {
	if assigned <= 0 || weeklyHours <= 0 || minutesPerUnit <= 0 || required <= 0 {
		return 0
	}
	return float64(assigned) * weeklyHours * minutesPerHr / (minutesPerUnit * float64(required))
}

// ComputeProductionContractual spreads the workshop's shared weekly cost
// across items by their share of labour minutes.
func ComputeProductionContractual(cfg *tariff.Configuration, items []ProductionItem, w Workshop) ProductionQuote {
	shared, oh := w.weeklyShared(cfg)

	labour := make([]float64, len(items))
	totalLabour := 0.0
	for i, it := range items {
		if it.PrisonersAssigned > 0 && w.WeeklyHours > 0 {
			labour[i] = float64(it.PrisonersAssigned) * w.WeeklyHours * minutesPerHr
		}
		totalLabour += labour[i]
	}

	q := ProductionQuote{
		Items:             make([]ProductionResult, 0, len(items)),
		WeeklyInstructor:  shared.Instructor,
		WeeklyOverhead:    shared.Overhead,
		WeeklyDevelopment: shared.Development,
		VATRate:           w.appliedVATRate(),
		Overheads:         oh,
	}

	for i, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			name = fmt.Sprintf("Item %d", i+1)
		}

		share := 0.0
		if totalLabour > 0 {
			share = labour[i] / totalLabour
		}

		full := FullCapacityUnits(it.PrisonersAssigned, w.WeeklyHours, it.MinutesPerUnit, it.PrisonersRequired)
		units := int(math.Round(full * it.OutputPercent / 100))
		if units < 0 {
			units = 0
		}

		weekly := float64(it.PrisonersAssigned)*w.PrisonerWeeklyWage + share*shared.total()

		r := ProductionResult{
			Name:              name,
			OutputPercent:     it.OutputPercent,
			FullCapacityUnits: full,
			UnitsPerWeek:      units,
			LabourMinutes:     labour[i],
			Share:             share,
			WeeklyCost:        weekly,
		}
		if units > 0 {
			unit := weekly / float64(units)
			ex := unit
			inc := w.withVAT(unit)
			r.UnitCost = &unit
			r.UnitPriceExVAT = &ex
			r.UnitPriceIncVAT = &inc
		}
		q.Items = append(q.Items, r)
	}
	return q
}

// WeeklyTotalExVAT is the weekly cost of all items together.
func (q ProductionQuote) WeeklyTotalExVAT() float64 {
	total := 0.0
	for _, it := range q.Items {
		total += it.WeeklyCost
	}
	return total
}

// WeeklyTotalIncVAT applies the quote's VAT rate to WeeklyTotalExVAT.
func (q ProductionQuote) WeeklyTotalIncVAT() float64 {
	return q.WeeklyTotalExVAT() * (1 + q.VATRate/100)
}

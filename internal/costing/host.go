package costing

import (
	"github.com/Simplici0/workshopcost/internal/tariff"
)

// HostQuote is the monthly flat-rate charge for a workshop together with the
// overhead detail it was built from.
type HostQuote struct {
	Breakdown Breakdown `json:"breakdown"`
	Overheads Overheads `json:"overheads"`
}

// ComputeHostBreakdown builds the monthly breakdown for host billing.
func ComputeHostBreakdown(cfg *tariff.Configuration, w Workshop) HostQuote {
	oh := ResolveOverheads(cfg, w.overheadInput())

	var b Breakdown
	b.add(LabelPrisonerWages, float64(w.Prisoners)*w.PrisonerWeeklyWage*weeksPerMonth)
	b.add(LabelInstructorCost, w.instructorMonthly())
	b.add(LabelElectricity, oh.Electricity)
	b.add(LabelGas, oh.Gas)
	b.add(LabelWater, oh.Water)
	b.add(LabelAdministration, oh.Administration)
	b.add(LabelMaintenance, oh.Maintenance)
	b.add(LabelDevelopment, w.developmentCharge(cfg, oh.Total))
	b.close(w.appliedVATRate())

	return HostQuote{Breakdown: b, Overheads: oh}
}

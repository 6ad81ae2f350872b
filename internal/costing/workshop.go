// Package costing prices custodial workshops in host and production modes and
// checks whether ad-hoc jobs fit before their deadlines.
//
// Every function here is a pure function of its arguments and the tariff
// snapshot it is handed. Degenerate inputs (no prisoners, no hours, no minutes)
// produce zero capacity and absent unit costs rather than errors.
package costing

import (
	"github.com/Simplici0/workshopcost/internal/tariff"
)

const (
	weeksPerYear  = 52.0
	monthsPerYear = 12.0
	weeksPerMonth = weeksPerYear / monthsPerYear
	minutesPerHr  = 60.0
	workingDays   = 5.0
)

// Customer classifies who is buying the workshop's output.
type Customer string

const (
	Commercial      Customer = "commercial"
	OtherGovernment Customer = "ogd"
)

// VAT is the caller's VAT setting. It only takes effect for commercial customers.
type VAT struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Rate    float64 `json:"rate" yaml:"rate"`
}

// MaintenanceMethod selects how monthly maintenance is derived.
type MaintenanceMethod string

const (
	MaintenancePerArea       MaintenanceMethod = "per_area"
	MaintenanceFixed         MaintenanceMethod = "fixed"
	MaintenanceReinstatement MaintenanceMethod = "reinstatement"
)

// Maintenance holds the inputs for whichever method is selected. An empty
// method behaves as per_area; a zero RatePerArea uses the band's rate.
type Maintenance struct {
	Method               MaintenanceMethod `json:"method" yaml:"method"`
	RatePerArea          float64           `json:"rate_per_area" yaml:"rate_per_area"`
	FixedMonthly         float64           `json:"fixed_monthly" yaml:"fixed_monthly"`
	ReinstatementValue   float64           `json:"reinstatement_value" yaml:"reinstatement_value"`
	ReinstatementPercent float64           `json:"reinstatement_percent" yaml:"reinstatement_percent"`
}

// Workshop carries the caller-validated parameters shared by every calculator.
type Workshop struct {
	Area                        float64            `json:"area" yaml:"area"`
	WeeklyHours                 float64            `json:"weekly_hours" yaml:"weekly_hours"`
	Prisoners                   int                `json:"prisoners" yaml:"prisoners"`
	PrisonerWeeklyWage          float64            `json:"prisoner_weekly_wage" yaml:"prisoner_weekly_wage"`
	SupervisorSalaries          []float64          `json:"supervisor_salaries" yaml:"supervisor_salaries"`
	SupervisorAllocationPercent float64            `json:"supervisor_allocation_percent" yaml:"supervisor_allocation_percent"`
	AllocationJustification     string             `json:"allocation_justification,omitempty" yaml:"allocation_justification"`
	Contracts                   int                `json:"contracts" yaml:"contracts"`
	Customer                    Customer           `json:"customer" yaml:"customer"`
	VAT                         VAT                `json:"vat" yaml:"vat"`
	SupportTier                 tariff.SupportTier `json:"support_tier" yaml:"support_tier"`
	Band                        string             `json:"band" yaml:"band"`
	Maintenance                 Maintenance        `json:"maintenance" yaml:"maintenance"`
	CustomerPaysSupervisors     bool               `json:"customer_pays_supervisors" yaml:"customer_pays_supervisors"`
	OutputPercent               float64            `json:"output_percent" yaml:"output_percent"`
}

// RecommendedAllocation is the share of each supervisor's time one workshop
// should carry when the supervisor oversees the given number of contracts.
func RecommendedAllocation(contracts int) float64 {
	if contracts < 1 {
		contracts = 1
	}
	return 100.0 / float64(contracts)
}

func (w Workshop) vatApplies() bool {
	return w.Customer == Commercial && w.VAT.Enabled
}

// appliedVATRate is the percentage actually charged: zero unless VAT applies.
func (w Workshop) appliedVATRate() float64 {
	if !w.vatApplies() {
		return 0
	}
	return w.VAT.Rate
}

func (w Workshop) withVAT(amount float64) float64 {
	return amount * (1 + w.appliedVATRate()/100)
}

// instructorMonthly sums each supervisor's monthly salary scaled by the allocation.
func (w Workshop) instructorMonthly() float64 {
	total := 0.0
	for _, salary := range w.SupervisorSalaries {
		total += salary / monthsPerYear * (w.SupervisorAllocationPercent / 100)
	}
	return total
}

// developmentCharge applies to commercial customers only.
func (w Workshop) developmentCharge(cfg *tariff.Configuration, overheads float64) float64 {
	if w.Customer != Commercial {
		return 0
	}
	return overheads * cfg.EffectiveDevelopmentRate(w.SupportTier)
}

func (w Workshop) overheadInput() OverheadInput {
	return OverheadInput{
		Band:                    w.Band,
		Area:                    w.Area,
		WeeklyHours:             w.WeeklyHours,
		Prisoners:               w.Prisoners,
		Supervisors:             len(w.SupervisorSalaries),
		CustomerPaysSupervisors: w.CustomerPaysSupervisors,
		Maintenance:             w.Maintenance,
	}
}

// weeklyCosts are the shared weekly figures the production calculators spread.
type weeklyCosts struct {
	Instructor  float64
	Overhead    float64
	Development float64
}

func (w Workshop) weeklyShared(cfg *tariff.Configuration) (weeklyCosts, Overheads) {
	oh := ResolveOverheads(cfg, w.overheadInput())

	instructor := 0.0
	if !w.CustomerPaysSupervisors {
		instructor = monthlyToWeekly(w.instructorMonthly())
	}
	return weeklyCosts{
		Instructor:  instructor,
		Overhead:    oh.Weekly(),
		Development: monthlyToWeekly(w.developmentCharge(cfg, oh.Total)),
	}, oh
}

func (c weeklyCosts) total() float64 {
	return c.Instructor + c.Overhead + c.Development
}

func monthlyToWeekly(monthly float64) float64 {
	return monthly * monthsPerYear / weeksPerYear
}

package costing

import (
	"github.com/Simplici0/workshopcost/internal/tariff"
)

// OverheadInput is what apportionment needs from a workshop.
type OverheadInput struct {
	Band                    string
	Area                    float64
	WeeklyHours             float64
	Prisoners               int
	Supervisors             int
	CustomerPaysSupervisors bool
	Maintenance             Maintenance
}

// Overheads is the monthly overhead detail for one workshop.
type Overheads struct {
	Band       tariff.BandKey `json:"band"`
	FellBack   bool           `json:"fell_back"`
	HoursScale float64        `json:"hours_scale"`
	Headcount  int            `json:"headcount"`

	ElectricityVariable float64 `json:"electricity_variable"`
	ElectricityFixed    float64 `json:"electricity_fixed"`
	GasVariable         float64 `json:"gas_variable"`
	GasFixed            float64 `json:"gas_fixed"`

	Electricity    float64 `json:"electricity"`
	Gas            float64 `json:"gas"`
	Water          float64 `json:"water"`
	Maintenance    float64 `json:"maintenance"`
	Administration float64 `json:"administration"`
	Total          float64 `json:"total"`
}

// Weekly converts the monthly total to a weekly figure.
func (o Overheads) Weekly() float64 {
	return monthlyToWeekly(o.Total)
}

// HoursScale is weekly hours as a fraction of the reference full week. It is
// never negative and is not capped at 1.
func HoursScale(weeklyHours, fullWeek float64) float64 {
	if fullWeek <= 0 || weeklyHours <= 0 {
		return 0
	}
	return weeklyHours / fullWeek
}

// ResolveOverheads apportions monthly utility, maintenance and administration
// cost to a workshop. Usage-linked energy and maintenance scale with open hours;
// daily standing charges and administration do not.
func ResolveOverheads(cfg *tariff.Configuration, in OverheadInput) Overheads {
	band, ok := cfg.Band(in.Band)
	scale := HoursScale(in.WeeklyHours, cfg.FullWeek())

	headcount := in.Prisoners
	if !in.CustomerPaysSupervisors {
		headcount += in.Supervisors
	}

	o := Overheads{
		Band:       band.Key,
		FellBack:   !ok,
		HoursScale: scale,
		Headcount:  headcount,
	}

	o.ElectricityVariable = band.ElectricityIntensity * in.Area / monthsPerYear * band.ElectricityRate * scale
	o.ElectricityFixed = band.ElectricityDailyCharge * tariff.DaysPerMonth
	o.GasVariable = band.GasIntensity * in.Area / monthsPerYear * band.GasRate * scale
	o.GasFixed = band.GasDailyCharge * tariff.DaysPerMonth

	o.Electricity = o.ElectricityVariable + o.ElectricityFixed
	o.Gas = o.GasVariable + o.GasFixed
	o.Water = float64(headcount) * band.WaterPerEmployee / monthsPerYear * band.WaterRate
	o.Maintenance = maintenanceMonthly(band, in.Area, in.Maintenance) * scale
	o.Administration = band.AdminMonthly

	o.Total = o.Electricity + o.Gas + o.Water + o.Maintenance + o.Administration
	return o
}

func maintenanceMonthly(band tariff.Band, area float64, m Maintenance) float64 {
	switch m.Method {
	case MaintenanceFixed:
		return m.FixedMonthly
	case MaintenanceReinstatement:
		return m.ReinstatementValue * m.ReinstatementPercent / 100 / monthsPerYear
	default:
		rate := m.RatePerArea
		if rate <= 0 {
			rate = band.MaintenancePerArea
		}
		return rate / monthsPerYear * area
	}
}

// Package report turns quote results into documents for people: plain text
// for notifications, Markdown/HTML for the browser and PDF for sending out.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/workshopcost/internal/costing"
	"github.com/Simplici0/workshopcost/internal/store"
	"github.com/Simplici0/workshopcost/internal/tariff"
)

const dateLayout = "2 Jan 2006"

// Field is a labelled value.
type Field struct {
	Label string
	Value string
}

// Section is a headed block holding fields, a table, or both.
type Section struct {
	Heading string
	Fields  []Field
	Columns []string
	Rows    [][]string
	Notes   []string
}

// Document is a rendering-neutral quote report.
type Document struct {
	Title    string
	Meta     []Field
	Sections []Section
}

// Field returns the value of the metadata field with the given label.
func (d Document) Field(label string) (string, bool) {
	for _, f := range d.Meta {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

// Meta identifies the quote a document is built for.
type Meta struct {
	ID        string
	Title     string
	Customer  string
	Band      string
	CreatedAt string
	Currency  string
}

func (m Meta) fields(mode string) []Field {
	var out []Field
	if m.ID != "" {
		out = append(out, Field{"Reference", m.ID})
	}
	if m.CreatedAt != "" {
		out = append(out, Field{"Date", m.CreatedAt})
	}
	out = append(out, Field{"Mode", mode})
	if m.Customer != "" {
		out = append(out, Field{"Customer", m.Customer})
	}
	if m.Band != "" {
		out = append(out, Field{"Tariff band", m.Band})
	}
	return out
}

func (m Meta) title(fallback string) string {
	if t := strings.TrimSpace(m.Title); t != "" {
		return t
	}
	return fallback
}

// Money formats an amount rounded to pence with thousands separators.
func Money(symbol string, v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	return symbol + humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

func optionalMoney(symbol string, v *float64) string {
	if v == nil {
		return "n/a"
	}
	return Money(symbol, *v)
}

func minutes(v float64) string {
	return humanize.FormatFloat("#,###.", v) + " min"
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func overheadSection(cur string, o costing.Overheads) Section {
	s := Section{
		Heading: "Overheads (monthly)",
		Fields: []Field{
			{"Tariff band", string(o.Band)},
			{"Hours scale", fmt.Sprintf("%.3f", o.HoursScale)},
			{"Utility headcount", fmt.Sprintf("%d", o.Headcount)},
			{"Electricity", Money(cur, o.Electricity)},
			{"Gas", Money(cur, o.Gas)},
			{"Water", Money(cur, o.Water)},
			{"Maintenance", Money(cur, o.Maintenance)},
			{"Administration", Money(cur, o.Administration)},
			{"Total", Money(cur, o.Total)},
		},
	}
	if o.FellBack {
		s.Notes = append(s.Notes, fmt.Sprintf("Requested tariff band was not recognised; the %s band was used.", o.Band))
	}
	return s
}

// Host builds the document for a host quote.
func Host(m Meta, q costing.HostQuote) Document {
	cur := m.Currency
	breakdown := Section{Heading: "Monthly charge"}
	for _, r := range q.Breakdown.Rows() {
		breakdown.Fields = append(breakdown.Fields, Field{r.Label, Money(cur, r.Amount)})
	}
	return Document{
		Title:    m.title("Host quote"),
		Meta:     m.fields("Host"),
		Sections: []Section{breakdown, overheadSection(cur, q.Overheads)},
	}
}

// Production builds the document for a contractual production quote.
func Production(m Meta, q costing.ProductionQuote) Document {
	cur := m.Currency
	items := Section{
		Heading: "Items",
		Columns: []string{"Item", "Output", "Units/week", "Share", "Weekly cost", "Unit cost", "Unit price inc VAT"},
	}
	for _, it := range q.Items {
		items.Rows = append(items.Rows, []string{
			it.Name,
			percent(it.OutputPercent),
			fmt.Sprintf("%d", it.UnitsPerWeek),
			percent(it.Share * 100),
			Money(cur, it.WeeklyCost),
			optionalMoney(cur, it.UnitCost),
			optionalMoney(cur, it.UnitPriceIncVAT),
		})
		if it.UnitCost == nil {
			items.Notes = append(items.Notes, fmt.Sprintf("%s produces no units per week, so it has no unit price.", it.Name))
		}
	}
	shared := Section{
		Heading: "Shared weekly cost",
		Fields: []Field{
			{"Instructor", Money(cur, q.WeeklyInstructor)},
			{"Overheads", Money(cur, q.WeeklyOverhead)},
			{"Development charge", Money(cur, q.WeeklyDevelopment)},
			{"VAT rate", percent(q.VATRate)},
		},
	}
	return Document{
		Title:    m.title("Contractual production quote"),
		Meta:     m.fields("Production (contractual)"),
		Sections: []Section{items, shared, overheadSection(cur, q.Overheads)},
	}
}

// Adhoc builds the document for an ad-hoc job quote.
func Adhoc(m Meta, r costing.AdhocResult) Document {
	cur := m.Currency
	lines := Section{
		Heading: "Lines",
		Columns: []string{"Line", "Units", "Deadline", "Work", "Cost ex VAT", "Cost inc VAT", "Days available", "Days needed"},
	}
	for _, l := range r.Lines {
		lines.Rows = append(lines.Rows, []string{
			l.Name,
			fmt.Sprintf("%d", l.Units),
			l.Deadline.Format(dateLayout),
			minutes(l.TotalMinutes),
			Money(cur, l.LineCostExVAT),
			Money(cur, l.LineCostIncVAT),
			fmt.Sprintf("%d", l.DaysAvailable),
			l.DaysNeeded.String(),
		})
	}

	totals := Section{
		Heading: "Totals",
		Fields: []Field{
			{"Cost per minute", Money(cur, r.CostPerMinute)},
			{"Total ex VAT", Money(cur, r.TotalExVAT)},
			{fmt.Sprintf("Total inc VAT (%s)", percent(r.VATRate)), Money(cur, r.TotalIncVAT)},
		},
	}

	f := r.Feasibility
	verdict := "Achievable"
	if f.HardBlock {
		verdict = "Blocked"
	}
	feasibility := Section{
		Heading: "Feasibility",
		Fields: []Field{
			{"Verdict", verdict},
			{"Daily capacity", minutes(r.DailyCapacityMinutes)},
			{"Weekly capacity", minutes(r.WeeklyCapacityMinutes)},
			{"Working days to earliest deadline", fmt.Sprintf("%d", f.AvailableDays)},
			{"Minutes available", minutes(f.AvailableMinutes)},
			{"Minutes required", minutes(f.TotalMinutes)},
			{"Working days required", f.DaysNeeded.String()},
		},
	}
	if f.Reason != "" {
		feasibility.Notes = append(feasibility.Notes, f.Reason)
	}

	return Document{
		Title:    m.title("Ad-hoc job quote"),
		Meta:     m.fields("Production (ad-hoc)"),
		Sections: []Section{lines, totals, feasibility, overheadSection(cur, r.Overheads)},
	}
}

// FromQuote rebuilds a document from a logged snapshot without recalculating.
func FromQuote(q store.Quote, currency string) (Document, error) {
	m := Meta{
		ID:        q.ID,
		Title:     q.Title,
		Customer:  q.Customer,
		Band:      q.Band,
		CreatedAt: q.CreatedAt,
		Currency:  currency,
	}
	switch q.Mode {
	case store.ModeHost:
		var r costing.HostQuote
		if err := q.DecodeResult(&r); err != nil {
			return Document{}, err
		}
		return Host(m, r), nil
	case store.ModeProduction:
		var r costing.ProductionQuote
		if err := q.DecodeResult(&r); err != nil {
			return Document{}, err
		}
		return Production(m, r), nil
	case store.ModeAdhoc:
		var r costing.AdhocResult
		if err := q.DecodeResult(&r); err != nil {
			return Document{}, err
		}
		return Adhoc(m, r), nil
	default:
		return Document{}, fmt.Errorf("unknown quote mode %q", q.Mode)
	}
}

// Tariffs builds a document listing every band and the engine policy.
func Tariffs(cfg *tariff.Configuration, currency string) Document {
	bands := Section{
		Heading: "Bands",
		Columns: []string{"Band", "Elec/kWh", "Gas/kWh", "Elec/day", "Gas/day", "Water/m³", "Admin/month", "Elec kWh/m²", "Gas kWh/m²", "Water m³/employee", "Maint/m²"},
	}
	rate := func(v float64) string { return currency + humanize.FormatFloat("#,###.###", v) }
	qty := func(v float64) string { return humanize.FormatFloat("#,###.##", v) }
	for _, k := range cfg.Keys() {
		b := cfg.Bands[k]
		bands.Rows = append(bands.Rows, []string{
			string(k),
			rate(b.ElectricityRate),
			rate(b.GasRate),
			rate(b.ElectricityDailyCharge),
			rate(b.GasDailyCharge),
			rate(b.WaterRate),
			Money(currency, b.AdminMonthly),
			qty(b.ElectricityIntensity),
			qty(b.GasIntensity),
			qty(b.WaterPerEmployee),
			Money(currency, b.MaintenancePerArea),
		})
	}

	policy := Section{
		Heading: "Policy",
		Fields: []Field{
			{"Default band", string(cfg.DefaultBand)},
			{"Full week", humanize.FormatFloat("#,###.#", cfg.FullWeek()) + " hours"},
			{"Development rate", percent(cfg.DevelopmentRate * 100)},
		},
	}
	for _, tier := range []tariff.SupportTier{tariff.SupportNone, tariff.SupportPartial, tariff.SupportFull} {
		policy.Fields = append(policy.Fields, Field{
			Label: fmt.Sprintf("Effective rate (%s support)", tier),
			Value: percent(cfg.EffectiveDevelopmentRate(tier) * 100),
		})
	}

	return Document{Title: "Tariff catalog", Sections: []Section{bands, policy}}
}

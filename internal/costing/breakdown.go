package costing

import "fmt"

// Row labels, in report order.
const (
	LabelPrisonerWages  = "Prisoner Wages"
	LabelInstructorCost = "Instructor Cost"
	LabelElectricity    = "Electricity"
	LabelGas            = "Gas"
	LabelWater          = "Water"
	LabelAdministration = "Administration"
	LabelMaintenance    = "Maintenance"
	LabelDevelopment    = "Development Charge"
	LabelSubtotal       = "Subtotal"
	LabelGrandTotal     = "Grand Total"
)

// Row is one labelled amount.
type Row struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Breakdown is an ordered set of cost rows with its totals. Items keeps
// insertion order, which is the order reports display.
type Breakdown struct {
	Items      []Row   `json:"items"`
	Subtotal   float64 `json:"subtotal"`
	VATRate    float64 `json:"vat_rate"`
	VAT        float64 `json:"vat"`
	GrandTotal float64 `json:"grand_total"`
}

func (b *Breakdown) add(label string, amount float64) {
	b.Items = append(b.Items, Row{Label: label, Amount: amount})
}

// close totals the itemized rows. vatRate is the percentage actually charged.
func (b *Breakdown) close(vatRate float64) {
	subtotal := 0.0
	for _, r := range b.Items {
		subtotal += r.Amount
	}
	b.Subtotal = subtotal
	b.VATRate = vatRate
	b.VAT = subtotal * vatRate / 100
	b.GrandTotal = subtotal + b.VAT
}

// VATLabel names the VAT row with the rate charged, e.g. "VAT (20.0%)".
func (b Breakdown) VATLabel() string {
	return fmt.Sprintf("VAT (%.1f%%)", b.VATRate)
}

// Rows returns the itemized rows followed by Subtotal, VAT and Grand Total.
func (b Breakdown) Rows() []Row {
	rows := make([]Row, 0, len(b.Items)+3)
	rows = append(rows, b.Items...)
	return append(rows,
		Row{Label: LabelSubtotal, Amount: b.Subtotal},
		Row{Label: b.VATLabel(), Amount: b.VAT},
		Row{Label: LabelGrandTotal, Amount: b.GrandTotal},
	)
}

// Amount looks up an itemized row by label.
func (b Breakdown) Amount(label string) (float64, bool) {
	for _, r := range b.Items {
		if r.Label == label {
			return r.Amount, true
		}
	}
	return 0, false
}

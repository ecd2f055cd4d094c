package pricing

import "github.com/shopspring/decimal"

// Money renders v with two decimal places, rounding half away from zero.
// Stored values keep full float64 precision; rounding is for presentation.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// LineDisplay is a Line's prices formatted for people.
type LineDisplay struct {
	ID                    string `json:"id"`
	RetailPricePerGram    string `json:"retailPricePerGram"`
	CostPricePerGram      string `json:"costPricePerGram"`
	WholesalePricePerGram string `json:"wholesalePricePerGram"`
	SubtotalCost          string `json:"subtotalCost"`
}

// Display carries two-decimal strings for every amount on an invoice.
type Display struct {
	Items           []LineDisplay `json:"items"`
	PrescriptionFee string        `json:"prescriptionFee"`
	TotalCost       string        `json:"totalCost"`
}

// NewDisplay formats the amounts of inv with Money.
func NewDisplay(inv Invoice) Display {
	d := Display{
		Items:           make([]LineDisplay, 0, len(inv.Items)),
		PrescriptionFee: Money(inv.PrescriptionFee),
		TotalCost:       Money(inv.TotalCost),
	}
	for _, line := range inv.Items {
		d.Items = append(d.Items, LineDisplay{
			ID:                    line.ID,
			RetailPricePerGram:    Money(line.RetailPricePerGram),
			CostPricePerGram:      Money(line.CostPricePerGram),
			WholesalePricePerGram: Money(line.WholesalePricePerGram),
			SubtotalCost:          Money(line.SubtotalCost),
		})
	}
	return d
}

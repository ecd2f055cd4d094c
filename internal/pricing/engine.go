// Package pricing turns prescription line items into priced invoices.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/tcm-pricing/internal/catalog"
	"github.com/noah-isme/tcm-pricing/internal/obs"
)

const (
	// CostRatio is the share of retail price booked as procurement cost.
	CostRatio = 0.6
	// WholesaleRatio is the share of retail price used for wholesale.
	WholesaleRatio = 0.75

	// UnknownMedicineName labels a catalog entry with neither name set.
	UnknownMedicineName = "未知药品"
	// UnknownPharmacyName is used when the caller names no pharmacy.
	UnknownPharmacyName = "未知药房"
)

// Item is one prescribed medicine. Quantity is in grams.
type Item struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
}

// Line is a priced invoice row. All prices are per gram; SubtotalCost is
// CostPricePerGram times Quantity without rounding.
type Line struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Quantity              float64 `json:"quantity"`
	RetailPricePerGram    float64 `json:"retailPricePerGram"`
	CostPricePerGram      float64 `json:"costPricePerGram"`
	WholesalePricePerGram float64 `json:"wholesalePricePerGram"`
	SubtotalCost          float64 `json:"subtotalCost"`
}

// Invoice is the priced result for one prescription. Skipped lists item ids
// the catalog could not resolve; they contribute nothing to TotalCost.
type Invoice struct {
	ID              string   `json:"id"`
	PrescriptionID  string   `json:"prescriptionId"`
	Date            string   `json:"date"`
	PharmacyName    string   `json:"pharmacyName"`
	Items           []Line   `json:"items"`
	PrescriptionFee float64  `json:"prescriptionFee"`
	TotalCost       float64  `json:"totalCost"`
	Skipped         []string `json:"skippedIds,omitempty"`
	Display         Display  `json:"display"`
}

// Calculator prices prescriptions against a catalog.
type Calculator struct {
	Catalog catalog.Reader
	Logger  zerolog.Logger
	IDs     *IDGenerator
	Now     func() time.Time
}

// NewCalculator constructs a Calculator with a fresh id generator.
func NewCalculator(cat catalog.Reader, logger zerolog.Logger) *Calculator {
	return &Calculator{
		Catalog: cat,
		Logger:  logger,
		IDs:     NewIDGenerator(),
		Now:     time.Now,
	}
}

// Generate prices items and adds prescriptionFee once to the total. Items
// whose id is not in the catalog are skipped with a warning. Only catalog
// backend failures other than a miss are returned as errors.
func (c *Calculator) Generate(ctx context.Context, items []Item, prescriptionFee float64, prescriptionID, pharmacyName string) (Invoice, error) {
	if c.Catalog == nil {
		return Invoice{}, errors.New("pricing: catalog is required")
	}
	now := c.now()
	if pharmacyName == "" {
		pharmacyName = UnknownPharmacyName
	}

	inv := Invoice{
		ID:              c.ids().Next(now),
		PrescriptionID:  prescriptionID,
		Date:            FormatDate(now),
		PharmacyName:    pharmacyName,
		Items:           make([]Line, 0, len(items)),
		PrescriptionFee: prescriptionFee,
	}

	var total float64
	for _, it := range items {
		entry, err := c.Catalog.Lookup(ctx, it.ID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				c.Logger.Warn().
					Str("medicine_id", it.ID).
					Str("prescription_id", prescriptionID).
					Msg("skip unknown medicine")
				inv.Skipped = append(inv.Skipped, it.ID)
				continue
			}
			return Invoice{}, fmt.Errorf("price item %q: %w", it.ID, err)
		}
		line := PriceLine(entry, it.Quantity)
		total += line.SubtotalCost
		inv.Items = append(inv.Items, line)
	}
	inv.TotalCost = total + prescriptionFee
	inv.Display = NewDisplay(inv)

	if obs.InvoicesGeneratedTotal != nil {
		obs.InvoicesGeneratedTotal.Inc()
	}
	if obs.InvoiceItemsSkippedTotal != nil && len(inv.Skipped) > 0 {
		obs.InvoiceItemsSkippedTotal.Add(float64(len(inv.Skipped)))
	}
	return inv, nil
}

// PriceLine derives the cost and wholesale prices for quantity grams of entry.
func PriceLine(entry catalog.Entry, quantity float64) Line {
	retail := entry.PricePerGram
	cost := retail * CostRatio
	name := entry.DisplayName()
	if name == "" {
		name = UnknownMedicineName
	}
	return Line{
		ID:                    entry.ID,
		Name:                  name,
		Quantity:              quantity,
		RetailPricePerGram:    retail,
		CostPricePerGram:      cost,
		WholesalePricePerGram: retail * WholesaleRatio,
		SubtotalCost:          cost * quantity,
	}
}

// FormatDate renders t as a short year/month/day date. The value is for
// display only.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}

func (c *Calculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Calculator) ids() *IDGenerator {
	if c.IDs == nil {
		return defaultIDs
	}
	return c.IDs
}

// Package invoice exposes invoice pricing over HTTP and keeps recently
// generated invoices for retrieval.
package invoice

import (
	"context"
	"errors"

	"github.com/noah-isme/tcm-pricing/internal/cache"
	"github.com/noah-isme/tcm-pricing/internal/obs"
	"github.com/noah-isme/tcm-pricing/internal/pricing"
)

// ErrNotFound is returned for invoice ids that were never archived or have expired.
var ErrNotFound = errors.New("invoice not found")

// Archive stores generated invoices in Redis under invoice:<id>. An archive
// without a backing store drops writes and finds nothing.
type Archive struct {
	Store *cache.JSON
}

// Save stores inv until the store's TTL elapses.
func (a Archive) Save(ctx context.Context, inv pricing.Invoice) error {
	if !a.Store.Enabled() {
		countArchive("disabled")
		return nil
	}
	if err := a.Store.Set(ctx, cache.KeyInvoice(inv.ID), inv); err != nil {
		countArchive("error")
		return err
	}
	countArchive("stored")
	return nil
}

// Load returns the archived invoice with the given id.
func (a Archive) Load(ctx context.Context, id string) (pricing.Invoice, error) {
	var inv pricing.Invoice
	ok, err := a.Store.Get(ctx, cache.KeyInvoice(id), &inv)
	if err != nil {
		return pricing.Invoice{}, err
	}
	if !ok {
		return pricing.Invoice{}, ErrNotFound
	}
	return inv, nil
}

func countArchive(result string) {
	if obs.InvoiceArchiveTotal != nil {
		obs.InvoiceArchiveTotal.WithLabelValues(result).Inc()
	}
}

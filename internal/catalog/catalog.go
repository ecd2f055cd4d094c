// Package catalog resolves medicine identifiers to names and retail prices.
package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Lookup when no medicine carries the id.
var ErrNotFound = errors.New("medicine not found")

// Entry is a medicine as priced by the catalog.
type Entry struct {
	ID           string  `json:"id"`
	ChineseName  string  `json:"chineseName,omitempty"`
	EnglishName  string  `json:"englishName,omitempty"`
	PinyinName   string  `json:"pinyinName,omitempty"`
	SKU          string  `json:"sku,omitempty"`
	PricePerGram float64 `json:"pricePerGram"`
}

// DisplayName prefers the Chinese name, then the English one.
func (e Entry) DisplayName() string {
	if e.ChineseName != "" {
		return e.ChineseName
	}
	return e.EnglishName
}

// Reader is the read side every catalog backend provides.
type Reader interface {
	Lookup(ctx context.Context, id string) (Entry, error)
	List(ctx context.Context) ([]Entry, error)
}

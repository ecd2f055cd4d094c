package sku

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/noah-isme/tcm-pricing/internal/obs"
)

// MaxSuffix bounds the numeric suffixes tried by ResolveConflict.
const MaxSuffix = 99

// ErrConflictExhausted is returned when every suffix up to MaxSuffix is taken.
var ErrConflictExhausted = errors.New("sku conflict suffixes exhausted")

// Entry pairs a medicine name with its code.
type Entry struct {
	ChineseName string `json:"chineseName" validate:"required"`
	PinyinName  string `json:"pinyinName"`
	SKU         string `json:"sku,omitempty"`
}

// Registry tracks codes assigned during a single batch. It is not safe for
// concurrent use; callers create one per batch.
type Registry struct {
	taken map[string]struct{}
}

// NewRegistry seeds a registry with already assigned codes.
func NewRegistry(existing ...string) *Registry {
	reg := &Registry{taken: make(map[string]struct{}, len(existing))}
	for _, code := range existing {
		reg.taken[code] = struct{}{}
	}
	return reg
}

// Has reports whether code is already assigned.
func (r *Registry) Has(code string) bool {
	_, ok := r.taken[code]
	return ok
}

// Add marks code as assigned.
func (r *Registry) Add(code string) {
	r.taken[code] = struct{}{}
}

// Len returns the number of assigned codes.
func (r *Registry) Len() int {
	return len(r.taken)
}

// Resolve returns base if it is free, otherwise the first free suffixed
// variant. Codes shorter than MaxLength get the suffix appended; full-length
// codes have their last letter replaced.
func (r *Registry) Resolve(base string) (string, error) {
	if !r.Has(base) {
		return base, nil
	}
	for suffix := 1; suffix <= MaxSuffix; suffix++ {
		candidate := withSuffix(base, suffix)
		if !r.Has(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("resolve %q: %w", base, ErrConflictExhausted)
}

func withSuffix(base string, suffix int) string {
	digits := strconv.Itoa(suffix)
	if len(base) < MaxLength {
		return base + digits
	}
	return base[:MaxLength-1] + digits
}

// ResolveConflict resolves base against a list of existing codes.
func ResolveConflict(base string, existing []string) (string, error) {
	return NewRegistry(existing...).Resolve(base)
}

// Batch assigns codes to entries in order. Earlier entries keep the unsuffixed
// code when two entries share a base code.
func Batch(entries []Entry) ([]Entry, error) {
	reg := NewRegistry()
	out := make([]Entry, 0, len(entries))
	for i, entry := range entries {
		base := Generate(entry.ChineseName, entry.PinyinName)
		code, err := reg.Resolve(base)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, entry.ChineseName, err)
		}
		if code != base && obs.SKUConflictsTotal != nil {
			obs.SKUConflictsTotal.Inc()
		}
		reg.Add(code)
		out = append(out, Entry{
			ChineseName: entry.ChineseName,
			PinyinName:  entry.PinyinName,
			SKU:         code,
		})
	}
	return out, nil
}

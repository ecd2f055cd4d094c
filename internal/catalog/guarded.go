package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/tcm-pricing/internal/resilience"
)

// ErrUnavailable is returned while the catalog backend is failing and the
// breaker is rejecting calls.
var ErrUnavailable = errors.New("catalog unavailable")

// Guarded fails fast once the inner reader keeps erroring. Misses do not count
// as failures.
type Guarded struct {
	Inner   Reader
	Breaker *resilience.Breaker
}

// Lookup delegates to Inner through the breaker.
func (g Guarded) Lookup(ctx context.Context, id string) (Entry, error) {
	var e Entry
	err := g.Breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		e, err = g.Inner.Lookup(ctx, id)
		return err
	}, isOutage)
	return e, unavailable(err)
}

// List delegates to Inner through the breaker.
func (g Guarded) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := g.Breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		entries, err = g.Inner.List(ctx)
		return err
	}, isOutage)
	return entries, unavailable(err)
}

func isOutage(err error) bool {
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, context.Canceled)
}

func unavailable(err error) error {
	if errors.Is(err, resilience.ErrOpenCircuit) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

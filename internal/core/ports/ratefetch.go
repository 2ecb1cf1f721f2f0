// Package ports holds contracts for external collaborators consumed by the
// core services.
package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateFetcher performs the network lookup for exchange rates. Given a base
// currency code and target codes it returns a mapping of target code to
// foreign-units-per-base-unit. Implementations must be treated as unreliable
// and slow; the rates cache is the only component allowed to call one, and
// only with validated non-empty inputs and a non-blank credential.
type RateFetcher interface {
	FetchRates(ctx context.Context, base string, symbols []string, apiKey string) (map[string]decimal.Decimal, error)
}

package services

import (
	"github.com/pfledger/finance_ledger_app/internal/core/ports"
	portsrepo "github.com/pfledger/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/pfledger/finance_ledger_app/internal/core/ports/services"
	"github.com/pfledger/finance_ledger_app/internal/platform/config"
)

// NewServiceContainer wires every service with its dependencies. Called once
// at startup; the container lives for the process lifetime.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, fetcher ports.RateFetcher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Rates = NewRatesService(fetcher, cfg.RateCacheTTL)
	container.Ledger = NewLedgerService(repos)
	container.Aggregation = NewAggregationService(repos, container.Rates,
		WithDefaultRateAPIKey(cfg.RateAPIKey))

	return container
}

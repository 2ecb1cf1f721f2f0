package services

// ServiceContainer holds every service facade, constructed once at startup
// and torn down with the process.
type ServiceContainer struct {
	Ledger      LedgerSvcFacade
	Aggregation AggregationSvcFacade
	Rates       RatesSvcFacade
}

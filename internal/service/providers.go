package service

import (
	"travelbot/internal/catalog"
	"travelbot/internal/config"
)

// Providers bundles the search and status adapters built from configuration
type Providers struct {
	Flights  *FlightSearchAdapter
	Hotels   *HotelSearchAdapter
	Status   *FlightStatusAdapter
	Fallback *FallbackGenerator
}

// NewProviders wires one rate-limited client per provider. Disabled
// providers still get adapters; their searches always use fallback offers.
func NewProviders(cfg *config.Config, c *catalog.Catalog, rnd RandomSource) *Providers {
	if rnd == nil {
		rnd = NewRandomSource()
	}
	fallback := NewFallbackGenerator(c, rnd)

	search := NewProviderClient("search", cfg.Search)
	status := NewProviderClient("flight_status", cfg.Status)

	return &Providers{
		Flights:  NewFlightSearchAdapter(search, c, fallback, cfg.Rates.USDToMAD),
		Hotels:   NewHotelSearchAdapter(search, NewHotelRanker(1.0), fallback, cfg.Rates.USDToMAD),
		Status:   NewFlightStatusAdapter(status, c),
		Fallback: fallback,
	}
}

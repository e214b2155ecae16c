package service

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"travelbot/internal/catalog"
	"travelbot/internal/model"
)

// RandomSource supplies randomness to the fallback generator and booking
// references. *rand.Rand satisfies it; tests inject a deterministic source.
type RandomSource interface {
	Intn(n int) int
}

// lockedRand makes a *rand.Rand safe for concurrent handlers
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a goroutine-safe source seeded from the clock
func NewRandomSource() RandomSource {
	return &lockedRand{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// FlightPriceNoise bounds the random fare deviation in MAD. It is added
// after the class multiplier, so every class shares the same band.
const FlightPriceNoise = 400

// FlightBasePrices are economy fares in MAD per destination tier
var FlightBasePrices = map[catalog.PriceTier]float64{
	catalog.TierDomestic:        900,
	catalog.TierGulfNorthAfrica: 2600,
	catalog.TierEurope:          3200,
	catalog.TierMediterranean:   3800,
	catalog.TierTransatlantic:   7500,
}

type durationRange struct {
	min, max int // minutes
}

// flightDurations buckets flight time by distance
var flightDurations = map[catalog.PriceTier]durationRange{
	catalog.TierDomestic:        {60, 180},
	catalog.TierEurope:          {180, 240},
	catalog.TierMediterranean:   {180, 240},
	catalog.TierGulfNorthAfrica: {240, 720},
	catalog.TierTransatlantic:   {240, 720},
}

var classFeatures = map[string]string{
	catalog.ClassBusiness: "صالة انتظار خاصة",
	catalog.ClassFirst:    "مقعد سرير وخدمة شخصية",
}

// FallbackGenerator fabricates plausible offers when a provider is
// unavailable. Flight offers are randomized; hotel offers are derived from
// the catalog and are stable for a given city and category.
type FallbackGenerator struct {
	catalog *catalog.Catalog
	rnd     RandomSource
}

// NewFallbackGenerator creates a generator over the catalog and random source
func NewFallbackGenerator(c *catalog.Catalog, rnd RandomSource) *FallbackGenerator {
	if rnd == nil {
		rnd = NewRandomSource()
	}
	return &FallbackGenerator{catalog: c, rnd: rnd}
}

// Flights returns two synthetic flight offers for the route and class
func (g *FallbackGenerator) Flights(criteria model.FlightCriteria) model.FormattedResult {
	tier := g.catalog.Tier(criteria.Destination)
	base := FlightBasePrices[tier]
	multiplier := catalog.ClassMultiplier(criteria.Class)
	durations := flightDurations[tier]

	start := g.rnd.Intn(len(catalog.Airlines))
	offers := make([]model.Offer, 0, model.MaxOffers)

	for i := 0; i < model.MaxOffers; i++ {
		airline := catalog.Airlines[(start+i)%len(catalog.Airlines)]

		noise := float64(g.rnd.Intn(2*FlightPriceNoise+1) - FlightPriceNoise)
		price := roundTo10(base*multiplier + noise)

		departure := (6+g.rnd.Intn(16))*60 + g.rnd.Intn(4)*15
		duration := durations.min + g.rnd.Intn(durations.max-durations.min+1)

		stops := 0
		if durations.max > 240 && g.rnd.Intn(2) == 1 {
			stops = 1
		}

		features := append([]string(nil), airline.Features...)
		if extra, ok := classFeatures[criteria.Class]; ok {
			features = append(features, extra)
		}

		offers = append(offers, model.Offer{
			Kind:            model.OfferFlight,
			Name:            airline.Name,
			Code:            airline.Code,
			FlightNumber:    fmt.Sprintf("%s%d", airline.Code, 100+g.rnd.Intn(900)),
			Departure:       clock(departure),
			Arrival:         clock(departure + duration),
			DurationMinutes: duration,
			Stops:           stops,
			Price:           price,
			Rating:          3.8 + float64(g.rnd.Intn(11))/10,
			Features:        features,
		})
	}

	return model.FormattedResult{
		Kind:     model.OfferFlight,
		Offers:   offers,
		Currency: model.DisplayCurrency,
		Source:   model.SourceFallback,
	}
}

// Hotels returns the two catalog hotels for the city, priced by category
func (g *FallbackGenerator) Hotels(criteria model.HotelCriteria) model.FormattedResult {
	base := g.catalog.HotelBasePrice(criteria.City)
	multiplier := catalog.CategoryMultiplier(criteria.Category)
	entries := g.catalog.Hotels(criteria.City)

	offers := make([]model.Offer, 0, model.MaxOffers)
	for _, h := range entries {
		if len(offers) == model.MaxOffers {
			break
		}
		offers = append(offers, model.Offer{
			Kind:      model.OfferHotel,
			Name:      h.Name,
			Price:     HotelFallbackPrice(base, multiplier, h.PriceFactor),
			PriceUnit: PerNight,
			Rating:    h.Rating,
			Features:  append([]string(nil), h.Features...),
			Location:  h.Location,
		})
	}

	return model.FormattedResult{
		Kind:     model.OfferHotel,
		Offers:   offers,
		Currency: model.DisplayCurrency,
		Source:   model.SourceFallback,
	}
}

// HotelFallbackPrice rounds base x category x entry factor to 10 MAD
func HotelFallbackPrice(base, categoryMultiplier, factor float64) float64 {
	return roundTo10(base * categoryMultiplier * factor)
}

func roundTo10(v float64) float64 {
	return math.Round(v/10) * 10
}

// clock renders minutes after midnight as HH:MM, wrapping past midnight
func clock(minutes int) string {
	minutes = ((minutes % (24 * 60)) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelbot/internal/catalog"
	"travelbot/internal/model"
)

// edgeRand always draws the lowest or the highest value
type edgeRand struct{ high bool }

func (r edgeRand) Intn(n int) int {
	if r.high {
		return n - 1
	}
	return 0
}

func TestFallbackFlightPriceBounds(t *testing.T) {
	c := catalog.Default()
	gen := NewFallbackGenerator(c, NewRandomSource())

	destinations := map[string]catalog.PriceTier{
		"فاس":     catalog.TierDomestic,
		"دبي":     catalog.TierGulfNorthAfrica,
		"باريس":   catalog.TierEurope,
		"إسطنبول": catalog.TierMediterranean,
		"نيويورك": catalog.TierTransatlantic,
	}
	classes := []string{catalog.ClassEconomy, catalog.ClassBusiness, catalog.ClassFirst}

	for destination, tier := range destinations {
		for _, class := range classes {
			base := FlightBasePrices[tier]
			mult := catalog.ClassMultiplier(class)
			low := base*mult - FlightPriceNoise
			high := base*mult + FlightPriceNoise
			durations := flightDurations[tier]

			for i := 0; i < 100; i++ {
				result := gen.Flights(model.FlightCriteria{Origin: "الرباط", Destination: destination, Class: class})
				require.Len(t, result.Offers, model.MaxOffers)
				assert.Equal(t, model.SourceFallback, result.Source)
				assert.Equal(t, model.DisplayCurrency, result.Currency)

				for _, o := range result.Offers {
					assert.GreaterOrEqual(t, o.Price, low, destination)
					assert.LessOrEqual(t, o.Price, high, destination)
					assert.GreaterOrEqual(t, o.DurationMinutes, durations.min)
					assert.LessOrEqual(t, o.DurationMinutes, durations.max)
					assert.GreaterOrEqual(t, o.Departure, "06:00")
					assert.LessOrEqual(t, o.Departure, "21:45")
					assert.GreaterOrEqual(t, o.Rating, 3.8-1e-9)
					assert.LessOrEqual(t, o.Rating, 4.8+1e-9)
					if tier == catalog.TierDomestic {
						assert.Zero(t, o.Stops)
					}
				}
				assert.NotEqual(t, result.Offers[0].Name, result.Offers[1].Name)
			}
		}
	}
}

func TestFallbackFlightClassMultiplier(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		class string
		low   float64
		high  float64
	}{
		{class: catalog.ClassEconomy, low: 2800, high: 3600},
		{class: catalog.ClassBusiness, low: 7600, high: 8400},
		{class: catalog.ClassFirst, low: 12400, high: 13200},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			criteria := model.FlightCriteria{Destination: "باريس", Class: tt.class}
			low := NewFallbackGenerator(c, edgeRand{}).Flights(criteria)
			high := NewFallbackGenerator(c, edgeRand{high: true}).Flights(criteria)

			for i := range low.Offers {
				assert.Equal(t, tt.low, low.Offers[i].Price)
				assert.Equal(t, tt.high, high.Offers[i].Price)
				assert.Equal(t, float64(2*FlightPriceNoise), high.Offers[i].Price-low.Offers[i].Price)
			}
		})
	}

	low := NewFallbackGenerator(c, edgeRand{}).Flights(model.FlightCriteria{Destination: "باريس"})
	assert.Equal(t, 2800.0, low.Offers[0].Price)
	assert.Equal(t, "الخطوط الملكية المغربية", low.Offers[0].Name)
	assert.Equal(t, "العربية للطيران", low.Offers[1].Name)
	assert.Equal(t, "06:00", low.Offers[0].Departure)
	assert.Equal(t, "AT100", low.Offers[0].FlightNumber)
}

func TestFallbackHotels(t *testing.T) {
	gen := NewFallbackGenerator(catalog.Default(), edgeRand{})

	tests := []struct {
		name     string
		criteria model.HotelCriteria
		names    []string
		prices   []float64
	}{
		{
			name:     "Marrakech three stars",
			criteria: model.HotelCriteria{City: "مراكش", Category: catalog.CategoryThree},
			names:    []string{"فندق المامونية الشهير", "فندق أطلس مراكش"},
			prices:   []float64{1200, 860},
		},
		{
			name:     "Marrakech four stars",
			criteria: model.HotelCriteria{City: "مراكش", Category: catalog.CategoryFour},
			names:    []string{"فندق المامونية الشهير", "فندق أطلس مراكش"},
			prices:   []float64{1560, 1110},
		},
		{
			name:     "Generic city",
			criteria: model.HotelCriteria{City: "وجدة", Category: catalog.CategoryThree},
			names:    []string{"فندق الأطلس الكبير", "فندق النخيل الذهبي"},
			prices:   []float64{800, 650},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := gen.Hotels(tt.criteria)
			require.Len(t, result.Offers, 2)
			for i, o := range result.Offers {
				assert.Equal(t, tt.names[i], o.Name)
				assert.Equal(t, tt.prices[i], o.Price)
				assert.Equal(t, PerNight, o.PriceUnit)
			}
			assert.Equal(t, result, gen.Hotels(tt.criteria), "hotel fallback is deterministic")
		})
	}
}

func TestClock(t *testing.T) {
	assert.Equal(t, "06:00", clock(360))
	assert.Equal(t, "23:59", clock(1439))
	assert.Equal(t, "01:30", clock(25*60+30))
}

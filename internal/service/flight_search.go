package service

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"travelbot/internal/catalog"
	"travelbot/internal/model"
)

// providerTimeLayout is how the search provider writes local times
const providerTimeLayout = "2006-01-02 15:04"

// FlightSearcher finds flight offers. Implementations never fail: any
// provider problem yields synthetic offers instead.
type FlightSearcher interface {
	Search(ctx context.Context, criteria model.FlightCriteria) model.FormattedResult
}

// FlightSearchResponse is the subset of the flights engine payload we read
type FlightSearchResponse struct {
	BestFlights  []FlightItinerary `json:"best_flights"`
	OtherFlights []FlightItinerary `json:"other_flights"`
	Flights      []FlightItinerary `json:"flights"`
	Error        string            `json:"error,omitempty"`
}

// FlightItinerary is one bookable journey made of one or more segments
type FlightItinerary struct {
	Flights       []FlightSegment `json:"flights"`
	TotalDuration int             `json:"total_duration"`
	Price         float64         `json:"price"`
}

// FlightSegment is one leg of an itinerary
type FlightSegment struct {
	DepartureAirport FlightAirport `json:"departure_airport"`
	ArrivalAirport   FlightAirport `json:"arrival_airport"`
	Duration         int           `json:"duration"`
	Airline          string        `json:"airline"`
	FlightNumber     string        `json:"flight_number"`
	TravelClass      string        `json:"travel_class,omitempty"`
}

// FlightAirport is an airport with the local time of the event there
type FlightAirport struct {
	Name string `json:"name,omitempty"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

// travelClassCodes are the flights engine class identifiers
var travelClassCodes = map[string]string{
	catalog.ClassEconomy:  "1",
	catalog.ClassBusiness: "3",
	catalog.ClassFirst:    "4",
}

// FlightSearchAdapter queries the flights engine and falls back to
// generated offers
type FlightSearchAdapter struct {
	client   *ProviderClient
	catalog  *catalog.Catalog
	fallback *FallbackGenerator
	usdToMAD float64
	now      func() time.Time
}

// NewFlightSearchAdapter wires the adapter
func NewFlightSearchAdapter(
	client *ProviderClient,
	c *catalog.Catalog,
	fallback *FallbackGenerator,
	usdToMAD float64,
) *FlightSearchAdapter {
	return &FlightSearchAdapter{
		client:   client,
		catalog:  c,
		fallback: fallback,
		usdToMAD: usdToMAD,
		now:      time.Now,
	}
}

// Search returns live offers when the provider answers, fallback otherwise
func (a *FlightSearchAdapter) Search(ctx context.Context, criteria model.FlightCriteria) model.FormattedResult {
	if criteria.Date.IsZero() {
		criteria.Date = ParseTravelDate(criteria.DateText, a.now())
	}

	result, err := a.searchLive(ctx, criteria)
	if err != nil {
		zap.L().Warn("Flight search using fallback offers",
			zap.String("provider", a.client.Name()),
			zap.String("origin", criteria.Origin),
			zap.String("destination", criteria.Destination),
			zap.Error(err),
		)
		return a.fallback.Flights(criteria)
	}

	return result
}

func (a *FlightSearchAdapter) searchLive(ctx context.Context, criteria model.FlightCriteria) (model.FormattedResult, error) {
	query := url.Values{}
	query.Set("engine", "google_flights")
	query.Set("departure_id", a.catalog.AirportCode(criteria.Origin))
	query.Set("arrival_id", a.catalog.AirportCode(criteria.Destination))
	query.Set("outbound_date", criteria.Date.Format(ISODate))
	query.Set("type", "2") // one way
	query.Set("currency", "USD")
	query.Set("hl", "en")
	if code, ok := travelClassCodes[criteria.Class]; ok {
		query.Set("travel_class", code)
	}
	query.Set("api_key", a.client.APIKey())

	var resp FlightSearchResponse
	if err := a.client.GetJSON(ctx, "/search.json", query, &resp); err != nil {
		return model.FormattedResult{}, err
	}
	if resp.Error != "" {
		return model.FormattedResult{}, fmt.Errorf("flight search: %s", resp.Error)
	}

	itineraries := firstNonEmpty(resp.BestFlights, resp.OtherFlights, resp.Flights)
	if len(itineraries) == 0 {
		return model.FormattedResult{}, fmt.Errorf("flight search: %w", ErrEmptyResult)
	}

	offers := make([]model.Offer, 0, model.MaxOffers)
	for _, it := range itineraries {
		if len(offers) == model.MaxOffers {
			break
		}
		offer, err := a.toOffer(it, criteria.Class)
		if err != nil {
			return model.FormattedResult{}, fmt.Errorf("failed to format itinerary: %w", err)
		}
		offers = append(offers, offer)
	}

	return model.FormattedResult{
		Kind:     model.OfferFlight,
		Offers:   offers,
		Currency: model.DisplayCurrency,
		Source:   model.SourceLive,
	}, nil
}

func (a *FlightSearchAdapter) toOffer(it FlightItinerary, class string) (model.Offer, error) {
	if len(it.Flights) == 0 {
		return model.Offer{}, fmt.Errorf("itinerary without segments")
	}
	if it.Price <= 0 {
		return model.Offer{}, fmt.Errorf("itinerary without price")
	}

	first := it.Flights[0]
	last := it.Flights[len(it.Flights)-1]

	departure, err := time.Parse(providerTimeLayout, first.DepartureAirport.Time)
	if err != nil {
		return model.Offer{}, fmt.Errorf("invalid departure time %q: %w", first.DepartureAirport.Time, err)
	}
	arrival, err := time.Parse(providerTimeLayout, last.ArrivalAirport.Time)
	if err != nil {
		return model.Offer{}, fmt.Errorf("invalid arrival time %q: %w", last.ArrivalAirport.Time, err)
	}

	duration := it.TotalDuration
	if duration <= 0 {
		for _, seg := range it.Flights {
			duration += seg.Duration
		}
	}

	stops := len(it.Flights) - 1
	features := []string{}
	if stops == 0 {
		features = append(features, "رحلة مباشرة")
	}
	if extra, ok := classFeatures[class]; ok {
		features = append(features, extra)
	}

	return model.Offer{
		Kind:            model.OfferFlight,
		Name:            first.Airline,
		Code:            airlineCode(first.FlightNumber),
		FlightNumber:    strings.ReplaceAll(first.FlightNumber, " ", ""),
		Departure:       departure.Format("15:04"),
		Arrival:         arrival.Format("15:04"),
		DurationMinutes: duration,
		Stops:           stops,
		Price:           math.Round(it.Price * a.usdToMAD),
		Features:        features,
	}, nil
}

func firstNonEmpty(lists ...[]FlightItinerary) []FlightItinerary {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

// airlineCode takes the carrier prefix of a flight number like "AT 200"
func airlineCode(flightNumber string) string {
	fields := strings.Fields(flightNumber)
	if len(fields) == 0 {
		return ""
	}
	if len(fields) > 1 {
		return fields[0]
	}
	code := fields[0]
	if len(code) > 2 {
		return code[:2]
	}
	return code
}

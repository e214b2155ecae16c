package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"travelbot/internal/catalog"
	"travelbot/internal/model"
)

// PerNight is the price unit shown for hotel offers
const PerNight = "/ليلة"

// maxHotelFeatures limits the amenities shown per hotel
const maxHotelFeatures = 3

// HotelSearcher finds hotel offers. Implementations never fail: any
// provider problem yields catalog offers instead.
type HotelSearcher interface {
	Search(ctx context.Context, criteria model.HotelCriteria) model.FormattedResult
}

// HotelSearchResponse is the subset of the hotels engine payload we read
type HotelSearchResponse struct {
	Properties []HotelProperty `json:"properties"`
	Error      string          `json:"error,omitempty"`
}

// HotelProperty is one hotel in the provider response
type HotelProperty struct {
	Name                string       `json:"name"`
	OverallRating       float64      `json:"overall_rating"`
	ExtractedHotelClass int          `json:"extracted_hotel_class"`
	RatePerNight        HotelRate    `json:"rate_per_night"`
	Amenities           []string     `json:"amenities"`
	Neighborhood        string       `json:"neighborhood,omitempty"`
	NearbyPlaces        []NearbyInfo `json:"nearby_places,omitempty"`
}

// HotelRate is the nightly price in the requested currency
type HotelRate struct {
	Lowest          string  `json:"lowest,omitempty"`
	ExtractedLowest float64 `json:"extracted_lowest"`
}

// NearbyInfo names a landmark close to the property
type NearbyInfo struct {
	Name string `json:"name"`
}

// HotelSearchAdapter queries the hotels engine, re-ranks the answer and
// falls back to the catalog
type HotelSearchAdapter struct {
	client   *ProviderClient
	ranker   *HotelRanker
	fallback *FallbackGenerator
	usdToMAD float64
	now      func() time.Time
}

// NewHotelSearchAdapter wires the adapter
func NewHotelSearchAdapter(
	client *ProviderClient,
	ranker *HotelRanker,
	fallback *FallbackGenerator,
	usdToMAD float64,
) *HotelSearchAdapter {
	if ranker == nil {
		ranker = NewHotelRanker(1.0)
	}
	return &HotelSearchAdapter{
		client:   client,
		ranker:   ranker,
		fallback: fallback,
		usdToMAD: usdToMAD,
		now:      time.Now,
	}
}

// Search returns live offers when the provider answers, fallback otherwise.
// Stays are always one night starting a week from today.
func (a *HotelSearchAdapter) Search(ctx context.Context, criteria model.HotelCriteria) model.FormattedResult {
	now := a.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	criteria.CheckIn = today.AddDate(0, 0, 7)
	criteria.CheckOut = today.AddDate(0, 0, 8)
	if criteria.Guests < 1 {
		criteria.Guests = defaultGuestCount
	}

	result, err := a.searchLive(ctx, criteria)
	if err != nil {
		zap.L().Warn("Hotel search using fallback offers",
			zap.String("provider", a.client.Name()),
			zap.String("city", criteria.City),
			zap.String("category", criteria.Category),
			zap.Error(err),
		)
		return a.fallback.Hotels(criteria)
	}

	return result
}

func (a *HotelSearchAdapter) searchLive(ctx context.Context, criteria model.HotelCriteria) (model.FormattedResult, error) {
	q := "hotels " + criteria.City
	if criteria.District != "" {
		q = "hotels " + criteria.District + " " + criteria.City
	}

	query := url.Values{}
	query.Set("engine", "google_hotels")
	query.Set("q", q)
	query.Set("check_in_date", criteria.CheckIn.Format(ISODate))
	query.Set("check_out_date", criteria.CheckOut.Format(ISODate))
	query.Set("adults", strconv.Itoa(criteria.Guests))
	query.Set("hotel_class", strconv.Itoa(catalog.CategoryStars(criteria.Category)))
	query.Set("currency", "USD")
	query.Set("hl", "en")
	query.Set("api_key", a.client.APIKey())

	var resp HotelSearchResponse
	if err := a.client.GetJSON(ctx, "/search.json", query, &resp); err != nil {
		return model.FormattedResult{}, err
	}
	if resp.Error != "" {
		return model.FormattedResult{}, fmt.Errorf("hotel search: %s", resp.Error)
	}

	ranked := a.ranker.Rank(resp.Properties, criteria.Category)

	offers := make([]model.Offer, 0, model.MaxOffers)
	for _, r := range ranked {
		if len(offers) == model.MaxOffers {
			break
		}
		p := r.Property
		if strings.TrimSpace(p.Name) == "" || p.RatePerNight.ExtractedLowest <= 0 {
			continue
		}
		offers = append(offers, model.Offer{
			Kind:      model.OfferHotel,
			Name:      p.Name,
			Price:     roundTo10(p.RatePerNight.ExtractedLowest * a.usdToMAD),
			PriceUnit: PerNight,
			Rating:    p.OverallRating,
			Features:  translateAmenities(p.Amenities),
			Location:  hotelLocation(p, criteria),
		})
	}

	if len(offers) == 0 {
		return model.FormattedResult{}, fmt.Errorf("hotel search: %w", ErrEmptyResult)
	}

	return model.FormattedResult{
		Kind:     model.OfferHotel,
		Offers:   offers,
		Currency: model.DisplayCurrency,
		Source:   model.SourceLive,
	}, nil
}

func translateAmenities(amenities []string) []string {
	features := []string{}
	seen := make(map[string]bool)
	for _, a := range amenities {
		label := catalog.TranslateAmenity(a)
		if label == catalog.DefaultAmenityLabel || seen[label] {
			continue
		}
		seen[label] = true
		features = append(features, label)
		if len(features) == maxHotelFeatures {
			break
		}
	}
	return features
}

func hotelLocation(p HotelProperty, criteria model.HotelCriteria) string {
	switch {
	case p.Neighborhood != "":
		return p.Neighborhood
	case len(p.NearbyPlaces) > 0 && p.NearbyPlaces[0].Name != "":
		return "قرب " + p.NearbyPlaces[0].Name
	case criteria.District != "":
		return criteria.District
	default:
		return criteria.City
	}
}

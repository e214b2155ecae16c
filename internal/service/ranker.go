package service

import (
	"math"
	"sort"

	"travelbot/internal/catalog"
)

// Match reason constants
const (
	ReasonRatingInBand  = "Rating matches category"
	ReasonRatingNearby  = "Rating near category"
	ReasonPriceListed   = "Price listed"
	ReasonHasAmenities  = "Amenities listed"
	ReasonGeneralMatch  = "General match"
	ReasonMissingRating = "No rating"
)

const (
	priceBonus    = 0.1
	amenityBonus  = 0.05
	nearBandScore = 0.5
)

type ratingBand struct {
	min, max float64
}

// ratingBands maps star count to the guest rating a hotel of that class
// usually carries
var ratingBands = map[int]ratingBand{
	3: {3.0, 4.0},
	4: {3.8, 4.5},
	5: {4.3, 5.0},
}

// RankedHotel is a provider property with its relevance score
type RankedHotel struct {
	Property       HotelProperty
	Score          float64
	MatchedReasons []string
}

// HotelRanker orders live hotel results by fit with the requested category
type HotelRanker struct {
	weightRating float64
}

// NewHotelRanker creates a ranker; the rating weight scales the band score
// relative to the fixed price and amenity bonuses
func NewHotelRanker(weightRating float64) *HotelRanker {
	if weightRating <= 0 {
		weightRating = 1.0
	}
	return &HotelRanker{weightRating: weightRating}
}

// Rank scores properties for the category and sorts them best first.
// Ties keep provider order.
func (r *HotelRanker) Rank(properties []HotelProperty, category string) []RankedHotel {
	band := ratingBands[catalog.CategoryStars(category)]
	results := make([]RankedHotel, 0, len(properties))

	for _, p := range properties {
		ratingScore := r.calculateRatingScore(p.OverallRating, band)

		score := r.weightRating * ratingScore
		if p.RatePerNight.ExtractedLowest > 0 {
			score += priceBonus
		}
		if len(p.Amenities) > 0 {
			score += amenityBonus
		}

		results = append(results, RankedHotel{
			Property:       p,
			Score:          score,
			MatchedReasons: r.generateMatchedReasons(p, ratingScore),
		})
	}

	// Sort by score descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// calculateRatingScore is 1 inside the band and decays linearly to 0 one
// rating point outside it
func (r *HotelRanker) calculateRatingScore(rating float64, band ratingBand) float64 {
	if rating <= 0 {
		return 0
	}
	if rating >= band.min && rating <= band.max {
		return 1.0
	}

	distance := band.min - rating
	if rating > band.max {
		distance = rating - band.max
	}
	return nearBandScore * math.Max(0, 1-distance)
}

func (r *HotelRanker) generateMatchedReasons(p HotelProperty, ratingScore float64) []string {
	reasons := []string{}

	switch {
	case p.OverallRating <= 0:
		reasons = append(reasons, ReasonMissingRating)
	case ratingScore == 1.0:
		reasons = append(reasons, ReasonRatingInBand)
	case ratingScore > 0:
		reasons = append(reasons, ReasonRatingNearby)
	}

	if p.RatePerNight.ExtractedLowest > 0 {
		reasons = append(reasons, ReasonPriceListed)
	}
	if len(p.Amenities) > 0 {
		reasons = append(reasons, ReasonHasAmenities)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}

	return reasons
}

package model

import "time"

// OfferKind distinguishes flight and hotel offers
type OfferKind string

const (
	OfferFlight OfferKind = "flight"
	OfferHotel  OfferKind = "hotel"
)

// DataSource tags where a result came from
type DataSource string

const (
	SourceLive     DataSource = "live"
	SourceFallback DataSource = "fallback"
)

// DisplayCurrency is the currency every offer is rendered in
const DisplayCurrency = "درهم"

// MaxOffers is the number of offers shown per search
const MaxOffers = 2

// FlightCriteria is built per request from the flight slots
type FlightCriteria struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DateText    string    `json:"date_text,omitempty"`
	Date        time.Time `json:"date"`
	Class       string    `json:"class,omitempty"`
}

// HotelCriteria is built per request from the hotel slots
type HotelCriteria struct {
	City     string    `json:"city"`
	Category string    `json:"category"`
	Guests   int       `json:"guests"`
	District string    `json:"district,omitempty"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// Offer is one displayable flight or hotel option
type Offer struct {
	Kind            OfferKind `json:"kind"`
	Name            string    `json:"name"`
	Code            string    `json:"code,omitempty"`
	FlightNumber    string    `json:"flight_number,omitempty"`
	Departure       string    `json:"departure,omitempty"` // HH:MM
	Arrival         string    `json:"arrival,omitempty"`   // HH:MM
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	Stops           int       `json:"stops"`
	Price           float64   `json:"price"`
	PriceUnit       string    `json:"price_unit,omitempty"` // "/ليلة" for hotels
	Rating          float64   `json:"rating"`
	Features        []string  `json:"features,omitempty"`
	Location        string    `json:"location,omitempty"`
}

// FormattedResult is the output contract shared by live and fallback searches
type FormattedResult struct {
	Kind     OfferKind  `json:"kind"`
	Offers   []Offer    `json:"offers"`
	Currency string     `json:"currency"`
	Source   DataSource `json:"source"`
}

// Offer returns the 1-based option, if present
func (r *FormattedResult) Offer(option int) (Offer, bool) {
	if r == nil || option < 1 || option > len(r.Offers) {
		return Offer{}, false
	}
	return r.Offers[option-1], true
}

// FlightStatus is one flight's real-time state
type FlightStatus struct {
	Airline      string `json:"airline"`
	FlightNumber string `json:"flight_number"`
	Status       string `json:"status"`
	Departure    string `json:"departure,omitempty"`
	Arrival      string `json:"arrival,omitempty"`
	DelayMinutes int    `json:"delay_minutes,omitempty"`
}

// StatusReport lists current flights on a route. A nil report means no data.
type StatusReport struct {
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	Flights     []FlightStatus `json:"flights"`
}

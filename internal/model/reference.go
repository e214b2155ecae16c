package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// CityRecord overlays reference data for one city or destination
type CityRecord struct {
	Name           string   `json:"name" db:"name"`
	Domestic       bool     `json:"domestic" db:"domestic"`
	AirportCode    *string  `json:"airport_code,omitempty" db:"airport_code"`
	PriceTier      *int     `json:"price_tier,omitempty" db:"price_tier"`
	HotelBasePrice *float64 `json:"hotel_base_price,omitempty" db:"hotel_base_price"`
}

// HotelRecord is one catalog hotel used by the fallback generator
type HotelRecord struct {
	City        string    `json:"city" db:"city"`
	Position    int       `json:"position" db:"position"`
	Name        string    `json:"name" db:"name"`
	PriceFactor float64   `json:"price_factor" db:"price_factor"`
	Rating      float64   `json:"rating" db:"rating"`
	Features    JSONArray `json:"features,omitempty" db:"features"`
	Location    string    `json:"location" db:"location"`
}

// SearchLogEntry records one search for analytics
type SearchLogEntry struct {
	ConversationID string     `db:"conversation_id"`
	Kind           OfferKind  `db:"kind"`
	Criteria       JSONMap    `db:"criteria"`
	Source         DataSource `db:"source"`
	OfferCount     int        `db:"offer_count"`
	ResponseTimeMs int        `db:"response_time_ms"`
	CreatedAt      time.Time  `db:"created_at"`
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}

// JSONMap represents a JSON object field
type JSONMap map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}

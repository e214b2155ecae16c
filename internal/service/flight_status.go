package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"travelbot/internal/catalog"
	"travelbot/internal/model"
)

const statusLookupLimit = 5

// StatusLookup reports live flight status for a route. A nil report means
// no data is available; status is never synthesized.
type StatusLookup interface {
	Lookup(ctx context.Context, origin, destination string) *model.StatusReport
}

// FlightStatusResponse is the subset of the status provider payload we read
type FlightStatusResponse struct {
	Data  []FlightStatusRecord `json:"data"`
	Error *ProviderError       `json:"error,omitempty"`
}

// ProviderError is the error object the status provider embeds in 200s
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FlightStatusRecord is one flight in the status response
type FlightStatusRecord struct {
	FlightStatus string          `json:"flight_status"`
	Departure    StatusEndpoint  `json:"departure"`
	Arrival      StatusEndpoint  `json:"arrival"`
	Airline      StatusAirline   `json:"airline"`
	Flight       StatusFlightRef `json:"flight"`
}

// StatusEndpoint is the departure or arrival side of a flight
type StatusEndpoint struct {
	Airport   string `json:"airport"`
	IATA      string `json:"iata"`
	Scheduled string `json:"scheduled"`
	Delay     *int   `json:"delay"`
}

// StatusAirline names the operating carrier
type StatusAirline struct {
	Name string `json:"name"`
}

// StatusFlightRef identifies the flight
type StatusFlightRef struct {
	IATA string `json:"iata"`
}

// FlightStatusAdapter queries the status provider
type FlightStatusAdapter struct {
	client  *ProviderClient
	catalog *catalog.Catalog
}

// NewFlightStatusAdapter wires the adapter
func NewFlightStatusAdapter(client *ProviderClient, c *catalog.Catalog) *FlightStatusAdapter {
	return &FlightStatusAdapter{client: client, catalog: c}
}

// Lookup returns current flights between the two cities, or nil
func (a *FlightStatusAdapter) Lookup(ctx context.Context, origin, destination string) *model.StatusReport {
	report, err := a.lookup(ctx, origin, destination)
	if err != nil {
		zap.L().Warn("Flight status unavailable",
			zap.String("provider", a.client.Name()),
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.Error(err),
		)
		return nil
	}
	return report
}

func (a *FlightStatusAdapter) lookup(ctx context.Context, origin, destination string) (*model.StatusReport, error) {
	query := url.Values{}
	query.Set("access_key", a.client.APIKey())
	query.Set("dep_iata", a.catalog.AirportCode(origin))
	query.Set("arr_iata", a.catalog.AirportCode(destination))
	query.Set("limit", strconv.Itoa(statusLookupLimit))

	var resp FlightStatusResponse
	if err := a.client.GetJSON(ctx, "/v1/flights", query, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("status provider error %s: %s", resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("flight status: %w", ErrEmptyResult)
	}

	report := &model.StatusReport{
		Origin:      origin,
		Destination: destination,
		Flights:     make([]model.FlightStatus, 0, len(resp.Data)),
	}

	for _, rec := range resp.Data {
		status := model.FlightStatus{
			Airline:      rec.Airline.Name,
			FlightNumber: rec.Flight.IATA,
			Status:       catalog.TranslateStatus(rec.FlightStatus),
			Departure:    scheduleClock(rec.Departure.Scheduled),
			Arrival:      scheduleClock(rec.Arrival.Scheduled),
		}
		if rec.Departure.Delay != nil {
			status.DelayMinutes = *rec.Departure.Delay
		}
		report.Flights = append(report.Flights, status)
	}

	return report, nil
}

// scheduleClock renders an RFC 3339 timestamp as HH:MM; other values pass
// through unchanged
func scheduleClock(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("15:04")
}

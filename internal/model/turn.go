package model

import (
	"strings"
)

// Slot names shared with the dialogue engine's domain
const (
	SlotDepartureCity   = "ville_depart"
	SlotDestinationCity = "ville_destination"
	SlotDepartureDate   = "date_depart"
	SlotTravelClass     = "classe"
	SlotHotelCity       = "ville_hotel"
	SlotHotelCategory   = "categorie_hotel"
	SlotGuestCount      = "nombre_personnes"
	SlotDistrict        = "quartier"
	SlotSelectedOption  = "selected_option"
	SlotRequested       = "requested_slot"
)

// Form names used by the engine's active loop
const (
	FlightForm = "flight_form"
	HotelForm  = "hotel_form"
)

// BookingSlots lists every slot that belongs to a booking; all of them are
// cleared on confirmation or cancellation.
var BookingSlots = []string{
	SlotSelectedOption,
	SlotDepartureCity,
	SlotDestinationCity,
	SlotDepartureDate,
	SlotTravelClass,
	SlotHotelCity,
	SlotHotelCategory,
	SlotGuestCount,
	SlotDistrict,
}

// Slots is a read-only view of the conversation's slot values.
// Null slots are absent from the map.
type Slots map[string]string

// Get returns the trimmed slot value or "" when the slot is null
func (s Slots) Get(name string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s[name])
}

// Has reports whether the slot holds a non-empty value
func (s Slots) Has(name string) bool {
	return s.Get(name) != ""
}

// Entity is one extraction from the latest user utterance
type Entity struct {
	Value      string `json:"value"`
	EntityType string `json:"entity"`
}

// TurnContext is everything a handler may read for one conversational turn
type TurnContext struct {
	ConversationID string
	Slots          Slots
	LatestEntities []Entity
	LatestText     string
	ActiveForm     string
	RequestedSlot  string

	// SlotsToValidate names the slots filled since the latest user message.
	// It is nil when the tracker carried no event history.
	SlotsToValidate map[string]bool
}

// ShouldValidate reports whether a slot was filled this turn. Without event
// history every slot counts as filled this turn.
func (t *TurnContext) ShouldValidate(slot string) bool {
	if t.SlotsToValidate == nil {
		return true
	}
	return t.SlotsToValidate[slot]
}

// HasFlightContext reports whether a flight search context exists
func (t *TurnContext) HasFlightContext() bool {
	return t.Slots.Has(SlotDepartureCity) || t.Slots.Has(SlotDestinationCity)
}

// HasHotelContext reports whether a hotel search context exists
func (t *TurnContext) HasHotelContext() bool {
	return t.Slots.Has(SlotHotelCity)
}

// SlotMutation sets a slot to Value, or clears it when Value is nil
type SlotMutation struct {
	Name  string
	Value *string
}

// Effect is what a handler hands back to the engine. The engine applies
// SlotMutations atomically after the handler returns.
type Effect struct {
	Messages      []string
	SlotMutations []SlotMutation
	Restart       bool
}

// Say appends a message
func (e *Effect) Say(text string) {
	e.Messages = append(e.Messages, text)
}

// Set records a slot assignment
func (e *Effect) Set(name, value string) {
	v := value
	e.SlotMutations = append(e.SlotMutations, SlotMutation{Name: name, Value: &v})
}

// Clear records a slot reset
func (e *Effect) Clear(names ...string) {
	for _, name := range names {
		e.SlotMutations = append(e.SlotMutations, SlotMutation{Name: name})
	}
}

// Mutation returns the last mutation recorded for a slot
func (e *Effect) Mutation(name string) (SlotMutation, bool) {
	for i := len(e.SlotMutations) - 1; i >= 0; i-- {
		if e.SlotMutations[i].Name == name {
			return e.SlotMutations[i], true
		}
	}
	return SlotMutation{}, false
}

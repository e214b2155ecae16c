package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"travelbot/internal/model"
)

// ErrUnknownAction is returned for action names nobody registered
var ErrUnknownAction = errors.New("unknown action")

// Action names used by the dialogue engine
const (
	ActionValidateFlightForm = "validate_flight_form"
	ActionValidateHotelForm  = "validate_hotel_form"
	ActionSearchFlights      = "action_search_flights"
	ActionSearchHotels       = "action_search_hotels"
	ActionSelectOption       = "action_select_option"
	ActionConfirmReservation = "action_confirm_reservation"
	ActionCancelReservation  = "action_cancel_reservation"
	ActionChangeOption       = "action_change_option"
	ActionCheckFlightStatus  = "action_check_flight_status"
	ActionDefaultFallback    = "action_default_fallback"
	ActionRestart            = "action_restart"
)

// Handler runs one action for one turn
type Handler func(ctx context.Context, turn *model.TurnContext) model.Effect

// ActionRegistry dispatches action names to handlers
type ActionRegistry struct {
	handlers map[string]Handler
}

// NewActionRegistry registers every booking flow action
func NewActionRegistry(flow *BookingFlow) *ActionRegistry {
	r := &ActionRegistry{handlers: make(map[string]Handler)}

	r.Register(ActionValidateFlightForm, flow.ValidateFlightForm)
	r.Register(ActionValidateHotelForm, flow.ValidateHotelForm)
	r.Register(ActionSearchFlights, flow.SearchFlights)
	r.Register(ActionSearchHotels, flow.SearchHotels)
	r.Register(ActionSelectOption, flow.SelectOption)
	r.Register(ActionConfirmReservation, flow.ConfirmReservation)
	r.Register(ActionCancelReservation, flow.CancelReservation)
	r.Register(ActionChangeOption, flow.ChangeOption)
	r.Register(ActionCheckFlightStatus, flow.CheckFlightStatus)
	r.Register(ActionDefaultFallback, flow.DefaultFallback)
	r.Register(ActionRestart, flow.Restart)

	return r
}

// Register adds or replaces a handler
func (r *ActionRegistry) Register(name string, h Handler) {
	r.handlers[name] = h
}

// Names lists registered actions in alphabetical order
func (r *ActionRegistry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named action
func (r *ActionRegistry) Run(ctx context.Context, name string, turn *model.TurnContext) (model.Effect, error) {
	h, ok := r.handlers[name]
	if !ok {
		return model.Effect{}, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	effect := h(ctx, turn)

	zap.L().Debug("Action completed",
		zap.String("action", name),
		zap.String("conversation_id", turn.ConversationID),
		zap.Int("messages", len(effect.Messages)),
		zap.Int("slot_mutations", len(effect.SlotMutations)),
		zap.Bool("restart", effect.Restart),
	)

	return effect, nil
}

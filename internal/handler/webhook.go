package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"travelbot/internal/model"
	"travelbot/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler serves the dialogue engine's action endpoint
type WebhookHandler struct {
	registry *service.ActionRegistry
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(registry *service.ActionRegistry) *WebhookHandler {
	return &WebhookHandler{registry: registry}
}

// Handle handles POST /webhook
func (h *WebhookHandler) Handle(c *gin.Context) {
	var req model.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	turn := NewTurnContext(&req)

	effect, err := h.registry.Run(c.Request.Context(), req.NextAction, turn)
	if err != nil {
		if errors.Is(err, service.ErrUnknownAction) {
			zap.L().Warn("Unknown action requested",
				zap.String("action", req.NextAction),
				zap.String("conversation_id", turn.ConversationID),
			)
			c.JSON(http.StatusNotFound, model.ActionNotFoundResponse{
				Error:      fmt.Sprintf("No registered action found for name '%s'.", req.NextAction),
				ActionName: req.NextAction,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Action failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, NewWebhookResponse(effect))
}

// Actions handles GET /actions
func (h *WebhookHandler) Actions(c *gin.Context) {
	names := h.registry.Names()
	actions := make([]model.ActionInfo, 0, len(names))
	for _, name := range names {
		actions = append(actions, model.ActionInfo{Name: name})
	}
	c.JSON(http.StatusOK, actions)
}

// NewTurnContext flattens the tracker into what handlers read. Null slots
// are dropped; non-string values are rendered as text.
func NewTurnContext(req *model.WebhookRequest) *model.TurnContext {
	tracker := req.Tracker

	conversationID := req.SenderID
	if conversationID == "" {
		conversationID = tracker.SenderID
	}

	slots := make(model.Slots, len(tracker.Slots))
	for name, value := range tracker.Slots {
		if value == nil {
			continue
		}
		slots[name] = valueText(value)
	}

	entities := make([]model.Entity, 0, len(tracker.LatestMessage.Entities))
	for _, e := range tracker.LatestMessage.Entities {
		if e.Value == nil {
			continue
		}
		entities = append(entities, model.Entity{Value: valueText(e.Value), EntityType: e.Entity})
	}

	turn := &model.TurnContext{
		ConversationID: conversationID,
		Slots:          slots,
		LatestEntities: entities,
		LatestText:     tracker.LatestMessage.Text,
		RequestedSlot:  slots.Get(model.SlotRequested),
	}
	if tracker.ActiveLoop != nil {
		turn.ActiveForm = tracker.ActiveLoop.Name
	}
	if tracker.Events != nil {
		turn.SlotsToValidate = slotsSetThisTurn(tracker.Events)
	}
	return turn
}

// slotsSetThisTurn collects slot events recorded after the latest user message
func slotsSetThisTurn(events []model.TrackerEvent) map[string]bool {
	slots := make(map[string]bool)
	for i := len(events) - 1; i >= 0; i-- {
		switch events[i].Event {
		case "user":
			return slots
		case "slot":
			if events[i].Name != "" && events[i].Name != model.SlotRequested {
				slots[events[i].Name] = true
			}
		}
	}
	return slots
}

// NewWebhookResponse turns an Effect into engine events and utterances
func NewWebhookResponse(effect model.Effect) model.WebhookResponse {
	resp := model.WebhookResponse{
		Events:    make([]model.Event, 0, len(effect.SlotMutations)+1),
		Responses: make([]model.BotUtterance, 0, len(effect.Messages)),
	}

	for _, m := range effect.SlotMutations {
		event := model.Event{Event: "slot", Name: m.Name}
		if m.Value != nil {
			event.Value = *m.Value
		}
		resp.Events = append(resp.Events, event)
	}
	if effect.Restart {
		resp.Events = append(resp.Events, model.Event{Event: "restart"})
	}

	for _, text := range effect.Messages {
		resp.Responses = append(resp.Responses, model.BotUtterance{Text: text})
	}
	return resp
}

func valueText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

package model

// WebhookRequest is the body the dialogue engine posts for each action call
type WebhookRequest struct {
	NextAction string         `json:"next_action" binding:"required"`
	SenderID   string         `json:"sender_id"`
	Tracker    WebhookTracker `json:"tracker"`
	Domain     map[string]any `json:"domain,omitempty"`
	Version    string         `json:"version,omitempty"`
}

// WebhookTracker is the subset of tracker state handlers consume
type WebhookTracker struct {
	SenderID      string         `json:"sender_id"`
	Slots         map[string]any `json:"slots"`
	LatestMessage LatestMessage  `json:"latest_message"`
	ActiveLoop    *ActiveLoop    `json:"active_loop,omitempty"`
	Events        []TrackerEvent `json:"events,omitempty"`
}

// TrackerEvent is one entry of the conversation history
type TrackerEvent struct {
	Event string `json:"event"`
	Name  string `json:"name,omitempty"`
	Value any    `json:"value,omitempty"`
}

// LatestMessage is the most recent user utterance with its extractions
type LatestMessage struct {
	Text     string          `json:"text"`
	Entities []WebhookEntity `json:"entities"`
}

// WebhookEntity carries an extracted entity; values are not always strings
type WebhookEntity struct {
	Entity string `json:"entity"`
	Value  any    `json:"value"`
	Start  *int   `json:"start,omitempty"`
	End    *int   `json:"end,omitempty"`
}

// ActiveLoop names the form in progress
type ActiveLoop struct {
	Name string `json:"name"`
}

// WebhookResponse is returned to the engine
type WebhookResponse struct {
	Events    []Event        `json:"events"`
	Responses []BotUtterance `json:"responses"`
}

// Event is a tracker event: slot assignments and restarts
type Event struct {
	Event string `json:"event"`
	Name  string `json:"name,omitempty"`
	Value any    `json:"value"`
}

// BotUtterance is one message for the channel to render
type BotUtterance struct {
	Text string `json:"text"`
}

// ActionNotFoundResponse mirrors the engine's expected 404 body
type ActionNotFoundResponse struct {
	Error      string `json:"error"`
	ActionName string `json:"action_name"`
}

// ActionInfo describes a registered action
type ActionInfo struct {
	Name string `json:"name"`
}

package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"travelbot/internal/model"
)

// Snapshot is the last result of one kind shown in a conversation
type Snapshot struct {
	ID             uuid.UUID             `json:"id"`
	ConversationID string                `json:"conversation_id"`
	Result         model.FormattedResult `json:"result"`
	SavedAt        time.Time             `json:"saved_at"`
}

// OfferStore keeps the offers last shown per conversation so that selection
// and confirmation refer to exactly what the user saw. Load returns nil
// without an error when nothing is stored or the snapshot expired.
type OfferStore interface {
	Save(ctx context.Context, conversationID string, result model.FormattedResult) (*Snapshot, error)
	Load(ctx context.Context, conversationID string, kind model.OfferKind) (*Snapshot, error)
	Clear(ctx context.Context, conversationID string) error
}

var offerKinds = []model.OfferKind{model.OfferFlight, model.OfferHotel}

func newSnapshot(conversationID string, result model.FormattedResult, now time.Time) *Snapshot {
	return &Snapshot{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Result:         result,
		SavedAt:        now,
	}
}

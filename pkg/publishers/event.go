package publishers

import (
	"time"

	"github.com/google/uuid"
)

// Event describes the outcome of moderating one item.
type Event struct {
	ItemKey       string     `json:"item_key"`
	ContentID     *uuid.UUID `json:"content_id,omitempty"`
	ApplicationID uuid.UUID  `json:"application_id"`
	SenderID      uuid.UUID  `json:"sender_id"`
	ContentAction string     `json:"content_action,omitempty"`
	Stored        bool       `json:"stored"`
	Status        int        `json:"status"`
	Flagged       bool       `json:"flagged"`
	Error         string     `json:"error,omitempty"`
	ModeratedAt   time.Time  `json:"moderated_at"`
}

// NewEvent constructs an Event stamped with the current time.
func NewEvent(itemKey string, applicationID, senderID uuid.UUID) Event {
	return Event{
		ItemKey:       itemKey,
		ApplicationID: applicationID,
		SenderID:      senderID,
		ModeratedAt:   time.Now().UTC(),
	}
}

// attributes are copied onto queue and topic messages so subscribers can
// filter without decoding the body.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"item_key":       e.ItemKey,
		"application_id": e.ApplicationID.String(),
	}
	if e.ContentAction != "" {
		attrs["content_action"] = e.ContentAction
	}
	return attrs
}

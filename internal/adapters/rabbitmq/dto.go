package rabbitmq

import "time"

// ListingEventDTO - формат сообщения о результате сверки объявления.
type ListingEventDTO struct {
	EventID    string    `json:"event_id"`
	Outcome    string    `json:"outcome"` // created | updated | archived
	Source     string    `json:"source"`
	ExternalID string    `json:"external_id"`
	Link       string    `json:"link"`
	OccurredAt time.Time `json:"occurred_at"`
}

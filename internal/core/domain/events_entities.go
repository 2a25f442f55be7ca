package domain

import "time"

// ListingEvent - уведомление для CRM-стороны о результате сверки
// одного объявления.
type ListingEvent struct {
	Outcome    ReconcileOutcome
	Source     string
	ExternalID string
	Link       string
	OccurredAt time.Time
}

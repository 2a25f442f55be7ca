package port

import (
	"context"

	"crm-parser-service/internal/core/domain"
)

// ListingEventsQueuePort отправляет события сверки (создан/обновлен/
// архивирован) во внешнюю очередь для CRM-стороны.
type ListingEventsQueuePort interface {
	Enqueue(ctx context.Context, event domain.ListingEvent) error
}

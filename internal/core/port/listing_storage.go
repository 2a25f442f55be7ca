package port

import (
	"context"

	"crm-parser-service/internal/core/domain"
)

// ListingStoragePort - персистентное хранилище объектов недвижимости.
// Единственный писатель - use case сверки, вызываемый из одного
// фонового воркера, поэтому lookup-then-write здесь не атомарен.
type ListingStoragePort interface {
	// FindByExternalID возвращает (nil, nil), если записи нет.
	FindByExternalID(ctx context.Context, externalID string) (*domain.Listing, error)

	Insert(ctx context.Context, listing domain.Listing) error

	// UpdateScrapedFields перезаписывает ровно шесть "свежих" полей
	// существующей записи; остальные поля неприкосновенны.
	UpdateScrapedFields(ctx context.Context, externalID string, fields domain.ScrapedFields) error

	// GetActiveBySource возвращает активные записи источника для актуализации.
	GetActiveBySource(ctx context.Context, source string, limit, offset int) ([]domain.Listing, error)

	MarkArchived(ctx context.Context, externalID string) error
}

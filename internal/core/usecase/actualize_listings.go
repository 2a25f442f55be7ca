package usecase

import (
	"context"
	"fmt"
	"time"

	"crm-parser-service/internal/contextkeys"
	"crm-parser-service/internal/core/domain"
	"crm-parser-service/internal/core/port"
)

const actualizePageSize = 100

// ActualizeListingsUseCase проходит по активным записям источника и
// архивирует те, чьи объявления на портале больше не открываются
// (404/410). Сетевая ошибка пробы оставляет запись как есть - лучше
// живой "мертвец", чем зря заархивированный объект.
type ActualizeListingsUseCase struct {
	storage port.ListingStoragePort
	checker port.AvailabilityCheckerPort
	events  port.ListingEventsQueuePort
}

// NewActualizeListingsUseCase создает новый экземпляр use case.
func NewActualizeListingsUseCase(
	storage port.ListingStoragePort,
	checker port.AvailabilityCheckerPort,
	events port.ListingEventsQueuePort,
) *ActualizeListingsUseCase {
	return &ActualizeListingsUseCase{
		storage: storage,
		checker: checker,
		events:  events,
	}
}

func (uc *ActualizeListingsUseCase) Execute(ctx context.Context, source string) (*domain.ActualizationStats, error) {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{
		"use_case": "ActualizeListings",
		"source":   source,
	})

	ucLogger.Info("Actualization started", nil)

	stats := &domain.ActualizationStats{}
	offset := 0
	for {
		listings, err := uc.storage.GetActiveBySource(ctx, source, actualizePageSize, offset)
		if err != nil {
			return stats, fmt.Errorf("failed to load active listings for %s: %w", source, err)
		}
		if len(listings) == 0 {
			break
		}

		archivedInPage := 0
		for _, listing := range listings {
			stats.Checked++

			alive, err := uc.checker.Check(ctx, listing.Link)
			if err != nil {
				stats.Errors++
				ucLogger.Warn("Availability probe failed, keeping listing", port.Fields{
					"external_id": listing.ExternalID,
					"error":       err.Error(),
				})
				continue
			}
			if alive {
				continue
			}

			if err := uc.storage.MarkArchived(ctx, listing.ExternalID); err != nil {
				stats.Errors++
				ucLogger.Error("Failed to archive dead listing", err, port.Fields{"external_id": listing.ExternalID})
				continue
			}
			stats.Archived++
			archivedInPage++
			ucLogger.Info("Archived dead listing", port.Fields{"external_id": listing.ExternalID})

			if uc.events != nil {
				event := domain.ListingEvent{
					Outcome:    domain.OutcomeArchived,
					Source:     listing.Source,
					ExternalID: listing.ExternalID,
					Link:       listing.Link,
					OccurredAt: time.Now().UTC(),
				}
				if err := uc.events.Enqueue(ctx, event); err != nil {
					ucLogger.Error("Failed to enqueue archive event", err, nil)
				}
			}
		}

		// Заархивированные записи выпали из активной выборки, поэтому
		// смещение двигается только на оставшиеся в ней строки.
		offset += len(listings) - archivedInPage
	}

	ucLogger.Info("Actualization finished", port.Fields{
		"checked":  stats.Checked,
		"archived": stats.Archived,
		"errors":   stats.Errors,
	})
	return stats, nil
}

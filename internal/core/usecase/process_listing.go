package usecase

import (
	"context"
	"fmt"
	"time"

	"crm-parser-service/internal/contextkeys"
	"crm-parser-service/internal/core/domain"
	"crm-parser-service/internal/core/port"
)

// Категория, под которой сейчас парсятся оба источника: обе поисковые
// выдачи настроены на продажу квартир.
const scrapedDealLabel = "Продажа"

// ProcessListingUseCase инкапсулирует сверку одной извлеченной записи
// с хранилищем: поиск по external_id и решение "создать или обновить".
type ProcessListingUseCase struct {
	storage port.ListingStoragePort
	events  port.ListingEventsQueuePort
}

// NewProcessListingUseCase создает новый экземпляр use case.
// events может быть nil, если публикация событий выключена.
func NewProcessListingUseCase(storage port.ListingStoragePort, events port.ListingEventsQueuePort) *ProcessListingUseCase {
	return &ProcessListingUseCase{
		storage: storage,
		events:  events,
	}
}

// Execute сопоставляет классификаторы, разбирает цену и записывает
// результат. Для уже известного external_id перезаписываются только
// шесть "свежих" полей (см. domain.ScrapedFields).
func (uc *ProcessListingUseCase) Execute(ctx context.Context, extracted domain.ExtractedListing, vocabularies domain.OptionSet) (domain.ReconcileOutcome, error) {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{
		"use_case":    "ProcessListing",
		"source":      extracted.Source,
		"external_id": extracted.ExternalID,
	})

	// Район вычисляем из заголовка объявления: порталы не отдают его
	// отдельным полем, но в заголовке он почти всегда упомянут.
	scraped := domain.ScrapedFields{
		Phone:    extracted.Phone,
		Price:    domain.ParsePrice(extracted.PriceText),
		Photos:   extracted.Photos,
		District: domain.MapOption(extracted.Title, vocabularies.District),
		Category: domain.MapOption(scrapedDealLabel, vocabularies.Category),
		Status:   domain.StatusActive,
	}

	existing, err := uc.storage.FindByExternalID(ctx, extracted.ExternalID)
	if err != nil {
		return "", fmt.Errorf("failed to look up listing %s: %w", extracted.ExternalID, err)
	}

	var outcome domain.ReconcileOutcome
	if existing != nil {
		if err := uc.storage.UpdateScrapedFields(ctx, extracted.ExternalID, scraped); err != nil {
			return "", fmt.Errorf("failed to update listing %s: %w", extracted.ExternalID, err)
		}
		outcome = domain.OutcomeUpdated
		ucLogger.Info("Updated existing listing", nil)
	} else {
		// Поля планировки/состояния с порталов пока не извлекаются,
		// они заполняются агентами вручную уже в CRM.
		listing := domain.Listing{
			ExternalID:  extracted.ExternalID,
			Source:      extracted.Source,
			Category:    scraped.Category,
			Status:      scraped.Status,
			District:    scraped.District,
			Price:       scraped.Price,
			Phone:       scraped.Phone,
			Description: extracted.Description,
			Photos:      scraped.Photos,
			Link:        extracted.URL,
		}
		if err := uc.storage.Insert(ctx, listing); err != nil {
			return "", fmt.Errorf("failed to insert listing %s: %w", extracted.ExternalID, err)
		}
		outcome = domain.OutcomeCreated
		ucLogger.Info("Inserted new listing", port.Fields{"title": extracted.Title})
	}

	uc.publishEvent(ctx, ucLogger, outcome, extracted)
	return outcome, nil
}

// publishEvent отправляет уведомление CRM-стороне. Ошибка публикации
// не влияет на результат сверки: запись уже сохранена.
func (uc *ProcessListingUseCase) publishEvent(ctx context.Context, logger port.LoggerPort, outcome domain.ReconcileOutcome, extracted domain.ExtractedListing) {
	if uc.events == nil {
		return
	}

	event := domain.ListingEvent{
		Outcome:    outcome,
		Source:     extracted.Source,
		ExternalID: extracted.ExternalID,
		Link:       extracted.URL,
		OccurredAt: time.Now().UTC(),
	}
	if err := uc.events.Enqueue(ctx, event); err != nil {
		logger.Error("Failed to enqueue listing event", err, port.Fields{"outcome": outcome})
	}
}

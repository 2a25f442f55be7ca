package port

import (
	"context"

	"crm-parser-service/internal/core/domain"
)

// SourceFetcherPort - один источник объявлений (браузерная сессия за ним).
type SourceFetcherPort interface {
	// Name возвращает человекочитаемое имя источника для журнала прогресса.
	Name() string

	// FetchLinks загружает страницу выдачи и возвращает ссылки-кандидаты
	// в порядке их появления на странице.
	FetchLinks(ctx context.Context) ([]domain.ListingLink, error)

	// FetchAdDetails загружает страницу объявления, пытается раскрыть
	// телефон и извлекает плоскую запись. Неудача раскрытия телефона
	// не является ошибкой - поле останется пустым.
	FetchAdDetails(ctx context.Context, link domain.ListingLink) (*domain.ExtractedListing, error)

	// Close детерминированно освобождает браузерную сессию источника.
	Close(ctx context.Context) error
}

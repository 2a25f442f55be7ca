package domain

import (
	"time"
)

// Источники объявлений, которые умеет обрабатывать сервис.
const (
	SourceKrisha = "krisha"
	SourceOlx    = "olx"
)

// Статусы объекта в CRM (совпадают со справочником "Статус").
const (
	StatusActive   = "Активен"
	StatusArchived = "Архив"
)

// Listing - полная запись об объекте недвижимости.
// Соответствует таблице `properties` в CRM.
type Listing struct {
	ExternalID string // натуральный ключ дедупликации (id объявления на портале)
	Source     string // krisha | olx

	Category string
	Status   string
	District string
	Price    *float64 // nil, если цену не удалось разобрать

	Plan        string
	Floor       *int
	TotalFloors *int
	Area        *float64

	WallMaterial string // колонка `m` в исходной схеме
	AreaTotal    string // колонка `s`
	AreaKitchen  string // колонка `s_kh`
	Balcony      string // колонка `blkn`
	Parking      string // колонка `p`
	Condition    string

	Phone       string
	Street      string
	HouseNumber string // колонка `d_kv`
	YearBuilt   string

	Description string
	Photos      []string // в БД сериализуется строкой через запятую
	Link        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScrapedFields - подмножество полей, которое перезаписывается при
// повторной встрече уже сохраненного external_id. Все остальные поля
// после создания записи не трогаем: ручные правки в CRM (описание,
// этажность, планировка и т.д.) должны переживать повторный парсинг.
type ScrapedFields struct {
	Phone    string
	Price    *float64
	Photos   []string
	District string
	Category string
	Status   string
}

// ListingLink - ссылка-кандидат со страницы выдачи источника.
type ListingLink struct {
	Source string
	URL    string
}

// ExtractedListing - плоская запись, которую фетчер извлек со страницы
// объявления. Пустое значение поля означает "селектор ничего не нашел",
// это не ошибка.
type ExtractedListing struct {
	Source     string
	ExternalID string
	URL        string

	Title       string
	PriceText   string // уже без символа валюты и пробелов
	Description string
	Photos      []string
	Phone       string // пустой, если раскрытие телефона не удалось
}

// ReconcileOutcome - результат сверки одной записи с хранилищем.
type ReconcileOutcome string

const (
	OutcomeCreated  ReconcileOutcome = "created"
	OutcomeUpdated  ReconcileOutcome = "updated"
	OutcomeArchived ReconcileOutcome = "archived"
)

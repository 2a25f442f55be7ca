package constants

import (
	"strings"
	"time"

	"crm-parser-service/internal/core/domain"
)

// FieldSelectors - именованные CSS-селекторы полей страницы объявления.
// Новый источник добавляется конфигурацией, без правок экстрактора.
type FieldSelectors struct {
	Title       string
	Price       string
	Description string
	Photos      string // селектор тегов img, берется атрибут src

	// Раскрытие телефона: кнопка и элемент с номером после клика.
	PhoneButton string
	PhoneValue  string
}

// SourceConfig - полное описание одного источника для фетчера.
type SourceConfig struct {
	Name   string // имя для журнала прогресса ("Krisha: 7/40")
	Source string // значение колонки source

	SearchURL    string
	LinkSelector string // селектор ссылок-кандидатов на странице выдачи
	LinkPrefix   string // домен для относительных href

	Selectors FieldSelectors

	// ExternalIDFromURL - правило вывода external_id из структуры URL,
	// у каждого портала оно свое.
	ExternalIDFromURL func(url string) string

	// Фиксированные паузы вместо договорных таймаутов: медленная
	// страница дает пустые поля, а не ошибку.
	SearchPageWait  time.Duration
	DetailPageWait  time.Duration
	PhoneRevealWait time.Duration
}

// KrishaConfig - krisha.kz, продажа квартир в Петропавловске от хозяев.
var KrishaConfig = SourceConfig{
	Name:   "Krisha",
	Source: domain.SourceKrisha,

	SearchURL:    "https://krisha.kz/prodazha/kvartiry/petropavlovsk/?das[novostroiki]=1&das[who]=1",
	LinkSelector: ".a-search-item__title",
	LinkPrefix:   "https://krisha.kz",

	Selectors: FieldSelectors{
		Title:       "h1",
		Price:       ".a-search-item__price",
		Description: ".a-search-item__description",
		Photos:      ".a-search-photo img",
		PhoneButton: ".a-search-phone",
		PhoneValue:  ".a-search-phone__popup-number",
	},

	// У krisha id - предпоследний сегмент пути: /a/show/12345/
	ExternalIDFromURL: func(url string) string {
		parts := strings.Split(url, "/")
		if len(parts) < 2 {
			return url
		}
		return parts[len(parts)-2]
	},

	SearchPageWait:  3 * time.Second,
	DetailPageWait:  2 * time.Second,
	PhoneRevealWait: 1 * time.Second,
}

// OlxConfig - olx.kz, продажа квартир в Петропавловске от хозяев.
var OlxConfig = SourceConfig{
	Name:   "OLX",
	Source: domain.SourceOlx,

	SearchURL:    "https://www.olx.kz/nedvizhimost/prodazha-kvartiry/petropavlovsk/?search%5Bfilter_enum_tipsobstvennosti%5D%5B0%5D=ot_hozyaina",
	LinkSelector: "a.css-rc5s2u",
	LinkPrefix:   "https://www.olx.kz",

	Selectors: FieldSelectors{
		Title:       "h1",
		Price:       `h3[data-testid="ad-price"]`,
		Description: `[data-cy="ad_description"]`,
		Photos:      ".swiper-zoom-container img",
		PhoneButton: `button[data-cy="ad-contact-phone-reveal"]`,
		PhoneValue:  `a[data-cy="ad-contact-phone"]`,
	},

	// У olx id - хвост URL после последнего дефиса: ...-ID123ab.html
	ExternalIDFromURL: func(url string) string {
		parts := strings.Split(url, "-")
		last := parts[len(parts)-1]
		return strings.TrimSuffix(last, ".html")
	},

	SearchPageWait:  3 * time.Second,
	DetailPageWait:  2 * time.Second,
	PhoneRevealWait: 1 * time.Second,
}

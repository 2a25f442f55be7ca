package browserfetcher

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"crm-parser-service/internal/constants"
	"crm-parser-service/internal/core/domain"
)

// ExtractFields разбирает HTML страницы объявления по селекторам
// конфига источника. Несработавший селектор дает пустое значение
// поля - это штатная деградация, а не ошибка.
func ExtractFields(html, pageURL string, cfg constants.SourceConfig) (*domain.ExtractedListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	record := &domain.ExtractedListing{
		Source:     cfg.Source,
		URL:        pageURL,
		ExternalID: cfg.ExternalIDFromURL(pageURL),
	}

	record.Title = strings.TrimSpace(doc.Find(cfg.Selectors.Title).First().Text())
	record.PriceText = normalizePriceText(doc.Find(cfg.Selectors.Price).First().Text())
	record.Description = strings.TrimSpace(doc.Find(cfg.Selectors.Description).First().Text())

	doc.Find(cfg.Selectors.Photos).Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && src != "" {
			record.Photos = append(record.Photos, src)
		}
	})

	return record, nil
}

// extractLinks собирает абсолютные ссылки-кандидаты со страницы выдачи.
func extractLinks(html string, cfg constants.SourceConfig) ([]domain.ListingLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var links []domain.ListingLink
	doc.Find(cfg.LinkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = cfg.LinkPrefix + href
		}
		links = append(links, domain.ListingLink{
			Source: cfg.Source,
			URL:    href,
		})
	})

	return links, nil
}

// normalizePriceText убирает символ тенге и все пробельные символы
// (включая неразрывные), оставляя текст для domain.ParsePrice.
func normalizePriceText(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r == '₸' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

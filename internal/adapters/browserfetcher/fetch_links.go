package browserfetcher

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"crm-parser-service/internal/contextkeys"
	"crm-parser-service/internal/core/domain"
	"crm-parser-service/internal/core/port"
)

// FetchLinks загружает страницу поисковой выдачи и собирает ссылки
// на объявления в порядке их появления.
func (a *BrowserFetcherAdapter) FetchLinks(ctx context.Context) ([]domain.ListingLink, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLinksLogger := logger.WithFields(port.Fields{"component": a.cfg.Name + "Fetcher(FetchLinks)"})

	browserCtx, err := a.ensureSession()
	if err != nil {
		return nil, err
	}

	fetchLinksLogger.Debug("Loading search page", port.Fields{"url": a.cfg.SearchURL})

	var html string
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(a.cfg.SearchURL),
		// Фиксированная пауза вместо ожидания конкретного элемента:
		// недогрузившаяся страница даст пустой список, а не таймаут.
		chromedp.Sleep(a.cfg.SearchPageWait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("%s fetcher: failed to load search page: %w", a.cfg.Name, err)
	}

	links, err := extractLinks(html, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("%s fetcher: failed to parse search page: %w", a.cfg.Name, err)
	}

	fetchLinksLogger.Info("Finished fetching candidate links", port.Fields{"links_fetched": len(links)})
	return links, nil
}

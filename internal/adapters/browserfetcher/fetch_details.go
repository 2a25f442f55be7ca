package browserfetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"crm-parser-service/internal/contextkeys"
	"crm-parser-service/internal/core/domain"
	"crm-parser-service/internal/core/port"
)

// Предохранитель на случай, если клик повиснет на невидимой кнопке.
const phoneRevealBudget = 10 * time.Second

// FetchAdDetails загружает страницу объявления, пытается раскрыть
// телефон и извлекает плоскую запись по селекторам конфига.
func (a *BrowserFetcherAdapter) FetchAdDetails(ctx context.Context, link domain.ListingLink) (*domain.ExtractedListing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchDetailsLogger := logger.WithFields(port.Fields{"component": a.cfg.Name + "Fetcher(FetchDetails)"})

	browserCtx, err := a.ensureSession()
	if err != nil {
		return nil, err
	}

	var html string
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(link.URL),
		chromedp.Sleep(a.cfg.DetailPageWait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		fetchDetailsLogger.Error("Failed to load ad page", err, port.Fields{"url": link.URL})
		return nil, fmt.Errorf("%s fetcher: failed to load ad page %s: %w", a.cfg.Name, link.URL, err)
	}

	// Телефон раскрывается отдельным взаимодействием; его неудача
	// локальна и не фатальна.
	phone := a.revealPhone(browserCtx, fetchDetailsLogger)

	record, err := ExtractFields(html, link.URL, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("%s fetcher: failed to parse ad page %s: %w", a.cfg.Name, link.URL, err)
	}
	record.Phone = phone

	return record, nil
}

// revealPhone кликает по кнопке раскрытия, ждет и читает номер.
// Любая неудача дает пустой телефон без записи об ошибке в журнал
// прогона - это косметический пробел, а не сбой элемента.
func (a *BrowserFetcherAdapter) revealPhone(browserCtx context.Context, logger port.LoggerPort) string {
	if a.cfg.Selectors.PhoneButton == "" {
		return ""
	}

	revealCtx, cancel := context.WithTimeout(browserCtx, phoneRevealBudget)
	defer cancel()

	var phone string
	err := chromedp.Run(revealCtx,
		chromedp.Click(a.cfg.Selectors.PhoneButton, chromedp.ByQuery, chromedp.NodeVisible),
		chromedp.Sleep(a.cfg.PhoneRevealWait),
		chromedp.Text(a.cfg.Selectors.PhoneValue, &phone, chromedp.ByQuery),
	)
	if err != nil {
		logger.Debug("Phone reveal failed", port.Fields{"error": err.Error()})
		return ""
	}

	return strings.TrimSpace(phone)
}

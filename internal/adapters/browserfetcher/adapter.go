package browserfetcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"

	"crm-parser-service/internal/constants"
)

// BrowserFetcherAdapter реализует SourceFetcherPort поверх chromedp.
// Порталы рендерят выдачу и раскрывают телефон только из живого
// браузера, поэтому обычным HTTP-клиентом здесь не обойтись.
// Один адаптер - один источник и одна браузерная сессия.
type BrowserFetcherAdapter struct {
	cfg      constants.SourceConfig
	headless bool

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewBrowserFetcherAdapter - конструктор. Браузер поднимается лениво,
// при первом обращении: так ошибка запуска Chrome становится ошибкой
// уровня источника, а не падением всего сервиса на старте.
func NewBrowserFetcherAdapter(cfg constants.SourceConfig, headless bool) *BrowserFetcherAdapter {
	return &BrowserFetcherAdapter{
		cfg:      cfg,
		headless: headless,
	}
}

func (a *BrowserFetcherAdapter) Name() string {
	return a.cfg.Name
}

// ensureSession возвращает контекст живой браузерной сессии, поднимая
// ее при необходимости. После Close сессию можно поднять заново -
// следующий прогон переиспользует тот же адаптер.
func (a *BrowserFetcherAdapter) ensureSession() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.browserCtx != nil {
		return a.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", a.headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Пустой Run форсирует запуск браузера прямо сейчас.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%s fetcher: failed to start browser session: %w", a.cfg.Name, err)
	}

	a.allocCancel = allocCancel
	a.browserCtx = browserCtx
	a.browserCancel = browserCancel
	return browserCtx, nil
}

// Close детерминированно гасит браузерную сессию источника.
func (a *BrowserFetcherAdapter) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.browserCtx == nil {
		return nil
	}

	a.browserCancel()
	a.allocCancel()
	a.browserCtx = nil
	a.browserCancel = nil
	a.allocCancel = nil
	return nil
}

package availability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// CollyCheckerAdapter проверяет доступность объявления обычным
// HTTP-запросом: для ответа на вопрос "жива ли страница" браузер не
// нужен, порталы отдают 404/410 и без JavaScript.
type CollyCheckerAdapter struct {
	// родительский коллектор, разделяющий лимиты между пробами
	collector *colly.Collector
}

// NewCollyCheckerAdapter - конструктор.
func NewCollyCheckerAdapter() (*CollyCheckerAdapter, error) {
	c := colly.NewCollector(colly.AllowURLRevisit())

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		RandomDelay: 2 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("CollyCheckerAdapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c)
	extensions.Referer(c)

	return &CollyCheckerAdapter{collector: c}, nil
}

// Check возвращает alive=false только для подтвержденных 404/410.
// Сетевые ошибки возвращаются как err - вызывающий оставит запись
// нетронутой.
func (a *CollyCheckerAdapter) Check(ctx context.Context, url string) (bool, error) {
	collector := a.collector.Clone()

	var gone bool
	var probeErr error

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && (r.StatusCode == http.StatusNotFound || r.StatusCode == http.StatusGone) {
			gone = true
			return
		}
		probeErr = err
	})

	visitErr := collector.Visit(url)
	collector.Wait()

	if gone {
		return false, nil
	}
	if probeErr != nil {
		return false, probeErr
	}
	if visitErr != nil {
		return false, visitErr
	}
	return true, nil
}

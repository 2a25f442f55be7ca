package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"crm-parser-service/internal/core/domain"
	"crm-parser-service/internal/core/port"
)

func krishaLink(id string) domain.ListingLink {
	return domain.ListingLink{Source: domain.SourceKrisha, URL: "https://krisha.kz/a/show/" + id + "/"}
}

func krishaRecord(id string) *domain.ExtractedListing {
	return &domain.ExtractedListing{
		Source:     domain.SourceKrisha,
		ExternalID: id,
		URL:        "https://krisha.kz/a/show/" + id + "/",
		Title:      "квартира, Центр",
		PriceText:  "10000000",
	}
}

func newRunFixture(fetchers []port.SourceFetcherPort, storage *stubStorage) (*RunIngestionUseCase, *stubProgress) {
	progress := &stubProgress{}
	processUC := NewProcessListingUseCase(storage, nil)
	vocabs := &stubVocabulary{options: map[string][]string{
		domain.VocabDistrict: {"Центр", "Подгора"},
		domain.VocabCategory: {"Продажа"},
	}}
	uc := NewRunIngestionUseCase(fetchers, processUC, vocabs, progress)
	return uc, progress
}

func TestRunIngestionHappyPath(t *testing.T) {
	storage := newStubStorage()
	// a2 уже известен - будет обновлен, a1 новый - будет создан.
	storage.listings["a2"] = &domain.Listing{ExternalID: "a2", Source: domain.SourceKrisha}

	fetcher := &stubFetcher{
		name:  "Krisha",
		links: []domain.ListingLink{krishaLink("a1"), krishaLink("a2"), krishaLink("a3")},
		details: map[string]*domain.ExtractedListing{
			krishaLink("a1").URL: krishaRecord("a1"),
			krishaLink("a2").URL: krishaRecord("a2"),
		},
		detailsErr: map[string]error{
			krishaLink("a3").URL: errors.New("timeout"),
		},
	}

	uc, progress := newRunFixture([]port.SourceFetcherPort{fetcher}, storage)

	handle, err := uc.StartRun(context.Background())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	handle.Wait()

	if progress.resets != 1 {
		t.Fatalf("expected one reset, got %d", progress.resets)
	}

	status := progress.Snapshot()
	if status.Step != domain.StepDone || status.Percent != 100 {
		t.Fatalf("run did not finish terminal: %+v", status)
	}

	// Журнал в порядке обработки, ошибка элемента не прервала прогон.
	if len(status.Log) != 3 {
		t.Fatalf("expected 3 log lines, got %v", status.Log)
	}
	if status.Log[0] != "[KRISHA] Добавлен a1" {
		t.Fatalf("unexpected first line %q", status.Log[0])
	}
	if status.Log[1] != "[KRISHA] Обновлен a2" {
		t.Fatalf("unexpected second line %q", status.Log[1])
	}
	if !strings.HasPrefix(status.Log[2], "[KRISHA] Ошибка парсинга "+krishaLink("a3").URL) {
		t.Fatalf("unexpected error line %q", status.Log[2])
	}

	if !fetcher.closed {
		t.Fatalf("fetcher session not closed")
	}
}

func TestRunIngestionProgressSplitAcrossSources(t *testing.T) {
	storage := newStubStorage()

	first := &stubFetcher{
		name:  "Krisha",
		links: []domain.ListingLink{krishaLink("a1"), krishaLink("a2")},
		details: map[string]*domain.ExtractedListing{
			krishaLink("a1").URL: krishaRecord("a1"),
			krishaLink("a2").URL: krishaRecord("a2"),
		},
	}
	olxLink := domain.ListingLink{Source: domain.SourceOlx, URL: "https://www.olx.kz/d/obyavlenie/x-IDb1.html"}
	second := &stubFetcher{
		name:  "OLX",
		links: []domain.ListingLink{olxLink},
		details: map[string]*domain.ExtractedListing{
			olxLink.URL: {Source: domain.SourceOlx, ExternalID: "IDb1", URL: olxLink.URL, Title: "квартира"},
		},
	}

	uc, progress := newRunFixture([]port.SourceFetcherPort{first, second}, storage)

	handle, err := uc.StartRun(context.Background())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	handle.Wait()

	// Процент первого источника не выходит за 50, второй стартует с 50.
	var percents []int
	for _, u := range progress.updates {
		if u.Percent != nil {
			percents = append(percents, *u.Percent)
		}
	}
	sawSecondHalf := false
	for i, p := range percents {
		if p > 50 && !sawSecondHalf {
			// до этой точки все значения обязаны были уложиться в 0-50
			for _, prev := range percents[:i] {
				if prev > 50 {
					t.Fatalf("first source exceeded its half: %v", percents)
				}
			}
			sawSecondHalf = true
		}
	}
	if percents[len(percents)-1] != 100 {
		t.Fatalf("final percent must be 100: %v", percents)
	}
}

func TestRunIngestionSourceErrorDoesNotStopNextSource(t *testing.T) {
	storage := newStubStorage()

	broken := &stubFetcher{name: "Krisha", linksErr: errors.New("session failed")}
	olxLink := domain.ListingLink{Source: domain.SourceOlx, URL: "https://www.olx.kz/d/obyavlenie/x-IDb1.html"}
	healthy := &stubFetcher{
		name:  "OLX",
		links: []domain.ListingLink{olxLink},
		details: map[string]*domain.ExtractedListing{
			olxLink.URL: {Source: domain.SourceOlx, ExternalID: "IDb1", URL: olxLink.URL},
		},
	}

	uc, progress := newRunFixture([]port.SourceFetcherPort{broken, healthy}, storage)

	handle, err := uc.StartRun(context.Background())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	handle.Wait()

	status := progress.Snapshot()
	if status.Step != domain.StepDone || status.Percent != 100 {
		t.Fatalf("run must finish despite source failure: %+v", status)
	}
	if len(status.Log) != 2 {
		t.Fatalf("expected source error line and one item line, got %v", status.Log)
	}
	if !strings.HasPrefix(status.Log[0], "[KRISHA] Ошибка источника:") {
		t.Fatalf("unexpected source error line %q", status.Log[0])
	}
	if status.Log[1] != "[OLX] Добавлен IDb1" {
		t.Fatalf("unexpected line %q", status.Log[1])
	}
	if !broken.closed || !healthy.closed {
		t.Fatalf("both sessions must be closed")
	}
}

func TestStartRunRejectsConcurrentRun(t *testing.T) {
	storage := newStubStorage()

	blocker := make(chan struct{})
	slow := &blockingFetcher{release: blocker}

	uc, _ := newRunFixture([]port.SourceFetcherPort{slow}, storage)

	handle, err := uc.StartRun(context.Background())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	if _, err := uc.StartRun(context.Background()); !errors.Is(err, domain.ErrRunAlreadyActive) {
		t.Fatalf("expected ErrRunAlreadyActive, got %v", err)
	}

	close(blocker)
	handle.Wait()

	// После завершения прогона новый запуск снова разрешен.
	handle2, err := uc.StartRun(context.Background())
	if err != nil {
		t.Fatalf("StartRun after finish: %v", err)
	}
	handle2.Wait()
}

// blockingFetcher держит FetchLinks, пока тест не отпустит канал.
type blockingFetcher struct {
	release chan struct{}
}

func (f *blockingFetcher) Name() string { return "Slow" }

func (f *blockingFetcher) FetchLinks(_ context.Context) ([]domain.ListingLink, error) {
	<-f.release
	return nil, nil
}

func (f *blockingFetcher) FetchAdDetails(_ context.Context, _ domain.ListingLink) (*domain.ExtractedListing, error) {
	return nil, errors.New("not used")
}

func (f *blockingFetcher) Close(_ context.Context) error { return nil }

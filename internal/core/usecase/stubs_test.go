package usecase

import (
	"context"
	"fmt"

	"crm-parser-service/internal/core/domain"
)

// stubStorage хранит записи в памяти и пишет журнал вызовов.
type stubStorage struct {
	listings map[string]*domain.Listing

	inserted []domain.Listing
	updated  []string
	archived []string

	findErr    error
	insertErr  error
	updateErr  error
	archiveErr error

	activePages [][]domain.Listing
	activeCalls int
}

func newStubStorage() *stubStorage {
	return &stubStorage{listings: make(map[string]*domain.Listing)}
}

func (s *stubStorage) FindByExternalID(_ context.Context, externalID string) (*domain.Listing, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.listings[externalID], nil
}

func (s *stubStorage) Insert(_ context.Context, listing domain.Listing) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, listing)
	s.listings[listing.ExternalID] = &listing
	return nil
}

func (s *stubStorage) UpdateScrapedFields(_ context.Context, externalID string, fields domain.ScrapedFields) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, externalID)
	if existing, ok := s.listings[externalID]; ok {
		existing.Phone = fields.Phone
		existing.Price = fields.Price
		existing.Photos = fields.Photos
		existing.District = fields.District
		existing.Category = fields.Category
		existing.Status = fields.Status
	}
	return nil
}

func (s *stubStorage) GetActiveBySource(_ context.Context, _ string, _, _ int) ([]domain.Listing, error) {
	if s.activeCalls >= len(s.activePages) {
		return nil, nil
	}
	page := s.activePages[s.activeCalls]
	s.activeCalls++
	return page, nil
}

func (s *stubStorage) MarkArchived(_ context.Context, externalID string) error {
	if s.archiveErr != nil {
		return s.archiveErr
	}
	s.archived = append(s.archived, externalID)
	return nil
}

// stubFetcher отдает заранее заданные ссылки и записи.
type stubFetcher struct {
	name     string
	links    []domain.ListingLink
	linksErr error

	details    map[string]*domain.ExtractedListing
	detailsErr map[string]error

	closed bool
}

func (f *stubFetcher) Name() string { return f.name }

func (f *stubFetcher) FetchLinks(_ context.Context) ([]domain.ListingLink, error) {
	return f.links, f.linksErr
}

func (f *stubFetcher) FetchAdDetails(_ context.Context, link domain.ListingLink) (*domain.ExtractedListing, error) {
	if err, ok := f.detailsErr[link.URL]; ok {
		return nil, err
	}
	record, ok := f.details[link.URL]
	if !ok {
		return nil, fmt.Errorf("no stub record for %s", link.URL)
	}
	return record, nil
}

func (f *stubFetcher) Close(_ context.Context) error {
	f.closed = true
	return nil
}

// stubVocabulary отдает справочники из карты.
type stubVocabulary struct {
	options map[string][]string
}

func (v *stubVocabulary) Load(_ context.Context, name string) []string {
	return v.options[name]
}

// stubProgress собирает все обновления, накапливая итоговое состояние.
type stubProgress struct {
	resets  int
	updates []domain.ProgressUpdate

	step    string
	percent int
	log     []string
}

func (p *stubProgress) Reset() {
	p.resets++
	p.step = domain.StepReady
	p.percent = 0
	p.log = nil
}

func (p *stubProgress) Update(update domain.ProgressUpdate) {
	p.updates = append(p.updates, update)
	if update.Step != nil {
		p.step = *update.Step
	}
	if update.Percent != nil {
		p.percent = *update.Percent
	}
	if update.LogLine != nil {
		p.log = append(p.log, *update.LogLine)
	}
}

func (p *stubProgress) Snapshot() domain.ParsingStatus {
	return domain.ParsingStatus{Step: p.step, Percent: p.percent, Log: p.log}
}

// stubChecker отвечает на пробы доступности по карте URL.
type stubChecker struct {
	alive  map[string]bool
	errors map[string]error
}

func (c *stubChecker) Check(_ context.Context, url string) (bool, error) {
	if err, ok := c.errors[url]; ok {
		return false, err
	}
	return c.alive[url], nil
}

// stubEventsQueue копит опубликованные события.
type stubEventsQueue struct {
	events []domain.ListingEvent
	err    error
}

func (q *stubEventsQueue) Enqueue(_ context.Context, event domain.ListingEvent) error {
	if q.err != nil {
		return q.err
	}
	q.events = append(q.events, event)
	return nil
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"crm-parser-service/internal/core/domain"
)

func activeListing(id string) domain.Listing {
	return domain.Listing{
		ExternalID: id,
		Source:     domain.SourceKrisha,
		Status:     domain.StatusActive,
		Link:       "https://krisha.kz/a/show/" + id + "/",
	}
}

func TestActualizeArchivesDeadListings(t *testing.T) {
	storage := newStubStorage()
	storage.activePages = [][]domain.Listing{
		{activeListing("a1"), activeListing("a2"), activeListing("a3")},
	}

	checker := &stubChecker{
		alive: map[string]bool{
			activeListing("a1").Link: true,
			activeListing("a2").Link: false, // 404 на портале
			activeListing("a3").Link: true,
		},
	}
	events := &stubEventsQueue{}
	uc := NewActualizeListingsUseCase(storage, checker, events)

	stats, err := uc.Execute(context.Background(), domain.SourceKrisha)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if stats.Checked != 3 || stats.Archived != 1 || stats.Errors != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(storage.archived) != 1 || storage.archived[0] != "a2" {
		t.Fatalf("unexpected archived %v", storage.archived)
	}
	if len(events.events) != 1 || events.events[0].Outcome != domain.OutcomeArchived {
		t.Fatalf("expected one archived event, got %v", events.events)
	}
}

func TestActualizeProbeErrorKeepsListing(t *testing.T) {
	storage := newStubStorage()
	storage.activePages = [][]domain.Listing{{activeListing("a1")}}

	checker := &stubChecker{
		errors: map[string]error{activeListing("a1").Link: errors.New("connection reset")},
	}
	uc := NewActualizeListingsUseCase(storage, checker, nil)

	stats, err := uc.Execute(context.Background(), domain.SourceKrisha)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if stats.Checked != 1 || stats.Archived != 0 || stats.Errors != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(storage.archived) != 0 {
		t.Fatalf("listing with failed probe must not be archived")
	}
}

func TestActualizeWalksAllPages(t *testing.T) {
	storage := newStubStorage()
	storage.activePages = [][]domain.Listing{
		{activeListing("a1")},
		{activeListing("a2")},
	}
	checker := &stubChecker{alive: map[string]bool{
		activeListing("a1").Link: true,
		activeListing("a2").Link: true,
	}}
	uc := NewActualizeListingsUseCase(storage, checker, nil)

	stats, err := uc.Execute(context.Background(), domain.SourceKrisha)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if stats.Checked != 2 {
		t.Fatalf("expected both pages walked, got %+v", stats)
	}
}

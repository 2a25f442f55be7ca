package usecases_port

import (
	"context"

	"crm-parser-service/internal/core/domain"
)

type ProcessListingPort interface {
	Execute(ctx context.Context, extracted domain.ExtractedListing, vocabularies domain.OptionSet) (domain.ReconcileOutcome, error)
}

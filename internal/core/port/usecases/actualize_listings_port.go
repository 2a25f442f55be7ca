package usecases_port

import (
	"context"

	"crm-parser-service/internal/core/domain"
)

type ActualizeListingsPort interface {
	Execute(ctx context.Context, source string) (*domain.ActualizationStats, error)
}

package usecases_port

import (
	"context"

	"crm-parser-service/internal/core/domain"
)

type RunIngestionPort interface {
	// StartRun запускает прогон в фоне и сразу возвращает хэндл.
	// Повторный вызов при активном прогоне возвращает ErrRunAlreadyActive.
	StartRun(ctx context.Context) (*domain.RunHandle, error)
}

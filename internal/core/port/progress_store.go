package port

import "crm-parser-service/internal/core/domain"

// ProgressStorePort - разделяемое состояние прогресса прогона.
// Контракт: пишет ровно один воркер-оркестратор, читают сколько угодно
// поллеров параллельно; Snapshot всегда возвращает целостное значение.
type ProgressStorePort interface {
	// Reset возвращает статус к исходному состоянию (пустой журнал).
	Reset()

	// Update применяет частичное обновление одним неделимым шагом.
	Update(update domain.ProgressUpdate)

	// Snapshot возвращает неизменяемую копию текущего статуса.
	Snapshot() domain.ParsingStatus
}

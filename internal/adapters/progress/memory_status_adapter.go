package progress

import (
	"sync/atomic"

	"crm-parser-service/internal/core/domain"
)

// MemoryStatusAdapter - разделяемый статус прогона на атомарной подмене
// неизменяемого снимка. Писатель один (воркер-оркестратор), читателей
// сколько угодно: каждый Update собирает новый снимок целиком и
// публикует его одним Store, поэтому рваных чтений не бывает.
type MemoryStatusAdapter struct {
	current atomic.Pointer[domain.ParsingStatus]
}

// NewMemoryStatusAdapter создает хранилище в исходном состоянии.
func NewMemoryStatusAdapter() *MemoryStatusAdapter {
	a := &MemoryStatusAdapter{}
	a.current.Store(initialStatus())
	return a
}

func initialStatus() *domain.ParsingStatus {
	return &domain.ParsingStatus{
		Step:    domain.StepReady,
		Percent: 0,
		Log:     []string{},
	}
}

// Reset полностью возвращает статус к исходному состоянию.
func (a *MemoryStatusAdapter) Reset() {
	a.current.Store(initialStatus())
}

// Update применяет частичное обновление. Журнал копируется при каждой
// дозаписи: уже опубликованные снимки никогда не мутируют.
func (a *MemoryStatusAdapter) Update(update domain.ProgressUpdate) {
	old := a.current.Load()

	next := &domain.ParsingStatus{
		Step:    old.Step,
		Percent: old.Percent,
		Log:     old.Log,
	}
	if update.Step != nil {
		next.Step = *update.Step
	}
	if update.Percent != nil {
		next.Percent = *update.Percent
	}
	if update.LogLine != nil {
		log := make([]string, len(old.Log), len(old.Log)+1)
		copy(log, old.Log)
		next.Log = append(log, *update.LogLine)
	}

	a.current.Store(next)
}

// Snapshot возвращает текущий снимок. Снимок неизменяем, копировать
// журнал читателю не нужно.
func (a *MemoryStatusAdapter) Snapshot() domain.ParsingStatus {
	return *a.current.Load()
}

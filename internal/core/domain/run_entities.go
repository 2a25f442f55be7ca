package domain

// RunHandle - хэндл фонового прогона. Триггер может дождаться
// завершения через Wait или просто выбросить хэндл: прогон
// продолжится в любом случае.
type RunHandle struct {
	done chan struct{}
}

func NewRunHandle() *RunHandle {
	return &RunHandle{done: make(chan struct{})}
}

// Finish помечает прогон завершенным. Вызывается ровно один раз
// воркером-оркестратором.
func (h *RunHandle) Finish() {
	close(h.done)
}

// Done возвращает канал, закрываемый по завершении прогона.
func (h *RunHandle) Done() <-chan struct{} {
	return h.done
}

// Wait блокируется до завершения прогона.
func (h *RunHandle) Wait() {
	<-h.done
}

// ActualizationStats - итог одного прохода актуализации по источнику.
type ActualizationStats struct {
	Checked  int
	Archived int
	Errors   int
}

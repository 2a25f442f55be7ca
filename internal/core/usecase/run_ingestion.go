package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"crm-parser-service/internal/contextkeys"
	"crm-parser-service/internal/core/domain"
	"crm-parser-service/internal/core/port"
	usecases_port "crm-parser-service/internal/core/port/usecases"
)

// RunIngestionUseCase - оркестратор прогона: источники обходятся строго
// по очереди, каждый элемент проходит цикл fetch -> extract -> map ->
// reconcile, прогресс пишется в разделяемый статус после каждого
// элемента. Ошибка одного объявления не прерывает пакет.
type RunIngestionUseCase struct {
	fetchers  []port.SourceFetcherPort // порядок обхода фиксирован
	processUC usecases_port.ProcessListingPort
	vocabs    port.VocabularyPort
	progress  port.ProgressStorePort

	running atomic.Bool
}

// NewRunIngestionUseCase создает новый экземпляр use case.
func NewRunIngestionUseCase(
	fetchers []port.SourceFetcherPort,
	processUC usecases_port.ProcessListingPort,
	vocabs port.VocabularyPort,
	progress port.ProgressStorePort,
) *RunIngestionUseCase {
	return &RunIngestionUseCase{
		fetchers:  fetchers,
		processUC: processUC,
		vocabs:    vocabs,
		progress:  progress,
	}
}

// StartRun запускает прогон на фоновом воркере и сразу возвращает
// хэндл. Контекст отвязывается от отмены вызывающего: HTTP-запрос
// триггера завершается мгновенно, а прогон живет дальше.
func (uc *RunIngestionUseCase) StartRun(ctx context.Context) (*domain.RunHandle, error) {
	if !uc.running.CompareAndSwap(false, true) {
		return nil, domain.ErrRunAlreadyActive
	}

	handle := domain.NewRunHandle()
	runCtx := context.WithoutCancel(ctx)

	go func() {
		// Флаг снимается до закрытия хэндла: кто дождался Wait, тот
		// уже может запускать следующий прогон.
		defer handle.Finish()
		defer uc.running.Store(false)
		uc.execute(runCtx)
	}()

	return handle, nil
}

func (uc *RunIngestionUseCase) execute(ctx context.Context) {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{"use_case": "RunIngestion"})

	ucLogger.Info("Ingestion run started", port.Fields{"sources": len(uc.fetchers)})

	// Новый прогон полностью сбрасывает статус и журнал.
	uc.progress.Reset()

	vocabularies := uc.loadVocabularies(ctx)

	span := 0
	if len(uc.fetchers) > 0 {
		span = 100 / len(uc.fetchers)
	}

	for i, fetcher := range uc.fetchers {
		base := i * span
		uc.progress.Update(domain.ProgressUpdate{
			Step:    strPtr(fetcher.Name()),
			Percent: intPtr(base),
		})

		uc.runSource(ctx, fetcher, base, span, vocabularies, ucLogger)
	}

	uc.progress.Update(domain.ProgressUpdate{
		Step:    strPtr(domain.StepDone),
		Percent: intPtr(100),
	})
	ucLogger.Info("Ingestion run finished", nil)
}

// runSource обрабатывает один источник целиком. Ошибка уровня источника
// (не поднялась сессия, не загрузилась выдача) попадает в журнал и
// останавливает только этот источник - следующий все равно будет
// обработан.
func (uc *RunIngestionUseCase) runSource(
	ctx context.Context,
	fetcher port.SourceFetcherPort,
	base, span int,
	vocabularies domain.OptionSet,
	logger port.LoggerPort,
) {
	tag := strings.ToUpper(fetcher.Name())
	sourceLogger := logger.WithFields(port.Fields{"source": fetcher.Name()})

	// Сессия источника освобождается всегда, успех или нет.
	defer func() {
		if err := fetcher.Close(ctx); err != nil {
			sourceLogger.Error("Failed to close fetcher session", err, nil)
		}
	}()

	links, err := fetcher.FetchLinks(ctx)
	if err != nil {
		sourceLogger.Error("Failed to fetch candidate links", err, nil)
		uc.progress.Update(domain.ProgressUpdate{
			LogLine: strPtr(fmt.Sprintf("[%s] Ошибка источника: %v", tag, err)),
		})
		return
	}

	total := len(links)
	sourceLogger.Info("Fetched candidate links", port.Fields{"count": total})

	for idx, link := range links {
		msg := uc.processOne(ctx, fetcher, link, vocabularies, tag)

		uc.progress.Update(domain.ProgressUpdate{
			Step:    strPtr(fmt.Sprintf("%s: %d/%d", fetcher.Name(), idx+1, total)),
			Percent: intPtr(base + span*(idx+1)/total),
			LogLine: strPtr(msg),
		})
	}
}

// processOne превращает результат обработки одного объявления в строку
// журнала. Любая ошибка здесь - ошибка элемента, а не прогона.
func (uc *RunIngestionUseCase) processOne(
	ctx context.Context,
	fetcher port.SourceFetcherPort,
	link domain.ListingLink,
	vocabularies domain.OptionSet,
	tag string,
) string {
	extracted, err := fetcher.FetchAdDetails(ctx, link)
	if err != nil {
		return fmt.Sprintf("[%s] Ошибка парсинга %s: %v", tag, link.URL, err)
	}

	outcome, err := uc.processUC.Execute(ctx, *extracted, vocabularies)
	if err != nil {
		return fmt.Sprintf("[%s] Ошибка парсинга %s: %v", tag, link.URL, err)
	}

	switch outcome {
	case domain.OutcomeCreated:
		return fmt.Sprintf("[%s] Добавлен %s", tag, extracted.ExternalID)
	default:
		return fmt.Sprintf("[%s] Обновлен %s", tag, extracted.ExternalID)
	}
}

func (uc *RunIngestionUseCase) loadVocabularies(ctx context.Context) domain.OptionSet {
	return domain.OptionSet{
		District:  uc.vocabs.Load(ctx, domain.VocabDistrict),
		Status:    uc.vocabs.Load(ctx, domain.VocabStatus),
		Category:  uc.vocabs.Load(ctx, domain.VocabCategory),
		Plan:      uc.vocabs.Load(ctx, domain.VocabPlan),
		Material:  uc.vocabs.Load(ctx, domain.VocabMaterial),
		Balcony:   uc.vocabs.Load(ctx, domain.VocabBalcony),
		Parking:   uc.vocabs.Load(ctx, domain.VocabParking),
		Condition: uc.vocabs.Load(ctx, domain.VocabCondition),
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

package rest

import (
	"errors"
	"net/http"

	"crm-parser-service/internal/contextkeys"
	"crm-parser-service/internal/core/domain"
	"crm-parser-service/internal/core/port"
	usecases_port "crm-parser-service/internal/core/port/usecases"
)

type ParserHandler struct {
	runIngestionUC usecases_port.RunIngestionPort
	progress       port.ProgressStorePort
}

func NewParserHandlers(runIngestionUC usecases_port.RunIngestionPort, progress port.ProgressStorePort) *ParserHandler {
	return &ParserHandler{
		runIngestionUC: runIngestionUC,
		progress:       progress,
	}
}

// RunParser запускает фоновый прогон и сразу отвечает 202.
// Повторный запуск при активном прогоне - 409.
func (h *ParserHandler) RunParser(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	handlerLogger := logger.WithFields(port.Fields{"handler": "RunParser"})
	handlerLogger.Info("Processing request", nil)

	_, err := h.runIngestionUC.StartRun(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrRunAlreadyActive) {
			handlerLogger.Warn("Run rejected: another run is active", nil)
			WriteJSONError(w, http.StatusConflict, "parser run is already in progress")
			return
		}
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "failed to start parser run")
		return
	}

	handlerLogger.Info("Parser run accepted", nil)
	RespondWithJSON(w, http.StatusAccepted, RunAcceptedResponse{Ok: true})
}

// GetParserStatus отдает текущий снимок прогресса для поллинга.
func (h *ParserHandler) GetParserStatus(w http.ResponseWriter, r *http.Request) {
	status := h.progress.Snapshot()

	response := ParsingStatusResponse{
		Step:    status.Step,
		Percent: status.Percent,
		Log:     status.Log,
	}
	if response.Log == nil {
		response.Log = []string{}
	}

	RespondWithJSON(w, http.StatusOK, response)
}

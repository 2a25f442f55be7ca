package rest

import (
	"fmt"
	"net/http"

	"crm-parser-service/internal/contextkeys"
	"crm-parser-service/internal/core/domain"
	"crm-parser-service/internal/core/port"
	usecases_port "crm-parser-service/internal/core/port/usecases"
)

type ActualizerHandler struct {
	actualizeUC usecases_port.ActualizeListingsPort
}

func NewActualizerHandlers(actualizeUC usecases_port.ActualizeListingsPort) *ActualizerHandler {
	return &ActualizerHandler{actualizeUC: actualizeUC}
}

// RunActualizer проверяет доступность активных объявлений и архивирует
// мертвые. Без параметра source обходит все источники по очереди.
func (h *ActualizerHandler) RunActualizer(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	sources := []string{domain.SourceKrisha, domain.SourceOlx}
	if requested := r.URL.Query().Get("source"); requested != "" {
		if requested != domain.SourceKrisha && requested != domain.SourceOlx {
			logger.Warn("Invalid 'source' parameter", port.Fields{"source": requested})
			WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("RunActualizer: unknown source %q", requested))
			return
		}
		sources = []string{requested}
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "RunActualizer",
		"sources": sources,
	})
	handlerLogger.Info("Processing request", nil)

	response := make([]ActualizationStatsResponse, 0, len(sources))
	for _, source := range sources {
		stats, err := h.actualizeUC.Execute(r.Context(), source)
		if err != nil {
			handlerLogger.Error("Use case failed", err, port.Fields{"source": source})
			WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("RunActualizer: failed for source %s: %v", source, err))
			return
		}
		response = append(response, ActualizationStatsResponse{
			Source:   source,
			Checked:  stats.Checked,
			Archived: stats.Archived,
			Errors:   stats.Errors,
		})
	}

	handlerLogger.Info("Actualization finished", nil)
	RespondWithJSON(w, http.StatusOK, response)
}

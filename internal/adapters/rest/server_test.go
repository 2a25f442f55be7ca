package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crm-parser-service/internal/core/domain"
	"crm-parser-service/internal/core/port"
)

type noopTestLogger struct{}

func (noopTestLogger) Info(string, port.Fields)         {}
func (noopTestLogger) Warn(string, port.Fields)         {}
func (noopTestLogger) Error(string, error, port.Fields) {}
func (noopTestLogger) Debug(string, port.Fields)        {}
func (l noopTestLogger) WithFields(port.Fields) port.LoggerPort {
	return l
}

type stubRunIngestion struct {
	err error
}

func (s *stubRunIngestion) StartRun(_ context.Context) (*domain.RunHandle, error) {
	if s.err != nil {
		return nil, s.err
	}
	h := domain.NewRunHandle()
	h.Finish()
	return h, nil
}

type stubProgressStore struct {
	status domain.ParsingStatus
}

func (s *stubProgressStore) Reset()                         {}
func (s *stubProgressStore) Update(_ domain.ProgressUpdate) {}
func (s *stubProgressStore) Snapshot() domain.ParsingStatus { return s.status }

type stubActualize struct {
	stats map[string]*domain.ActualizationStats
	err   error
}

func (s *stubActualize) Execute(_ context.Context, source string) (*domain.ActualizationStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stats[source], nil
}

func newTestServer(run *stubRunIngestion, progress *stubProgressStore, act *stubActualize) http.Handler {
	// Собираем роутер так же, как App, но с заглушками вместо ядра.
	srv := NewServer("0", NewParserHandlers(run, progress), NewActualizerHandlers(act), noopTestLogger{})
	return srv.httpServer.Handler
}

func TestRunParserAccepted(t *testing.T) {
	handler := newTestServer(&stubRunIngestion{}, &stubProgressStore{}, &stubActualize{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parser/run", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var body RunAcceptedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Ok {
		t.Fatalf("expected ok=true")
	}
}

func TestRunParserConflictWhenAlreadyActive(t *testing.T) {
	handler := newTestServer(&stubRunIngestion{err: domain.ErrRunAlreadyActive}, &stubProgressStore{}, &stubActualize{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parser/run", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestGetParserStatusReturnsSnapshot(t *testing.T) {
	progress := &stubProgressStore{status: domain.ParsingStatus{
		Step:    "Krisha: 3/10",
		Percent: 15,
		Log:     []string{"[KRISHA] Добавлен a1"},
	}}
	handler := newTestServer(&stubRunIngestion{}, progress, &stubActualize{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parser/status", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body ParsingStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Step != "Krisha: 3/10" || body.Percent != 15 || len(body.Log) != 1 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestGetParserStatusEmptyLogIsArray(t *testing.T) {
	handler := newTestServer(&stubRunIngestion{}, &stubProgressStore{status: domain.ParsingStatus{Step: domain.StepReady}}, &stubActualize{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parser/status", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Фронтенд итерирует log без проверок, null недопустим.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if string(raw["log"]) != "[]" {
		t.Fatalf("expected empty array, got %s", raw["log"])
	}
}

func TestRunActualizerUnknownSource(t *testing.T) {
	handler := newTestServer(&stubRunIngestion{}, &stubProgressStore{}, &stubActualize{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/actualizer/run?source=avito", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRunActualizerAllSources(t *testing.T) {
	act := &stubActualize{stats: map[string]*domain.ActualizationStats{
		domain.SourceKrisha: {Checked: 5, Archived: 1},
		domain.SourceOlx:    {Checked: 3},
	}}
	handler := newTestServer(&stubRunIngestion{}, &stubProgressStore{}, act)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/actualizer/run", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body []ActualizationStatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 2 || body[0].Source != domain.SourceKrisha || body[0].Archived != 1 {
		t.Fatalf("unexpected body %+v", body)
	}
}

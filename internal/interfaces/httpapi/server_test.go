package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-ledger/internal/infrastructure/export"
	"github.com/riskibarqy/tournament-ledger/internal/infrastructure/matchsource"
	"github.com/riskibarqy/tournament-ledger/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-ledger/internal/platform/logging"
	"github.com/riskibarqy/tournament-ledger/internal/usecase"
)

const alphaBeatsBravo = `{"Spele":{"Komand":[
 {"Nosaukums":"Alpha",
  "Speletaji":{"Speletajs":[{"Nr":"7","Vards":"Janis","Uzvards":"Ozols"},{"Nr":"9","Vards":"Peteris","Uzvards":"Kalnins"}]},
  "Pamatsastavs":{"Speletajs":[{"Nr":"7"},{"Nr":"9"}]},
  "Varti":{"VG":[{"Laiks":"12:00","Nr":"9","P":{"Nr":"7"}},{"Laiks":"45:00","Nr":"9"}]},
  "Sodi":{"Sods":{"Laiks":"30:00","Nr":"7"}}},
 {"Nosaukums":"Bravo",
  "Speletaji":{"Speletajs":[{"Nr":"8","Vards":"Roberts","Uzvards":"Sprogis"}]},
  "Pamatsastavs":{"Speletajs":{"Nr":"8"}},
  "Varti":{"VG":{"Laiks":"20:00","Nr":"8"}},
  "Mainas":""}
]}}`

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       any            `json:"data"`
	Error      map[string]any `json:"error"`
}

func newTestRouter(t *testing.T, files map[string]string, metrics http.Handler) http.Handler {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	source, err := matchsource.NewDirectory(dir, "")
	if err != nil {
		t.Fatalf("new directory source: %v", err)
	}

	repo := memory.NewLedgerRepository()
	ingestion := usecase.NewIngestionService(source, repo, nil, nil, nil, usecase.IngestionConfig{ParseWorkers: 2}, logging.NewNop())
	leaderboard := usecase.NewLeaderboardService(repo, repo, 10, export.WriteWorkbook)
	handler := NewHandler(ingestion, leaderboard, 4096, logging.NewNop())
	return NewRouter(handler, metrics, logging.NewNop(), []string{"*"})
}

func serve(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal envelope: %v (body=%s)", err, rec.Body.String())
	}
	return body
}

func TestRouter_ScanThenStandings(t *testing.T) {
	router := newTestRouter(t, map[string]string{
		"round1.json": alphaBeatsBravo,
		"broken.json": `{"Spele":{"Komand":[]}}`,
		"notes.txt":   "ignored",
	}, nil)

	rec := serve(t, router, http.MethodPost, "/v1/scans", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("scan status=%d body=%s", rec.Code, rec.Body.String())
	}
	data, _ := decodeEnvelope(t, rec).Data.(map[string]any)
	if data["merged"] != float64(1) || data["skipped"] != float64(1) || data["considered"] != float64(2) {
		t.Fatalf("unexpected scan summary: %+v", data)
	}
	if _, ok := data["files"]; ok {
		t.Fatalf("per-file outcomes must be hidden without verbose")
	}
	runID, _ := data["run_id"].(string)

	rec = serve(t, router, http.MethodPost, "/v1/scans?verbose=true", "")
	data, _ = decodeEnvelope(t, rec).Data.(map[string]any)
	files, _ := data["files"].([]any)
	if data["merged"] != float64(0) || data["unchanged"] != float64(1) || len(files) != 2 {
		t.Fatalf("unexpected verbose rescan summary: %+v", data)
	}

	rec = serve(t, router, http.MethodGet, "/v1/scans/"+runID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get run status=%d", rec.Code)
	}
	rec = serve(t, router, http.MethodGet, "/v1/scans/latest", "")
	data, _ = decodeEnvelope(t, rec).Data.(map[string]any)
	if data["run_id"] == runID {
		t.Fatalf("latest run should be the second scan")
	}

	rec = serve(t, router, http.MethodGet, "/v1/standings", "")
	items, _ := decodeEnvelope(t, rec).Data.([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(items))
	}
	first, _ := items[0].(map[string]any)
	if first["name"] != "Alpha" || first["points"] != float64(5) || first["goals_scored"] != float64(2) || first["games_won_reg"] != float64(1) {
		t.Fatalf("unexpected leader: %+v", first)
	}
}

func TestRouter_LegacyRoutesReturnBareArrays(t *testing.T) {
	router := newTestRouter(t, map[string]string{"round1.json": alphaBeatsBravo}, nil)

	rec := serve(t, router, http.MethodGet, "/api/process", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "1 new file(s) merged") {
		t.Fatalf("unexpected legacy process response: %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, router, http.MethodGet, "/api/table", "")
	var table []map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &table); err != nil {
		t.Fatalf("legacy table must be a bare array: %v", err)
	}
	if len(table) != 2 || table[1]["name"] != "Bravo" || table[1]["games_lost_reg"] != float64(1) {
		t.Fatalf("unexpected legacy table: %+v", table)
	}

	rec = serve(t, router, http.MethodGet, "/api/scorers?limit=1", "")
	var scorers []map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &scorers); err != nil {
		t.Fatalf("legacy scorers must be a bare array: %v", err)
	}
	if len(scorers) != 1 || scorers[0]["id"] != "Alpha-9" || scorers[0]["goals"] != float64(2) {
		t.Fatalf("unexpected legacy scorers: %+v", scorers)
	}

	rec = serve(t, router, http.MethodGet, "/api/penalties", "")
	var carded []map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &carded); err != nil {
		t.Fatalf("legacy penalties must be a bare array: %v", err)
	}
	if len(carded) == 0 || carded[0]["id"] != "Alpha-7" || carded[0]["yellow_cards"] != float64(1) {
		t.Fatalf("unexpected legacy penalties: %+v", carded)
	}

	rec = serve(t, router, http.MethodGet, "/api/ironmen", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("legacy ironmen status=%d", rec.Code)
	}

	rec = serve(t, router, http.MethodGet, "/", "")
	if !strings.Contains(rec.Body.String(), "alive") {
		t.Fatalf("unexpected root response: %s", rec.Body.String())
	}
}

func TestRouter_LeaderboardRejectsBadLimit(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	for _, target := range []string{
		"/v1/players/top-scorers?limit=abc",
		"/v1/players/most-carded?limit=101",
		"/v1/players/most-minutes?limit=-2",
	} {
		rec := serve(t, router, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestRouter_IngestMatch(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	body, err := sonic.MarshalString(map[string]any{"filename": "upload.json", "content": sonic.NoCopyRawMessage(alphaBeatsBravo)})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	rec := serve(t, router, http.MethodPost, "/v1/matches", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest status=%d body=%s", rec.Code, rec.Body.String())
	}
	data, _ := decodeEnvelope(t, rec).Data.(map[string]any)
	if data["applied"] != true {
		t.Fatalf("expected applied ingest: %+v", data)
	}

	asString, err := sonic.MarshalString(map[string]any{"filename": "second.json", "content": alphaBeatsBravo})
	if err != nil {
		t.Fatalf("marshal string request: %v", err)
	}
	for i, wantApplied := range []bool{true, false} {
		rec = serve(t, router, http.MethodPost, "/v1/matches", asString)
		data, _ = decodeEnvelope(t, rec).Data.(map[string]any)
		if rec.Code != http.StatusOK || data["applied"] != wantApplied {
			t.Fatalf("string upload %d: expected applied=%v, got %d %+v", i+1, wantApplied, rec.Code, data)
		}
	}

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "malformed report", body: `{"filename":"bad.json","content":{"Spele":{}}}`, status: http.StatusUnprocessableEntity},
		{name: "missing filename", body: `{"content":{"Spele":{}}}`, status: http.StatusBadRequest},
		{name: "path in filename", body: `{"filename":"../x.json","content":{}}`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"filename":"a.json","content":{},"extra":1}`, status: http.StatusBadRequest},
		{name: "oversized body", body: `{"filename":"big.json","content":"` + strings.Repeat("x", 5000) + `"}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, router, http.MethodPost, "/v1/matches", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d body=%s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_ScanLookupErrors(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	if rec := serve(t, router, http.MethodGet, "/v1/scans/latest", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any scan, got %d", rec.Code)
	}
	if rec := serve(t, router, http.MethodGet, "/v1/scans/run-missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown run, got %d", rec.Code)
	}
	if rec := serve(t, router, http.MethodPost, "/v1/scans?verbose=maybe", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad verbose flag, got %d", rec.Code)
	}
}

func TestRouter_ExportWorkbook(t *testing.T) {
	router := newTestRouter(t, map[string]string{"round1.json": alphaBeatsBravo}, nil)
	serve(t, router, http.MethodPost, "/v1/scans", "")

	rec := serve(t, router, http.MethodGet, "/v1/exports/ledger.xlsx", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status=%d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("unexpected content type: %s", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatalf("expected a zip container")
	}
}

func TestRouter_MetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ledger_scans_total 0\n"))
	})

	withMetrics := newTestRouter(t, nil, metrics)
	if rec := serve(t, withMetrics, http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected metrics route, got %d", rec.Code)
	}

	without := newTestRouter(t, nil, nil)
	if rec := serve(t, without, http.MethodGet, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics, got %d", rec.Code)
	}
}

func TestRouter_RecoversFromPanic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	handler := recoverPanic(logging.NewNop(), mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

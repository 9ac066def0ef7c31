package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /{$}", handler.Root)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerScanRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/scans", handler.RunScan)
	mux.HandleFunc("GET /v1/scans/latest", handler.GetLatestScan)
	mux.HandleFunc("GET /v1/scans/{runID}", handler.GetScanRun)
	mux.HandleFunc("POST /v1/matches", handler.IngestMatch)
}

func registerLeaderboardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/players/top-scorers", handler.ListTopScorers)
	mux.HandleFunc("GET /v1/players/most-carded", handler.ListMostCarded)
	mux.HandleFunc("GET /v1/players/most-minutes", handler.ListMostMinutes)
	mux.HandleFunc("GET /v1/exports/ledger.xlsx", handler.ExportWorkbook)
}

// registerLegacyRoutes keeps the paths the original dashboard calls.
func registerLegacyRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/process", handler.RunLegacyProcess)
	mux.HandleFunc("POST /api/process", handler.RunLegacyProcess)
	mux.HandleFunc("GET /api/table", handler.LegacyTable)
	mux.HandleFunc("GET /api/scorers", handler.LegacyScorers)
	mux.HandleFunc("GET /api/penalties", handler.LegacyPenalties)
	mux.HandleFunc("GET /api/ironmen", handler.LegacyIronmen)
}

package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/tournament-ledger/internal/usecase"
)

type ingestMatchRequest struct {
	Filename string              `json:"filename" validate:"required,max=255,excludesall=/\\"`
	Content  jsoniter.RawMessage `json:"content" validate:"required"`
}

// RunScan triggers one pass over the match directory.
func (h *Handler) RunScan(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScan")
	defer span.End()

	query, err := parseScanQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.ingestionService.Scan(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "scan failed", "run_id", report.RunID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scanToDTO(report, query.Verbose))
}

// RunLegacyProcess keeps the response shape the original dashboard reads.
func (h *Handler) RunLegacyProcess(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLegacyProcess")
	defer span.End()

	report, err := h.ingestionService.Scan(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "legacy process failed", "run_id", report.RunID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, messageDTO{
		Message: fmt.Sprintf("Processing finished: %d new file(s) merged, %d skipped.", report.Merged, report.Skipped),
	})
}

func (h *Handler) GetScanRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScanRun")
	defer span.End()

	runID := strings.TrimSpace(r.PathValue("runID"))
	report, err := h.ingestionService.GetRun(ctx, runID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scanToDTO(report, true))
}

func (h *Handler) GetLatestScan(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLatestScan")
	defer span.End()

	query, err := parseScanQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.ingestionService.LatestRun(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scanToDTO(report, query.Verbose))
}

// IngestMatch merges one uploaded match report. Content may be the report
// object itself or a string holding it.
func (h *Handler) IngestMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestMatch")
	defer span.End()

	var req ingestMatchRequest
	decoder := jsoniter.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	raw := []byte(req.Content)
	if strings.HasPrefix(strings.TrimSpace(string(raw)), `"`) {
		var text string
		if err := jsoniter.Unmarshal(raw, &text); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: content string: %v", usecase.ErrInvalidInput, err))
			return
		}
		raw = []byte(text)
	}

	result, err := h.ingestionService.Ingest(ctx, req.Filename, raw)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest match failed", "file", req.Filename, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

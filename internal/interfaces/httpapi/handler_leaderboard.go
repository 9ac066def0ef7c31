package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/valyala/bytebufferpool"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	items, err := h.leaderboardService.Standings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(items))
}

func (h *Handler) ListTopScorers(w http.ResponseWriter, r *http.Request) {
	h.serveBoard(w, r, playerstats.BoardTopScorers, false)
}

func (h *Handler) ListMostCarded(w http.ResponseWriter, r *http.Request) {
	h.serveBoard(w, r, playerstats.BoardMostCarded, false)
}

func (h *Handler) ListMostMinutes(w http.ResponseWriter, r *http.Request) {
	h.serveBoard(w, r, playerstats.BoardMostMinutes, false)
}

// LegacyTable serves the bare standings array the original dashboard reads.
func (h *Handler) LegacyTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LegacyTable")
	defer span.End()

	items, err := h.leaderboardService.Standings(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, standingsToDTO(items))
}

func (h *Handler) LegacyScorers(w http.ResponseWriter, r *http.Request) {
	h.serveBoard(w, r, playerstats.BoardTopScorers, true)
}

func (h *Handler) LegacyPenalties(w http.ResponseWriter, r *http.Request) {
	h.serveBoard(w, r, playerstats.BoardMostCarded, true)
}

func (h *Handler) LegacyIronmen(w http.ResponseWriter, r *http.Request) {
	h.serveBoard(w, r, playerstats.BoardMostMinutes, true)
}

func (h *Handler) serveBoard(w http.ResponseWriter, r *http.Request, board playerstats.Board, bare bool) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBoard")
	defer span.End()

	query, err := parseLeaderboardQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.leaderboardService.Board(ctx, board, query.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list leaderboard failed", "board", string(board), "error", err)
		writeError(ctx, w, err)
		return
	}

	if bare {
		writeJSON(ctx, w, http.StatusOK, playersToDTO(items))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

// ExportWorkbook streams standings and player totals as an XLSX file.
func (h *Handler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportWorkbook")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := h.leaderboardService.ExportWorkbook(ctx, buf); err != nil {
		h.logger.ErrorContext(ctx, "export workbook failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="ledger.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.B)
}

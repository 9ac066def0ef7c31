package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tournament-ledger/internal/platform/logging"
	"github.com/riskibarqy/tournament-ledger/internal/usecase"
)

const defaultMaxUploadBytes = 1 << 20

type Handler struct {
	ingestionService   *usecase.IngestionService
	leaderboardService *usecase.LeaderboardService
	logger             *logging.Logger
	validator          *validator.Validate
	maxUploadBytes     int64
}

func NewHandler(
	ingestionService *usecase.IngestionService,
	leaderboardService *usecase.LeaderboardService,
	maxUploadBytes int,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}

	return &Handler{
		ingestionService:   ingestionService,
		leaderboardService: leaderboardService,
		logger:             logger,
		validator:          validator.New(),
		maxUploadBytes:     int64(maxUploadBytes),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Root answers the liveness probe the legacy UI polls.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Root")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, messageDTO{Message: "Tournament ledger is alive."})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type leaderboardQuery struct {
	Limit int `validate:"gte=0,lte=100"`
}

type scanQuery struct {
	Verbose bool
}

func parseLeaderboardQuery(r *http.Request) (leaderboardQuery, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return leaderboardQuery{}, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return leaderboardQuery{}, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput)
	}
	return leaderboardQuery{Limit: limit}, nil
}

func parseScanQuery(r *http.Request) (scanQuery, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("verbose"))
	if raw == "" {
		return scanQuery{}, nil
	}
	verbose, err := strconv.ParseBool(raw)
	if err != nil {
		return scanQuery{}, fmt.Errorf("%w: verbose must be a boolean", usecase.ErrInvalidInput)
	}
	return scanQuery{Verbose: verbose}, nil
}

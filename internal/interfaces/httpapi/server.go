package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tournament-ledger/internal/platform/logging"
)

// NewRouter wires every route behind tracing, logging, CORS and panic
// recovery. A nil metrics handler leaves /metrics unregistered.
func NewRouter(
	handler *Handler,
	metrics http.Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, metrics)
	registerScanRoutes(mux, handler)
	registerLeaderboardRoutes(mux, handler)
	registerLegacyRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

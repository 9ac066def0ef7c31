package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var (
	apiTracer = otel.Tracer("tournament-ledger/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// startSpan opens spans for handler entry points only. Helpers and
// middleware share the request span opened by otelhttp.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	handler, ok := handlerName(name)
	if !ok {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attribute.String("ledger.handler", handler)))
}

func handlerName(spanName string) (string, bool) {
	name, ok := strings.CutPrefix(spanName, handlerSpanPrefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/osse101/GameBoxBot_Go/internal/tracing"
)

// Tracing continues the caller's trace from the request headers and wraps
// the request in a server span named after the chi route
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracing.Start(ctx, SpanNamePrefix+r.Method,
			attribute.String(AttrHTTPMethod, r.Method),
			attribute.String(AttrHTTPTarget, r.URL.Path),
		)

		rw := newStatusRecorder(w)
		next.ServeHTTP(rw, r.WithContext(ctx))

		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			span.SetName(SpanNamePrefix + r.Method + " " + rctx.RoutePattern())
			span.SetAttributes(attribute.String(AttrHTTPRoute, rctx.RoutePattern()))
		}
		span.SetAttributes(attribute.Int(AttrHTTPStatusCode, rw.statusCode))

		var err error
		if rw.statusCode >= http.StatusInternalServerError {
			err = fmt.Errorf("%s", http.StatusText(rw.statusCode))
		}
		tracing.End(span, err)
	})
}

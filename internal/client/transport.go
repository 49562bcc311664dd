package client

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/workshop-console/internal/logger"
	"github.com/duynhne/workshop-console/middleware"
)

// instrumentedTransport traces, times and logs every workshop API call.
type instrumentedTransport struct {
	next http.RoundTripper
}

func newInstrumentedTransport(next http.RoundTripper) *instrumentedTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &instrumentedTransport{next: next}
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := middleware.StartSpan(req.Context(), "workshop_api "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("layer", "client"),
			attribute.String("http.method", req.Method),
			attribute.String("http.path", req.URL.Path),
		))
	defer span.End()

	out := req.Clone(ctx)
	middleware.InjectTraceContext(ctx, propagation.HeaderCarrier(out.Header))

	start := time.Now()
	resp, err := t.next.RoundTrip(out)
	elapsed := time.Since(start)

	log := logger.FromContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		middleware.ObserveUpstream(req.Method, 0, elapsed)
		log.Warn().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Dur("duration", elapsed).Msg("Workshop API request failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 500 {
		span.SetStatus(codes.Error, resp.Status)
	}
	middleware.ObserveUpstream(req.Method, resp.StatusCode, elapsed)
	log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Msg("Workshop API request")
	return resp, nil
}

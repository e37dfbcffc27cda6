package telemetry

import (
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentResty opens a span for every request the client makes.
// response bodies are not recorded, scraped pages can contain
// credentials echoed back in form fields.
func InstrumentResty(client *resty.Client, tracerName string) {
	tracer := otel.Tracer(tracerName)

	client.OnBeforeRequest(func(cli *resty.Client, req *resty.Request) error {
		ctx, _ := tracer.Start(req.Context(), req.Method)
		req.SetContext(ctx)
		return nil
	})
	client.OnAfterResponse(func(cli *resty.Client, res *resty.Response) error {
		span := trace.SpanFromContext(res.Request.Context())
		span.SetAttributes(
			attribute.String("url", res.Request.URL),
			attribute.Int("status_code", res.StatusCode()),
			attribute.String("duration", res.Time().String()),
		)
		if res.IsError() {
			span.SetStatus(codes.Error, res.Status())
		}
		span.End()
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		span := trace.SpanFromContext(req.Context())
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		span.End()
	})
}

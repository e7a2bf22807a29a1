package telemetry_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/jfkcannabis/storefront/internal/pkg/telemetry"
)

func TestMiddleware_RecordsSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	var sawSpan bool
	app := fiber.New()
	app.Use(telemetry.Middleware())
	app.Get("/v1/zones", func(c *fiber.Ctx) error {
		sawSpan = trace.SpanFromContext(c.UserContext()).SpanContext().IsValid()
		return c.SendStatus(fiber.StatusOK)
	})

	if _, err := app.Test(httptest.NewRequest("GET", "/v1/zones", nil), -1); err != nil {
		t.Fatalf("request: %v", err)
	}
	if !sawSpan {
		t.Error("handler context carries no span")
	}

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].Name(); got != "GET /v1/zones" {
		t.Errorf("span name = %q", got)
	}
}

package obs

import (
	"context"
	"testing"
)

func TestInitTracerNoneExporter(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracingConfig{ServiceName: "tcm-pricing", Exporter: "none"})
	if err != nil {
		t.Fatalf("init tracer: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInitTracerUnknownExporter(t *testing.T) {
	if _, err := InitTracer(context.Background(), TracingConfig{Exporter: "zipkin"}); err == nil {
		t.Fatal("expected error for unsupported exporter")
	}
}

package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/odvcencio/arrownav/pkg/errors"
)

// TracerProvider exports spans as JSON to a writer. A nil provider hands out
// no-op tracers.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	closer   io.Closer
	done     bool
}

// NewTracerProvider creates a provider exporting to w.
func NewTracerProvider(w io.Writer, serviceName, version string) (*TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTelemetry, "failed to create trace exporter")
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
			attribute.String("component", "navigation"),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTelemetry, "failed to create resource")
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return &TracerProvider{provider: provider}, nil
}

// OpenTraceFile creates a provider appending to the file at path. An empty
// path returns a nil provider.
func OpenTraceFile(path, serviceName, version string) (*TracerProvider, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTelemetry, "failed to open trace file").WithContext("path", path)
	}
	tp, err := NewTracerProvider(f, serviceName, version)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	tp.closer = f
	return tp, nil
}

// Tracer returns a named tracer.
func (tp *TracerProvider) Tracer(name string) trace.Tracer {
	if tp == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return tp.provider.Tracer(name)
}

// Shutdown flushes pending spans and closes the trace file.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp == nil || tp.done {
		return nil
	}
	tp.done = true
	err := tp.provider.Shutdown(ctx)
	if tp.closer != nil {
		if cerr := tp.closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing trace file: %w", cerr)
		}
		tp.closer = nil
	}
	return err
}

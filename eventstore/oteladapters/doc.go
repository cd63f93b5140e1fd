// Package oteladapters implements the observability interfaces of the journal and the
// command handlers on top of OpenTelemetry.
//
// The adapters report to whatever providers they are given, usually the global ones:
//
//	meter := otel.GetMeterProvider().Meter("borrowdesk")
//	tracer := otel.GetTracerProvider().Tracer("borrowdesk")
//	metrics := oteladapters.NewMetricsCollector(meter)
//	tracing := oteladapters.NewTracingCollector(tracer)
//	logger := oteladapters.NewSlogBridgeLogger("borrowdesk")
package oteladapters

package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore/oteladapters"
)

func givenMeter(t *testing.T) (metric.Meter, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return provider.Meter("borrowdesk-test"), reader
}

func collected(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not collected", "name: %s", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_IncrementCounter_CountsPerLabelSet(t *testing.T) {
	// arrange
	meter, reader := givenMeter(t)
	collector := oteladapters.NewMetricsCollector(meter)
	labels := map[string]string{"command_type": "SubmitBorrowRequest", "status": "success"}

	// act
	collector.IncrementCounter("commandhandler_calls_total", labels)
	collector.IncrementCounterContext(context.Background(), "commandhandler_calls_total", labels)

	// assert
	sum, ok := collected(t, reader, "commandhandler_calls_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)

	status, found := sum.DataPoints[0].Attributes.Value(attribute.Key("status"))
	require.True(t, found)
	assert.Equal(t, "success", status.AsString())
}

func Test_MetricsCollector_RecordDuration_InSeconds(t *testing.T) {
	// arrange
	meter, reader := givenMeter(t)
	collector := oteladapters.NewMetricsCollector(meter)

	// act
	collector.RecordDuration("commandhandler_duration_seconds", 1500*time.Millisecond, nil)

	// assert
	histogram, ok := collected(t, reader, "commandhandler_duration_seconds").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 1.5, histogram.DataPoints[0].Sum, 1e-9)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	// arrange
	meter, reader := givenMeter(t)
	collector := oteladapters.NewMetricsCollector(meter)

	// act
	collector.RecordValue("journal_events_queried", 7, map[string]string{"operation": "query"})
	collector.RecordValueContext(context.Background(), "journal_events_queried", 3, map[string]string{"operation": "query"})

	// assert
	gauge, ok := collected(t, reader, "journal_events_queried").Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 3.0, gauge.DataPoints[0].Value, 1e-9)
}

func Test_MetricsCollector_DropsEverything_WithoutMeter(t *testing.T) {
	collector := oteladapters.NewMetricsCollector(nil)

	assert.NotPanics(t, func() {
		collector.RecordDuration("d", time.Second, nil)
		collector.IncrementCounter("c", nil)
		collector.RecordValue("v", 1, nil)
	})
}

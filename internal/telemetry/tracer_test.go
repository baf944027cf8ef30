package telemetry

import (
	"testing"

	"github.com/heartcraft/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracer(t *testing.T) {

	t.Run("Success - Without exporter", func(t *testing.T) {
		shutdown, err := InitTracer(t.Context(), &config.OtelConfig{ServiceName: "storefront-test", SamplerRatio: 1})

		require.NoError(t, err)
		_, span := otel.Tracer("test").Start(t.Context(), "op")
		assert.True(t, span.SpanContext().IsSampled())
		span.End()
		assert.NoError(t, shutdown(t.Context()))
	})

	t.Run("Success - Zero ratio drops root spans", func(t *testing.T) {
		shutdown, err := InitTracer(t.Context(), &config.OtelConfig{ServiceName: "storefront-test", SamplerRatio: 0})

		require.NoError(t, err)
		_, span := otel.Tracer("test").Start(t.Context(), "op")
		assert.False(t, span.SpanContext().IsSampled())
		span.End()
		assert.NoError(t, shutdown(t.Context()))
	})

	t.Run("Success - With exporter endpoint", func(t *testing.T) {
		shutdown, err := InitTracer(t.Context(), &config.OtelConfig{
			ServiceName:      "storefront-test",
			ExporterEndpoint: "localhost:4318",
			SamplerRatio:     0.5,
		})

		require.NoError(t, err)
		require.NotNil(t, shutdown)
	})
}

package events

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaPublisher_WriterConfig(t *testing.T) {
	// Act
	p := NewKafkaPublisher([]string{"kafka-1:9092"}, "storefront.orders")

	// Assert
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "storefront.orders", w.Topic)
	assert.Equal(t, 1, w.BatchSize)
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	assert.LessOrEqual(t, w.WriteTimeout, 2*time.Second)
	assert.LessOrEqual(t, w.MaxAttempts, 2)
	assert.NoError(t, p.Close())
}

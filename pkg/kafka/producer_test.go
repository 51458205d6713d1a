package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func headerValue(msg kafka.Message, key string) string {
	return NewHeaderCarrier(&msg.Headers).Get(key)
}

func TestNewEvent_Fields(t *testing.T) {
	event, err := NewEvent("cart.changed", "sess-1", "session", "storefront", map[string]int{"count": 2})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "cart.changed", event.EventType)
	assert.Equal(t, "sess-1", event.AggregateID)
	assert.Equal(t, "session", event.AggregateType)
	assert.Equal(t, "storefront", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)
	assert.JSONEq(t, `{"count":2}`, string(event.Data))
}

func TestNewEvent_NilDataIsEmptyObject(t *testing.T) {
	event, err := NewEvent("cart.changed", "sess-1", "session", "storefront", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(event.Data))
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent("cart.changed", "sess-1", "session", "storefront", make(chan int))
	require.Error(t, err)
}

func TestEvent_RoundTrip(t *testing.T) {
	original, err := NewEvent("cart.changed", "sess-1", "session", "storefront", nil)
	require.NoError(t, err)
	original.WithCorrelationID("corr-1")

	data, err := original.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalEvent(data)
	require.NoError(t, err)
	assert.Equal(t, original.EventID, restored.EventID)
	assert.Equal(t, "corr-1", restored.CorrelationID)
	assert.JSONEq(t, `{}`, string(restored.Data))
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "ecommerce.storefront.cart_changed", Topic("storefront", "cart_changed"))
}

func TestProducer_PublishWritesEnvelope(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil, discardLogger())

	event, err := NewEvent("cart.changed", "sess-1", "session", "storefront", nil)
	require.NoError(t, err)
	event.WithCorrelationID("corr-9")

	require.NoError(t, p.Publish(context.Background(), "ecommerce.storefront.cart_changed", event))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "ecommerce.storefront.cart_changed", msg.Topic)
	assert.Equal(t, []byte("sess-1"), msg.Key)
	assert.Equal(t, "cart.changed", headerValue(msg, "event_type"))
	assert.Equal(t, "storefront", headerValue(msg, "source"))
	assert.Equal(t, "corr-9", headerValue(msg, "correlation_id"))

	decoded, err := UnmarshalEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
}

func TestProducer_PublishPropagatesTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(prev)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil, discardLogger())
	event, err := NewEvent("cart.changed", "sess-1", "session", "storefront", nil)
	require.NoError(t, err)

	require.NoError(t, p.Publish(ctx, "t", event))
	assert.Contains(t, headerValue(w.messages[0], "traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(w, nil, discardLogger())
	event, err := NewEvent("cart.changed", "sess-1", "session", "storefront", nil)
	require.NoError(t, err)

	err = p.Publish(context.Background(), "t", event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil, nil)
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestHeaderCarrier_SetOverwrites(t *testing.T) {
	headers := []kafka.Header{{Key: "a", Value: []byte("1")}}
	c := NewHeaderCarrier(&headers)

	c.Set("a", "2")
	c.Set("b", "3")

	assert.Equal(t, "2", c.Get("a"))
	assert.Equal(t, "3", c.Get("b"))
	assert.Equal(t, "", c.Get("missing"))
	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"localhost:9092"})
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, 1, cfg.BatchSize)
	assert.False(t, cfg.Async)
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers configured")
}

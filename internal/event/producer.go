package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Reagan-marera/imoflames-sub000/internal/bus"
	pkgkafka "github.com/Reagan-marera/imoflames-sub000/pkg/kafka"
	"github.com/Reagan-marera/imoflames-sub000/pkg/logger"
)

// TopicCartChanged receives cart_changed signals.
var TopicCartChanged = pkgkafka.Topic("storefront", string(bus.CartChanged))

// Aggregate type constant.
const AggregateTypeSession = "session"

// SourceStorefront identifies events originating from the storefront.
const SourceStorefront = "storefront"

const publishTimeout = 5 * time.Second

// Publisher is the part of pkg/kafka.Producer the bridge needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer forwards session bus signals to Kafka so other services can react
// to cart changes.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartChanged publishes a cart_changed event for the session.
func (p *Producer) PublishCartChanged(ctx context.Context, sessionID string) error {
	event, err := pkgkafka.NewEvent(string(bus.CartChanged), sessionID, AggregateTypeSession, SourceStorefront, nil)
	if err != nil {
		return fmt.Errorf("create cart_changed event: %w", err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, TopicCartChanged, event); err != nil {
		return fmt.Errorf("publish cart_changed event: %w", err)
	}
	return nil
}

// Attach subscribes the producer to the cart_changed signal of b. Publishing
// outlives the request that caused the signal but is bounded by a timeout.
// Failures are logged; the cart mutation has already succeeded.
func (p *Producer) Attach(b *bus.Bus, sessionID string) (unsubscribe func()) {
	return b.Subscribe(bus.CartChanged, func(ctx context.Context, _ bus.Signal) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		if err := p.PublishCartChanged(ctx, sessionID); err != nil {
			p.logger.WarnContext(ctx, "failed to forward cart_changed",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	})
}

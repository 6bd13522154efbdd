package orders

import (
	"context"
	"time"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
)

// Sink is satisfied by *kafka.Producer.
type Sink interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

// Emitter wraps order events in an Envelope. A nil Emitter or Sink drops
// events, which is how the api runs without a broker.
type Emitter struct {
	Sink     Sink
	Producer string
}

func (e *Emitter) OrderCreated(ctx context.Context, o Order) {
	e.emit(ctx, TopicOrderCreated, EventOrderCreated, o.ID, OrderCreatedPayload{
		OrderID:     o.ID,
		ProductName: o.ProductName,
		Quantity:    o.Quantity,
		Total:       o.Total,
		Phone:       o.Phone,
	})
}

func (e *Emitter) StatusChanged(ctx context.Context, orderID string, s Status, by string) {
	e.emit(ctx, TopicOrderStatusChanged, EventOrderStatusChanged, orderID, OrderStatusChangedPayload{
		OrderID: orderID,
		Status:  s,
		By:      by,
	})
}

func (e *Emitter) emit(ctx context.Context, topic, eventType, orderID string, payload any) {
	if e == nil || e.Sink == nil {
		return
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      e.Producer,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: orderID,
	}
	var err error
	if env.Payload, err = kafkax.Marshal(payload); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("event", eventType).Msg("encode payload")
		return
	}
	value, err := kafkax.Marshal(env)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("event", eventType).Msg("encode envelope")
		return
	}
	e.Sink.Publish(topic, PartitionKey(orderID), value,
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// Package feed keeps a short, capped list of recent order activity for the
// admin dashboard. It is filled by the notifier from Kafka order events.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/money"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
)

type Entry struct {
	At      time.Time `json:"at"`
	OrderID string    `json:"order_id"`
	Text    string    `json:"text"`
}

type Feed struct {
	Redis   *redis.Client
	Service string
}

// Handle is a kafka.Handler for the order topics. Unknown event types are
// acknowledged and ignored.
func (f *Feed) Handle(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.Decode[orders.Envelope](m.Value)
	if err != nil {
		// pesan rusak tidak akan pernah sukses; commit saja
		log.Warn().Err(err).Str("topic", m.Topic).Msg("drop undecodable event")
		return nil
	}

	text, ok, err := describe(env)
	if err != nil || !ok {
		return err
	}

	key := fmt.Sprintf(redisx.KeyDedup, f.Service, env.EventID)
	claimed, err := redisx.Claim(ctx, f.Redis, key, redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}
	if err := f.push(ctx, Entry{At: env.OccurredAt, OrderID: env.CorrelationID, Text: text}); err != nil {
		// lepas klaim supaya redelivery tidak dianggap duplikat
		if derr := f.Redis.Del(ctx, key).Err(); derr != nil {
			log.Error().Err(derr).Str("event_id", env.EventID).Msg("release dedup key")
		}
		return err
	}
	return nil
}

func describe(env orders.Envelope) (string, bool, error) {
	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.Decode[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return "", false, nil
		}
		return fmt.Sprintf("Pesanan baru: %s x%d (%s)", p.ProductName, p.Quantity, money.Rupiah(p.Total)), true, nil
	case orders.EventOrderStatusChanged:
		p, err := kafkax.Decode[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return "", false, nil
		}
		by := p.By
		if by == "" {
			by = "admin"
		}
		return fmt.Sprintf("Status pesanan %s -> %s oleh %s", shortID(p.OrderID), p.Status, by), true, nil
	default:
		return "", false, nil
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (f *Feed) push(ctx context.Context, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = f.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, redisx.KeyOrderFeed, b)
		p.LTrim(ctx, redisx.KeyOrderFeed, 0, redisx.FeedMaxLen-1)
		return nil
	})
	return err
}

// Recent returns up to n entries, newest first.
func (f *Feed) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 || n > redisx.FeedMaxLen {
		n = redisx.FeedMaxLen
	}
	raw, err := f.Redis.LRange(ctx, redisx.KeyOrderFeed, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(raw))
	for _, s := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

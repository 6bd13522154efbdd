package orders

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	calls  []LineItem
	failOn map[string]bool // product name -> fail
}

func (f *fakeCreator) Create(_ context.Context, li LineItem) (Order, error) {
	f.calls = append(f.calls, li)
	if f.failOn[li.ProductName] {
		return Order{}, apperr.Mutation(Collection, "insert", errors.New("insert rejected"))
	}
	return Order{
		ID:          "order-" + li.ProductID,
		ProductName: li.ProductName,
		Quantity:    li.Quantity,
		Total:       li.Total(),
		Phone:       li.Phone,
		Address:     li.Address,
		Status:      StatusPending,
	}, nil
}

type recordingSink struct {
	mu     sync.Mutex
	topics []string
	values [][]byte
}

func (s *recordingSink) Publish(topic string, _, value []byte, _ ...kafkago.Header) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = append(s.topics, topic)
	s.values = append(s.values, value)
}

func seededStore(t *testing.T, sid string, items ...catalog.Product) *cart.Store {
	t.Helper()
	s := cart.NewStore(cart.NewMemoryBackend())
	for _, p := range items {
		_, err := s.Add(context.Background(), sid, p)
		require.NoError(t, err)
	}
	return s
}

func p(id, name string, price int64) catalog.Product {
	return catalog.Product{ID: id, Name: name, Price: decimal.NewFromInt(price)}
}

func validReq(token string) CheckoutRequest {
	return CheckoutRequest{Phone: "08123456789", Address: "Jl. Merdeka 1", Token: token}
}

func TestCheckoutOneOrderPerItem(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t, "sid", p("a", "Kopi", 10000), p("a", "Kopi", 10000), p("b", "Teh", 5000))
	creator := &fakeCreator{}
	sink := &recordingSink{}
	co := &Checkout{Carts: store, Orders: creator, Guard: &MemoryGuard{}, Events: &Emitter{Sink: sink, Producer: "test"}}

	res, err := co.Submit(ctx, "sid", validReq("tok-1"))
	require.NoError(t, err)

	require.Len(t, creator.calls, 2)
	assert.True(t, creator.calls[0].Total().Equal(decimal.NewFromInt(20000)))
	assert.True(t, creator.calls[1].Total().Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 2, creator.calls[0].Quantity)
	assert.Equal(t, "Jl. Merdeka 1", creator.calls[1].Address)

	require.Len(t, res.Created, 2)
	assert.Empty(t, res.Failed)
	assert.Empty(t, store.Get(ctx, "sid"), "cart cleared after success")

	require.Len(t, sink.topics, 2)
	assert.Equal(t, TopicOrderCreated, sink.topics[0])
	var env Envelope
	require.NoError(t, json.Unmarshal(sink.values[0], &env))
	assert.Equal(t, EventOrderCreated, env.EventType)
	assert.Equal(t, "order-a", env.CorrelationID)
}

func TestCheckoutEmptyCartMakesNoCalls(t *testing.T) {
	creator := &fakeCreator{}
	co := &Checkout{Carts: cart.NewStore(cart.NewMemoryBackend()), Orders: creator, Guard: &MemoryGuard{}}

	_, err := co.Submit(context.Background(), "sid", validReq("tok"))
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, creator.calls)
}

func TestCheckoutRequiresContactFields(t *testing.T) {
	store := seededStore(t, "sid", p("a", "Kopi", 10000))
	creator := &fakeCreator{}
	co := &Checkout{Carts: store, Orders: creator}

	_, err := co.Submit(context.Background(), "sid", CheckoutRequest{Phone: "  ", Address: "x"})
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "phone", ve.Field)

	_, err = co.Submit(context.Background(), "sid", CheckoutRequest{Phone: "08", Address: ""})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "address", ve.Field)

	assert.Empty(t, creator.calls)
	assert.Len(t, store.Get(context.Background(), "sid"), 1)
}

func TestCheckoutPartialFailureKeepsFailedItems(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t, "sid", p("a", "Kopi", 10000), p("b", "Teh", 5000), p("c", "Gula", 3000))
	creator := &fakeCreator{failOn: map[string]bool{"Teh": true}}
	co := &Checkout{Carts: store, Orders: creator, Guard: &MemoryGuard{}}

	res, err := co.Submit(ctx, "sid", validReq("tok"))
	var pe *PartialCheckoutError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "checkout: 1 of 3 items failed", pe.Error())

	var me *apperr.RemoteMutationError
	assert.True(t, errors.As(err, &me), "underlying mutation error is reachable")

	assert.Len(t, creator.calls, 3, "every item is attempted")
	assert.Len(t, res.Created, 2)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "b", res.Failed[0].Item.ID)

	left := store.Get(ctx, "sid")
	require.Len(t, left, 1)
	assert.Equal(t, "b", left[0].ID)
}

func TestCheckoutRejectsReplayedToken(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t, "sid", p("a", "Kopi", 10000))
	creator := &fakeCreator{}
	co := &Checkout{Carts: store, Orders: creator, Guard: &MemoryGuard{}}

	_, err := co.Submit(ctx, "sid", validReq("same"))
	require.NoError(t, err)

	_, err = store.Add(ctx, "sid", p("a", "Kopi", 10000))
	require.NoError(t, err)
	_, err = co.Submit(ctx, "sid", validReq("same"))
	assert.ErrorIs(t, err, apperr.ErrDuplicateSubmission)
	assert.Len(t, creator.calls, 1)
}

func TestRedisGuard(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redisx.New(mr.Addr())
	defer rdb.Close()
	g := &RedisGuard{Redis: rdb}
	ctx := context.Background()

	require.NoError(t, g.Acquire(ctx, "t1"))
	assert.ErrorIs(t, g.Acquire(ctx, "t1"), apperr.ErrDuplicateSubmission)
	require.NoError(t, g.Acquire(ctx, "t2"))
	assert.True(t, apperr.IsValidation(g.Acquire(ctx, "")))
}

func TestParseStatus(t *testing.T) {
	for _, in := range []string{"pending", "done", "batal", " DONE "} {
		s, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.True(t, s.Valid())
	}
	_, err := ParseStatus("shipped")
	assert.True(t, apperr.IsValidation(err))
}

func TestNilEmitterIsNoop(t *testing.T) {
	var e *Emitter
	assert.NotPanics(t, func() {
		e.OrderCreated(context.Background(), Order{ID: "x"})
		(&Emitter{}).StatusChanged(context.Background(), "x", StatusDone, "admin")
	})
}

func TestStatusChangedEvent(t *testing.T) {
	sink := &recordingSink{}
	e := &Emitter{Sink: sink, Producer: "storefront"}
	e.StatusChanged(context.Background(), "o1", StatusBatal, "admin")

	require.Len(t, sink.values, 1)
	assert.Equal(t, TopicOrderStatusChanged, sink.topics[0])
	var env Envelope
	require.NoError(t, json.Unmarshal(sink.values[0], &env))
	var pl OrderStatusChangedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &pl))
	assert.Equal(t, StatusBatal, pl.Status)
	assert.Equal(t, "admin", pl.By)
	assert.Equal(t, "storefront", env.Producer)
}

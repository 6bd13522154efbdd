package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/rs/zerolog/log"
)

type CartStore interface {
	Get(ctx context.Context, sid string) cart.Cart
	Clear(ctx context.Context, sid string) error
	RemoveIDs(ctx context.Context, sid string, ids ...string) error
}

type Creator interface {
	Create(ctx context.Context, li LineItem) (Order, error)
}

// Guard rejects a checkout token that was already used.
type Guard interface {
	Acquire(ctx context.Context, token string) error
}

type CheckoutRequest struct {
	Phone   string
	Address string
	Token   string // one-time token rendered into the checkout form
}

type LineFailure struct {
	Item cart.Item
	Err  error
}

type Result struct {
	Created []Order
	Failed  []LineFailure
}

// PartialCheckoutError reports that some line items were not persisted.
// Orders in Result.Created stay committed.
type PartialCheckoutError struct {
	Result Result
}

func (e *PartialCheckoutError) Error() string {
	total := len(e.Result.Created) + len(e.Result.Failed)
	return fmt.Sprintf("checkout: %d of %d items failed", len(e.Result.Failed), total)
}

func (e *PartialCheckoutError) Unwrap() []error {
	errs := make([]error, 0, len(e.Result.Failed))
	for _, f := range e.Result.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// Checkout turns one session cart into order rows, one per cart item.
type Checkout struct {
	Carts  CartStore
	Orders Creator
	Guard  Guard
	Events *Emitter
}

// Submit attempts every line item even after a failure. On full success the
// cart is cleared; on partial failure only the committed items leave the
// cart so the rest can be retried.
func (c *Checkout) Submit(ctx context.Context, sid string, req CheckoutRequest) (Result, error) {
	items := c.Carts.Get(ctx, sid)
	if len(items) == 0 {
		return Result{}, apperr.Invalid("", "keranjang kosong")
	}
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)
	if req.Phone == "" {
		return Result{}, apperr.Invalid("phone", "wajib diisi")
	}
	if req.Address == "" {
		return Result{}, apperr.Invalid("address", "wajib diisi")
	}
	if c.Guard != nil {
		if err := c.Guard.Acquire(ctx, req.Token); err != nil {
			return Result{}, err
		}
	}

	logger := log.Ctx(ctx).With().Str("sid", sid).Int("items", len(items)).Logger()
	var res Result
	var committed []string
	for _, it := range items {
		o, err := c.Orders.Create(ctx, LineItem{
			ProductID:   it.ID,
			ProductName: it.Name,
			UnitPrice:   it.Price,
			Quantity:    it.Qty,
			Phone:       req.Phone,
			Address:     req.Address,
		})
		if err != nil {
			logger.Error().Err(err).Str("product_id", it.ID).Msg("order insert failed")
			res.Failed = append(res.Failed, LineFailure{Item: it, Err: err})
			continue
		}
		res.Created = append(res.Created, o)
		committed = append(committed, it.ID)
		c.Events.OrderCreated(ctx, o)
	}

	if len(res.Failed) == 0 {
		if err := c.Carts.Clear(ctx, sid); err != nil {
			logger.Warn().Err(err).Msg("cart clear failed after checkout")
		}
		logger.Info().Int("orders", len(res.Created)).Msg("checkout complete")
		return res, nil
	}

	if err := c.Carts.RemoveIDs(ctx, sid, committed...); err != nil {
		logger.Warn().Err(err).Msg("cart trim failed after partial checkout")
	}
	logger.Warn().Int("created", len(res.Created)).Int("failed", len(res.Failed)).Msg("checkout partially failed")
	return res, &PartialCheckoutError{Result: res}
}

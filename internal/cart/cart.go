// Package cart owns the shopping cart of one browser session. The cart is
// an ordered list of items, persisted as a single JSON value through a
// Backend so the storage medium can be swapped without touching callers.
package cart

import (
	"encoding/json"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Item is a copy of a product's display fields plus a quantity.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
	Qty         int             `json:"qty"`
}

func (it Item) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Qty)))
}

// Cart keeps insertion order. At most one Item per product ID.
type Cart []Item

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Add increments the quantity of an existing entry or appends a new one.
func (c Cart) Add(p catalog.Product) (Cart, Item) {
	for i := range c {
		if c[i].ID == p.ID {
			c[i].Qty++
			return c, c[i]
		}
	}
	it := Item{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		Qty:         1,
	}
	return append(c, it), it
}

// Remove drops the item at index. Out of range is a no-op; ok reports
// whether anything changed.
func (c Cart) Remove(index int) (Cart, bool) {
	if index < 0 || index >= len(c) {
		return c, false
	}
	out := make(Cart, 0, len(c)-1)
	out = append(out, c[:index]...)
	out = append(out, c[index+1:]...)
	return out, true
}

// Without drops every item whose product ID is listed.
func (c Cart) Without(ids ...string) Cart {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make(Cart, 0, len(c))
	for _, it := range c {
		if _, ok := drop[it.ID]; !ok {
			out = append(out, it)
		}
	}
	return out
}

func Marshal(c Cart) ([]byte, error) {
	if c == nil {
		c = Cart{}
	}
	return json.Marshal(c)
}

// Unmarshal never fails the caller: empty or malformed input, or entries
// that cannot be valid cart items, yield what can be salvaged.
func Unmarshal(b []byte) (Cart, error) {
	if len(b) == 0 {
		return Cart{}, nil
	}
	var c Cart
	if err := json.Unmarshal(b, &c); err != nil {
		return Cart{}, err
	}
	out := make(Cart, 0, len(c))
	for _, it := range c {
		if it.ID == "" || it.Qty <= 0 {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

const Collection = "orders"

// Order is one persisted line item. ProductName is denormalized, not a key.
type Order struct {
	ID          string          `json:"id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	Status      Status          `json:"status"` // lihat status.go
	CreatedAt   time.Time       `json:"created_at"`
}

// LineItem is what checkout submits for a single cart entry.
type LineItem struct {
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Phone       string
	Address     string
}

func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

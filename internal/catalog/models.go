package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

const Collection = "products"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductInput is what the admin form submits for create and update.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Image       string          `json:"image" validate:"required,url,max=2048"`
	Description string          `json:"description" validate:"max=4000"`
}

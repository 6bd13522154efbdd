package render

import (
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/feed"
	"github.com/ariefcatur/go-storefront/internal/orders"
)

type FlashKind string

const (
	FlashInfo  FlashKind = "info"
	FlashError FlashKind = "error"
)

// Flash is the one-shot notification shown at the top of a page.
type Flash struct {
	Kind FlashKind
	Text string
}

func Info(text string) *Flash  { return &Flash{Kind: FlashInfo, Text: text} }
func Error(text string) *Flash { return &Flash{Kind: FlashError, Text: text} }

// Page is embedded by every view.
type Page struct {
	Title     string
	Flash     *Flash
	AdminUser string
}

type ProductsView struct {
	Page
	Products   []catalog.Product
	LoadFailed bool
}

type CartView struct {
	Page
	Items   cart.Cart
	Token   string
	Phone   string
	Address string
}

type HistoryView struct {
	Page
	Orders     []orders.Order
	LoadFailed bool
}

type LoginView struct {
	Page
	Username string
}

// ProductForm echoes the add-product form after a validation error.
type ProductForm struct {
	Name        string
	Price       string
	Image       string
	Description string
}

type DashboardView struct {
	Page
	Products       []catalog.Product
	ProductsFailed bool
	Orders         []orders.Order
	OrdersFailed   bool
	Feed           []feed.Entry
	Form           ProductForm
}

type EditView struct {
	Page
	ID   string
	Form ProductForm
}

package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ProductReader interface {
	List(ctx context.Context) ([]catalog.Product, error)
	Get(ctx context.Context, id string) (catalog.Product, error)
}

type OrderLister interface {
	ListAll(ctx context.Context) ([]orders.Order, error)
}

type CartStore interface {
	Get(ctx context.Context, sid string) cart.Cart
	Add(ctx context.Context, sid string, p catalog.Product) (cart.Item, error)
	Remove(ctx context.Context, sid string, index int) error
}

type Checkouter interface {
	Submit(ctx context.Context, sid string, req orders.CheckoutRequest) (orders.Result, error)
}

type StorefrontHandler struct {
	Products ProductReader
	Orders   OrderLister
	Carts    CartStore
	Checkout Checkouter
	Views    *render.Renderer
	Cookies  Cookies
}

func (h *StorefrontHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.Cookies.Session)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/products", http.StatusFound)
		})
		r.Get("/products", h.listProducts)
		r.Get("/cart", h.showCart)
		r.Post("/cart/items", h.addToCart)
		r.Post("/cart/items/{index}/delete", h.removeItem)
		r.Post("/checkout", h.checkout)
		r.Get("/history", h.history)
	})
}

func (h *StorefrontHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	view := render.ProductsView{Page: render.Page{Title: "Produk", Flash: h.Cookies.PopFlash(w, r)}}
	ps, err := h.Products.List(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("load products")
		view.LoadFailed = true
	}
	view.Products = ps
	h.Views.HTML(w, r, http.StatusOK, render.PageProducts, view)
}

func (h *StorefrontHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PostFormValue("product_id")

	// harga diambil dari katalog, bukan dari form (hindari trust dari client)
	p, err := h.Products.Get(ctx, id)
	if err != nil {
		if !apperr.IsNotFound(err) {
			log.Ctx(ctx).Error().Err(err).Str("product_id", id).Msg("load product for cart")
		}
		h.Cookies.redirect(w, r, "/products", render.Error("Produk tidak ditemukan"))
		return
	}
	it, err := h.Carts.Add(ctx, SessionID(ctx), p)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("save cart")
		h.Cookies.redirect(w, r, "/products", render.Error("Gagal menyimpan keranjang"))
		return
	}
	h.Cookies.redirect(w, r, "/products", render.Info(it.Name+" ditambahkan ke keranjang"))
}

func (h *StorefrontHandler) showCart(w http.ResponseWriter, r *http.Request) {
	h.renderCart(w, r, http.StatusOK, h.Cookies.PopFlash(w, r), "", "")
}

func (h *StorefrontHandler) renderCart(w http.ResponseWriter, r *http.Request, status int, f *render.Flash, phone, address string) {
	h.Views.HTML(w, r, status, render.PageCart, render.CartView{
		Page:    render.Page{Title: "Keranjang", Flash: f},
		Items:   h.Carts.Get(r.Context(), SessionID(r.Context())),
		Token:   uuid.NewString(),
		Phone:   phone,
		Address: address,
	})
}

func (h *StorefrontHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	if err := h.Carts.Remove(ctx, SessionID(ctx), idx); err != nil {
		log.Ctx(ctx).Error().Err(err).Int("index", idx).Msg("remove cart item")
		h.Cookies.redirect(w, r, "/cart", render.Error("Gagal menghapus item"))
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *StorefrontHandler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := orders.CheckoutRequest{
		Phone:   r.PostFormValue("phone"),
		Address: r.PostFormValue("address"),
		Token:   r.PostFormValue("token"),
	}

	_, err := h.Checkout.Submit(ctx, SessionID(ctx), req)
	var ve *apperr.ValidationError
	var pe *orders.PartialCheckoutError
	switch {
	case err == nil:
		h.Cookies.redirect(w, r, "/history", render.Info("Pesanan berhasil dibuat!"))
	case errors.Is(err, apperr.ErrDuplicateSubmission):
		h.Cookies.redirect(w, r, "/history", render.Info("Pesanan ini sudah diproses"))
	case errors.As(err, &pe):
		// dicek sebelum ValidationError: error per item ikut ter-unwrap
		msg := fmt.Sprintf("%d dari %d item gagal dipesan dan masih ada di keranjang. Silakan coba lagi.",
			len(pe.Result.Failed), len(pe.Result.Failed)+len(pe.Result.Created))
		h.renderCart(w, r, http.StatusBadGateway, render.Error(msg), req.Phone, req.Address)
	case errors.As(err, &ve):
		h.renderCart(w, r, http.StatusUnprocessableEntity, render.Error(checkoutMessage(ve)), req.Phone, req.Address)
	default:
		log.Ctx(ctx).Error().Err(err).Msg("checkout")
		h.renderCart(w, r, http.StatusInternalServerError, render.Error("Checkout gagal, silakan coba lagi"), req.Phone, req.Address)
	}
}

func checkoutMessage(ve *apperr.ValidationError) string {
	switch ve.Field {
	case "":
		return "Keranjang kosong"
	case "phone":
		return "No. HP wajib diisi"
	case "address":
		return "Alamat wajib diisi"
	default:
		return ve.Message
	}
}

func (h *StorefrontHandler) history(w http.ResponseWriter, r *http.Request) {
	view := render.HistoryView{Page: render.Page{Title: "Riwayat", Flash: h.Cookies.PopFlash(w, r)}}
	list, err := h.Orders.ListAll(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("load order history")
		view.LoadFailed = true
	}
	view.Orders = list
	h.Views.HTML(w, r, http.StatusOK, render.PageHistory, view)
}

package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/admin"
	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/feed"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type ProductCatalog interface {
	ProductReader
	Create(ctx context.Context, in catalog.ProductInput) (catalog.Product, error)
	Update(ctx context.Context, id string, in catalog.ProductInput) error
	Delete(ctx context.Context, id string) error
}

type OrderAdmin interface {
	OrderLister
	UpdateStatus(ctx context.Context, id string, s orders.Status) error
}

type LoginService interface {
	Login(ctx context.Context, ip, username, password string) (admin.Session, error)
}

type AdminSessions interface {
	Get(ctx context.Context, token string) (admin.Session, error)
	Destroy(ctx context.Context, token string) error
}

type FeedReader interface {
	Recent(ctx context.Context, n int) ([]feed.Entry, error)
}

type AdminHandler struct {
	Auth     LoginService
	Sessions AdminSessions
	Products ProductCatalog
	Orders   OrderAdmin
	Feed     FeedReader // optional
	Events   *orders.Emitter
	Views    *render.Renderer
	Cookies  Cookies
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", h.loginForm)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Get("/", h.dashboard)
			r.Post("/products", h.createProduct)
			r.Get("/products/{id}/edit", h.editForm)
			r.Post("/products/{id}", h.updateProduct)
			r.Post("/products/{id}/delete", h.deleteProduct)
			r.Post("/orders/{id}/status", h.updateStatus)
		})
	})
}

// RequireAdmin lets the request through only with a live admin session.
func (h *AdminHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if ck, err := r.Cookie(cookieAdmin); err == nil {
			token = ck.Value
		}
		s, err := h.Sessions.Get(r.Context(), token)
		if err != nil {
			if !errors.Is(err, admin.ErrNoSession) {
				log.Ctx(r.Context()).Error().Err(err).Msg("admin session lookup")
			}
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxAdmin, s.Username)))
	})
}

func AdminUser(ctx context.Context) string {
	u, _ := ctx.Value(ctxAdmin).(string)
	return u
}

func (h *AdminHandler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.Views.HTML(w, r, http.StatusOK, render.PageLogin, render.LoginView{
		Page: render.Page{Title: "Login Admin", Flash: h.Cookies.PopFlash(w, r)},
	})
}

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := strings.TrimSpace(r.PostFormValue("username"))
	s, err := h.Auth.Login(ctx, clientIP(r), username, r.PostFormValue("password"))
	if err != nil {
		status := http.StatusUnauthorized
		var msg string
		var ve *apperr.ValidationError
		switch {
		case errors.Is(err, admin.ErrTooManyAttempts):
			status = http.StatusTooManyRequests
			msg = err.Error()
		case errors.Is(err, admin.ErrBadCredentials):
			msg = "Username / password admin salah"
		case errors.As(err, &ve):
			status = http.StatusUnprocessableEntity
			msg = "Username dan password wajib diisi"
		default:
			log.Ctx(ctx).Error().Err(err).Msg("admin login")
			status = http.StatusInternalServerError
			msg = "Login gagal, coba lagi"
		}
		h.Views.HTML(w, r, status, render.PageLogin, render.LoginView{
			Page:     render.Page{Title: "Login Admin", Flash: render.Error(msg)},
			Username: username,
		})
		return
	}
	h.Cookies.set(w, cookieAdmin, s.Token, 0)
	h.Cookies.redirect(w, r, "/admin", render.Info("Login admin sukses"))
}

func (h *AdminHandler) logout(w http.ResponseWriter, r *http.Request) {
	if ck, err := r.Cookie(cookieAdmin); err == nil {
		if err := h.Sessions.Destroy(r.Context(), ck.Value); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("destroy admin session")
		}
	}
	h.Cookies.clear(w, cookieAdmin)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, http.StatusOK, h.Cookies.PopFlash(w, r), render.ProductForm{})
}

func (h *AdminHandler) renderDashboard(w http.ResponseWriter, r *http.Request, status int, f *render.Flash, form render.ProductForm) {
	ctx := r.Context()
	view := render.DashboardView{
		Page: render.Page{Title: "Dashboard", Flash: f, AdminUser: AdminUser(ctx)},
		Form: form,
	}
	var err error
	if view.Products, err = h.Products.List(ctx); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("loadProducts")
		view.ProductsFailed = true
	}
	if view.Orders, err = h.Orders.ListAll(ctx); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("loadOrders")
		view.OrdersFailed = true
	}
	if h.Feed != nil {
		if view.Feed, err = h.Feed.Recent(ctx, 10); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("load order feed")
		}
	}
	h.Views.HTML(w, r, status, render.PageDashboard, view)
}

func productForm(r *http.Request) render.ProductForm {
	return render.ProductForm{
		Name:        r.PostFormValue("name"),
		Price:       strings.TrimSpace(r.PostFormValue("price")),
		Image:       r.PostFormValue("image"),
		Description: r.PostFormValue("description"),
	}
}

// parseInput converts the raw form into a ProductInput; an unparsable price
// is reported the same way as a missing one.
func parseInput(f render.ProductForm) (catalog.ProductInput, error) {
	in := catalog.ProductInput{Name: f.Name, Image: f.Image, Description: f.Description}
	if f.Price != "" {
		p, err := decimal.NewFromString(strings.ReplaceAll(f.Price, ",", "."))
		if err != nil {
			return in, apperr.Invalid("price", "harus berupa angka")
		}
		in.Price = p
	}
	in.Normalize()
	return in, in.Validate()
}

func mutationMessage(prefix string, err error) string {
	var me *apperr.RemoteMutationError
	if errors.As(err, &me) {
		return prefix + ": " + me.Message()
	}
	return prefix
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := productForm(r)
	in, err := parseInput(form)
	if err == nil {
		_, err = h.Products.Create(ctx, in)
	}
	if apperr.IsValidation(err) {
		h.renderDashboard(w, r, http.StatusUnprocessableEntity, render.Error("Nama, harga, gambar wajib diisi ("+err.Error()+")"), form)
		return
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("create product")
		h.Cookies.redirect(w, r, "/admin", render.Error(mutationMessage("Gagal menambah produk", err)))
		return
	}
	h.Cookies.redirect(w, r, "/admin", render.Info("Produk berhasil ditambahkan"))
}

func (h *AdminHandler) editForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	p, err := h.Products.Get(ctx, id)
	if err != nil {
		if !apperr.IsNotFound(err) {
			log.Ctx(ctx).Error().Err(err).Str("id", id).Msg("load product")
		}
		h.Cookies.redirect(w, r, "/admin", render.Error("Produk tidak ditemukan"))
		return
	}
	h.Views.HTML(w, r, http.StatusOK, render.PageEdit, render.EditView{
		Page: render.Page{Title: "Edit Produk", Flash: h.Cookies.PopFlash(w, r), AdminUser: AdminUser(ctx)},
		ID:   p.ID,
		Form: render.ProductForm{
			Name:        p.Name,
			Price:       p.Price.String(),
			Image:       p.Image,
			Description: p.Description,
		},
	})
}

func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	form := productForm(r)
	in, err := parseInput(form)
	if err == nil {
		err = h.Products.Update(ctx, id, in)
	}
	switch {
	case err == nil:
		h.Cookies.redirect(w, r, "/admin", render.Info("Produk berhasil diupdate"))
	case apperr.IsValidation(err):
		h.Views.HTML(w, r, http.StatusUnprocessableEntity, render.PageEdit, render.EditView{
			Page: render.Page{Title: "Edit Produk", Flash: render.Error("Tidak lengkap: " + err.Error()), AdminUser: AdminUser(ctx)},
			ID:   id,
			Form: form,
		})
	case apperr.IsNotFound(err):
		h.Cookies.redirect(w, r, "/admin", render.Error("Produk tidak ditemukan"))
	default:
		log.Ctx(ctx).Error().Err(err).Str("id", id).Msg("update product")
		h.Cookies.redirect(w, r, "/admin", render.Error(mutationMessage("Gagal update produk", err)))
	}
}

func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	err := h.Products.Delete(ctx, id)
	switch {
	case err == nil:
		h.Cookies.redirect(w, r, "/admin", render.Info("Produk dihapus"))
	case apperr.IsNotFound(err):
		h.Cookies.redirect(w, r, "/admin", render.Error("Produk tidak ditemukan"))
	default:
		log.Ctx(ctx).Error().Err(err).Str("id", id).Msg("delete product")
		h.Cookies.redirect(w, r, "/admin", render.Error(mutationMessage("Gagal menghapus", err)))
	}
}

func (h *AdminHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	s, err := orders.ParseStatus(r.PostFormValue("status"))
	if err == nil {
		err = h.Orders.UpdateStatus(ctx, id, s)
	}
	switch {
	case err == nil:
		h.Events.StatusChanged(ctx, id, s, AdminUser(ctx))
		h.Cookies.redirect(w, r, "/admin", render.Info("Status berhasil diubah: "+string(s)))
	case apperr.IsValidation(err):
		h.Cookies.redirect(w, r, "/admin", render.Error("Status tidak valid"))
	case apperr.IsNotFound(err):
		h.Cookies.redirect(w, r, "/admin", render.Error("Pesanan tidak ditemukan"))
	default:
		log.Ctx(ctx).Error().Err(err).Str("id", id).Msg("update order status")
		h.Cookies.redirect(w, r, "/admin", render.Error(mutationMessage("Gagal update status", err)))
	}
}

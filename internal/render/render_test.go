package render

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xss = `<script>alert(1)</script>`

func renderPage(t *testing.T, page string, data any) string {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	r.HTML(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, page, data)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Body.String()
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", Escape(xss))
	assert.Equal(t, "a &amp; b &quot;c&quot; &#39;d&#39;", Escape(`a & b "c" 'd'`))
	assert.Equal(t, "", Escape(""))
}

func TestProductsEscapesUserText(t *testing.T) {
	body := renderPage(t, PageProducts, ProductsView{
		Page: Page{Title: "Produk", Flash: Info(xss + " ditambahkan ke keranjang")},
		Products: []catalog.Product{
			{ID: "p1", Name: xss, Description: xss, Price: decimal.NewFromInt(10000), Image: "https://img.example/a.jpg"},
		},
	})
	assert.NotContains(t, body, xss)
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, body, `id="products-list"`)
	assert.Contains(t, body, "Rp 10.000")
	assert.Contains(t, body, `value="p1"`)
}

func TestProductsLoadFailedPlaceholder(t *testing.T) {
	body := renderPage(t, PageProducts, ProductsView{Page: Page{Title: "Produk"}, LoadFailed: true})
	assert.Contains(t, body, "Gagal memuat produk")
}

func TestCartTotals(t *testing.T) {
	body := renderPage(t, PageCart, CartView{
		Page: Page{Title: "Keranjang"},
		Items: cart.Cart{
			{ID: "a", Name: "Kopi", Price: decimal.NewFromInt(10000), Qty: 2},
			{ID: "b", Name: "Teh", Price: decimal.NewFromInt(5000), Qty: 1},
		},
		Token: "tok-123",
	})
	assert.Contains(t, body, `<th id="cart-total">Rp 25.000</th>`)
	assert.Contains(t, body, "Rp 20.000")
	assert.Contains(t, body, `action="/cart/items/1/delete"`)
	assert.Contains(t, body, `value="tok-123"`)
}

func TestRenderIsIdempotent(t *testing.T) {
	view := HistoryView{
		Page:   Page{Title: "Riwayat"},
		Orders: []orders.Order{{ID: "o1", ProductName: "Kopi", Quantity: 1, Total: decimal.NewFromInt(1), Status: orders.StatusPending}},
	}
	first := renderPage(t, PageHistory, view)
	second := renderPage(t, PageHistory, view)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(first, "<td>Kopi</td>"))
	assert.Contains(t, first, "<td>-</td>", "zero created_at renders as dash")
}

func TestHistoryLoadFailedPlaceholder(t *testing.T) {
	body := renderPage(t, PageHistory, HistoryView{LoadFailed: true})
	assert.Contains(t, body, `<td colspan="5">Gagal memuat riwayat</td>`)
}

var statusCell = regexp.MustCompile(`<td id="status-([^"]+)">([^<]*)</td>`)

func statusCells(body string) map[string]string {
	out := map[string]string{}
	for _, m := range statusCell.FindAllStringSubmatch(body, -1) {
		out[m[1]] = m[2]
	}
	return out
}

func TestDashboardStatusCells(t *testing.T) {
	list := []orders.Order{
		{ID: "o1", ProductName: "Kopi", Quantity: 1, Total: decimal.NewFromInt(1000), Status: orders.StatusPending},
		{ID: "o2", ProductName: "", Quantity: 2, Total: decimal.NewFromInt(2000), Status: orders.StatusPending},
	}
	before := renderPage(t, PageDashboard, DashboardView{Page: Page{Title: "Dashboard", AdminUser: "admin"}, Orders: list})
	list[0].Status = orders.StatusDone
	after := renderPage(t, PageDashboard, DashboardView{Page: Page{Title: "Dashboard", AdminUser: "admin"}, Orders: list})

	assert.Equal(t, map[string]string{"o1": "pending", "o2": "pending"}, statusCells(before))
	assert.Equal(t, map[string]string{"o1": "done", "o2": "pending"}, statusCells(after))
	assert.Contains(t, after, `id="admin-logout"`)
	assert.Contains(t, after, "<td>-</td>", "missing product name shows dash")
}

func TestDashboardPlaceholders(t *testing.T) {
	body := renderPage(t, PageDashboard, DashboardView{ProductsFailed: true, OrdersFailed: true})
	assert.Contains(t, body, "Gagal memuat produk")
	assert.Contains(t, body, "Gagal memuat pesanan")
}

func TestUnknownPageFallsBack(t *testing.T) {
	r := MustNew()
	rec := httptest.NewRecorder()
	r.HTML(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "<nope>", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "&lt;nope&gt;")
}

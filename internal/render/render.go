// Package render turns typed views into HTML pages. Every page is rendered
// from scratch into a buffer and written only when execution succeeds, so a
// re-render never duplicates rows and a failed one never leaves half a page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/money"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var files embed.FS

const (
	PageProducts  = "products"
	PageCart      = "cart"
	PageHistory   = "history"
	PageLogin     = "admin_login"
	PageDashboard = "admin_dashboard"
	PageEdit      = "admin_edit"
)

var pages = []string{PageProducts, PageCart, PageHistory, PageLogin, PageDashboard, PageEdit}

var funcs = template.FuncMap{
	"rupiah":   money.Rupiah,
	"datetime": datetime,
	"orDash":   orDash,
}

func datetime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02 Jan 2006 15:04")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type Renderer struct {
	set map[string]*template.Template
}

func New() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &Renderer{set: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(files, "templates/"+p+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		r.set[p] = t
	}
	return r, nil
}

func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// HTML renders page with data and the given status code.
func (r *Renderer) HTML(w http.ResponseWriter, req *http.Request, status int, page string, data any) {
	t, ok := r.set[page]
	if !ok {
		writeFallback(w, http.StatusInternalServerError, "halaman tidak dikenal: "+page)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Ctx(req.Context()).Error().Err(err).Str("page", page).Msg("template exec")
		writeFallback(w, http.StatusInternalServerError, "gagal menampilkan halaman")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

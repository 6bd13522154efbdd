package httpx

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/go-storefront/internal/render"
	"github.com/google/uuid"
)

const (
	cookieSession = "sid"
	cookieAdmin   = "admin_session"
	cookieFlash   = "flash"
)

type ctxKey int

const (
	ctxSID ctxKey = iota
	ctxAdmin
)

// Cookies holds the cookie policy shared by the storefront and admin panel.
type Cookies struct {
	Secure bool
}

func (c Cookies) set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session assigns every browser a stable sid cookie; the cart is keyed by it.
func (c Cookies) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if ck, err := r.Cookie(cookieSession); err == nil {
			if _, err := uuid.Parse(ck.Value); err == nil {
				sid = ck.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			c.set(w, cookieSession, sid, 30*24*time.Hour)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSID, sid)))
	})
}

func SessionID(ctx context.Context) string {
	s, _ := ctx.Value(ctxSID).(string)
	return s
}

// Flash survives exactly one redirect.
func (c Cookies) SetFlash(w http.ResponseWriter, f *render.Flash) {
	if f == nil {
		return
	}
	v := base64.RawURLEncoding.EncodeToString([]byte(string(f.Kind) + "|" + f.Text))
	c.set(w, cookieFlash, v, time.Minute)
}

func (c Cookies) PopFlash(w http.ResponseWriter, r *http.Request) *render.Flash {
	ck, err := r.Cookie(cookieFlash)
	if err != nil {
		return nil
	}
	c.clear(w, cookieFlash)
	b, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	kind, text, ok := strings.Cut(string(b), "|")
	if !ok {
		return nil
	}
	if render.FlashKind(kind) != render.FlashError {
		kind = string(render.FlashInfo)
	}
	return &render.Flash{Kind: render.FlashKind(kind), Text: text}
}

func (c Cookies) redirect(w http.ResponseWriter, r *http.Request, to string, f *render.Flash) {
	c.SetFlash(w, f)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

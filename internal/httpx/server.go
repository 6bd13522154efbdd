package httpx

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter builds the base router. Forwarding headers are honored only when
// the direct peer is one of trustedProxies.
func NewRouter(logger zerolog.Logger, trustedProxies ...string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, RealIP(trustedProxies), RequestLogger(logger), middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// RequestLogger attaches a per-request logger to the context and logs one
// line per request once the handler returns.
func RequestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base.With().Str("req_id", middleware.GetReqID(r.Context())).Logger()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(l.WithContext(r.Context())))

			ev := l.Info()
			if ww.Status() >= http.StatusInternalServerError {
				ev = l.Error()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("took", time.Since(start)).
				Msg("http")
		})
	}
}

// RealIP rewrites r.RemoteAddr from X-Forwarded-For / X-Real-IP, but only for
// requests arriving from a trusted proxy. The client is the rightmost
// X-Forwarded-For hop that is not itself a trusted proxy.
func RealIP(trusted []string) func(http.Handler) http.Handler {
	set := make(map[string]bool, len(trusted))
	for _, t := range trusted {
		if ip := net.ParseIP(strings.TrimSpace(t)); ip != nil {
			set[ip.String()] = true
		}
	}
	isTrusted := func(s string) bool {
		ip := net.ParseIP(strings.TrimSpace(s))
		return ip != nil && set[ip.String()]
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(set) > 0 && isTrusted(clientIP(r)) {
				if ip := forwardedFor(r, isTrusted); ip != "" {
					r.RemoteAddr = net.JoinHostPort(ip, "0")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forwardedFor(r *http.Request, isTrusted func(string) bool) string {
	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			h := strings.TrimSpace(hops[i])
			if net.ParseIP(h) == nil {
				return ""
			}
			if !isTrusted(h) {
				return h
			}
		}
		return ""
	}
	if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xr) != nil {
		return xr
	}
	return ""
}

// clientIP is the host part of RemoteAddr, after RealIP has run.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

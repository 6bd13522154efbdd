package render

import (
	"fmt"
	"net/http"
	"strings"
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape makes free-form text safe to place inside HTML markup or a quoted
// attribute value.
func Escape(s string) string { return htmlReplacer.Replace(s) }

// writeFallback is used when a template itself fails; it must not depend on
// the template set.
func writeFallback(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "<!doctype html><html><body><h1>Terjadi kesalahan</h1><p>%s</p></body></html>", Escape(msg))
}

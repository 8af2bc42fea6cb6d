package middleware

import "net/http"

// DefaultCSP allows the bundled web client and nothing else.
const DefaultCSP = "default-src 'self'; img-src 'self' data:; frame-ancestors 'none'"

// SecurityHeaders sets the browser hardening headers on every response.
// An empty csp omits Content-Security-Policy.
func SecurityHeaders(csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")
			if csp != "" {
				h.Set("Content-Security-Policy", csp)
			}
			next.ServeHTTP(w, r)
		})
	}
}

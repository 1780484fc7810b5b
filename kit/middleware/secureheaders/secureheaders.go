// Package secureheaders sets a baseline of security response headers.
package secureheaders

import (
	"maps"
	"net/http"
)

// see https://owasp.org/www-project-secure-headers/ci/headers_add.json
//
// Cross-Origin-Embedder-Policy is omitted: project pages embed images from
// other origins that do not send CORP headers.
var defaults = map[string]string{
	"Cross-Origin-Opener-Policy":        "same-origin",
	"Cross-Origin-Resource-Policy":      "same-origin",
	"Permissions-Policy":                "accelerometer=(), autoplay=(), camera=(), display-capture=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=(), interest-cohort=()",
	"Referrer-Policy":                   "strict-origin-when-cross-origin",
	"Strict-Transport-Security":         "max-age=31536000; includeSubDomains",
	"X-Content-Type-Options":            "nosniff",
	"X-Frame-Options":                   "deny",
	"X-Permitted-Cross-Domain-Policies": "none",
}

// Middleware sets the default headers.
func Middleware(next http.Handler) http.Handler {
	return New(nil)(next)
}

// New returns middleware that sets the default headers merged with
// overrides. An empty override value removes that header.
func New(overrides map[string]string) func(http.Handler) http.Handler {
	headers := maps.Clone(defaults)
	for k, v := range overrides {
		if v == "" {
			delete(headers, k)
			continue
		}
		headers[k] = v
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range headers {
				h.Set(k, v)
			}
			h.Del("Server")
			h.Del("X-Powered-By")
			next.ServeHTTP(w, r)
		})
	}
}

// internal/adapters/in/http/storefront/handler/helper_handler.go
package storefrontHandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/middleware"
)

// writeJSON writes v as the JSON response body.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr writes the error envelope: a stable machine-readable code plus a
// human-readable message.
func writeErr(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{
		"error":   code,
		"message": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}

func notFound(w http.ResponseWriter) {
	writeErr(w, http.StatusNotFound, "not_found", "not found")
}

func badRequest(w http.ResponseWriter, msg string) {
	writeErr(w, http.StatusBadRequest, "bad_request", msg)
}

func readJSON(r *http.Request, dst any) error {
	if dst == nil {
		return errors.New("dst is nil")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)) // 1MB
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// readShopperID resolves the shopper identity: verified token uid first, then
// the X-Shopper-Id header / shopperId query (local dev without auth), then the
// request-body fallback.
func readShopperID(r *http.Request, fallback string) string {
	if uid := strings.TrimSpace(middleware.UIDFromContext(r.Context())); uid != "" {
		return uid
	}
	if v := strings.TrimSpace(r.Header.Get("X-Shopper-Id")); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("shopperId")); v != "" {
		return v
	}
	return strings.TrimSpace(fallback)
}

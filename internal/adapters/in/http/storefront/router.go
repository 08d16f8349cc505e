// internal/adapters/in/http/storefront/router.go
package storefront

import (
	"log"
	"net/http"
)

// Deps is the shopper-facing handler set.
type Deps struct {
	// public catalog surface
	Product http.Handler

	// authenticated shopper scope
	Cart http.Handler
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so Cloud Run won't crash).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[storefront.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers shopper-facing routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	// products (public)
	handleSafe(mux, "/storefront/products", deps.Product, "Product")
	handleSafe(mux, "/storefront/products/", deps.Product, "Product")

	// cart
	handleSafe(mux, "/storefront/me/cart", deps.Cart, "Cart(me)")
	handleSafe(mux, "/storefront/me/cart/", deps.Cart, "Cart(me)")
}

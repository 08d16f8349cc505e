// internal/platform/di/register.go
package di

import (
	"log"
	"net/http"

	"storefront/internal/adapters/in/http/middleware"
	storefrontrouter "storefront/internal/adapters/in/http/storefront"
	handler "storefront/internal/adapters/in/http/storefront/handler"
)

// Register builds handlers from the container and registers the shopper
// routes. Cart routes go through the auth chain when Firebase Auth came up;
// a missing client only happens with REQUIRE_AUTH=false (the container
// fails otherwise) and leaves them on the X-Shopper-Id dev path.
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}

	productH := handler.NewProductHandler(cont.ProductQ)
	cartH := handler.NewCartHandler(cont.CartUC, cont.CartQ)

	if cont.FirebaseAuth != nil {
		auth := &middleware.AuthMiddleware{FirebaseAuth: cont.FirebaseAuth}
		cartH = auth.Handler(cartH)
	} else {
		log.Printf("[di] WARN: firebase auth unavailable (REQUIRE_AUTH=false); cart routes accept X-Shopper-Id")
	}

	storefrontrouter.Register(mux, storefrontrouter.Deps{
		Product: productH,
		Cart:    cartH,
	})
}

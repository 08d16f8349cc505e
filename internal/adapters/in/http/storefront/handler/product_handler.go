// internal/adapters/in/http/storefront/handler/product_handler.go
package storefrontHandler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	query "storefront/internal/application/query/storefront"
)

// ProductHandler serves the public product endpoints:
//
//   - GET /storefront/products?tag=<tag>[&limit=N]
//   - GET /storefront/products/{slug}
type ProductHandler struct {
	q *query.ProductDetailQuery
}

func NewProductHandler(q *query.ProductDetailQuery) http.Handler {
	return &ProductHandler{q: q}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")

	log.Printf("[product_handler] enter method=%s path=%q query=%q\n", r.Method, path, r.URL.RawQuery)

	if h.q == nil {
		log.Printf("[product_handler] exit status=500 reason=query nil elapsed=%s\n", time.Since(start))
		writeErr(w, http.StatusInternalServerError, "internal", "product handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	slug := slugFromPath(path)
	if slug == "" {
		h.handleList(w, r, start)
		return
	}
	h.handleDetail(w, r, slug, start)
}

func (h *ProductHandler) handleDetail(w http.ResponseWriter, r *http.Request, slug string, start time.Time) {
	d, err := h.q.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			log.Printf("[product_handler] GET detail exit status=404 slug=%q elapsed=%s\n", slug, time.Since(start))
			notFound(w)
			return
		}
		log.Printf("[product_handler] GET detail exit status=500 slug=%q err=%v elapsed=%s\n", slug, err, time.Since(start))
		writeErr(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	log.Printf("[product_handler] GET detail ok status=200 slug=%q elapsed=%s\n", slug, time.Since(start))
	writeJSON(w, http.StatusOK, d)
}

func (h *ProductHandler) handleList(w http.ResponseWriter, r *http.Request, start time.Time) {
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))
	if tag == "" {
		badRequest(w, "tag is required")
		return
	}
	limit := 0
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	items, err := h.q.ListTagged(r.Context(), tag, limit)
	if err != nil {
		log.Printf("[product_handler] GET list exit status=500 tag=%q err=%v elapsed=%s\n", tag, err, time.Since(start))
		writeErr(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	log.Printf("[product_handler] GET list ok status=200 tag=%q count=%d elapsed=%s\n", tag, len(items), time.Since(start))
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// slugFromPath extracts the trailing slug of /storefront/products/{slug}.
// The collection path itself yields "".
func slugFromPath(path string) string {
	const marker = "/products"
	i := strings.LastIndex(path, marker)
	if i < 0 {
		return ""
	}
	rest := strings.Trim(path[i+len(marker):], "/")
	if rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

// internal/adapters/in/http/storefront/handler/cart_handler.go
package storefrontHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	query "storefront/internal/application/query/storefront"
	usecase "storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	proddom "storefront/internal/domain/product"
)

// CartHandler serves the shopper cart endpoints:
//
//   - GET    /storefront/me/cart        cart read model
//   - DELETE /storefront/me/cart        clear
//   - POST   /storefront/me/cart/items  add item (resolve -> guard -> add)
//   - PUT    /storefront/me/cart/items  set quantity (qty <= 0 removes)
//   - DELETE /storefront/me/cart/items  remove item
type CartHandler struct {
	uc        *usecase.CartUsecase
	cartQuery *query.CartQuery
}

func NewCartHandler(uc *usecase.CartUsecase, cq *query.CartQuery) http.Handler {
	return &CartHandler{uc: uc, cartQuery: cq}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	log.Printf("[cart_handler] enter method=%s path=%q shopperId=%q\n", r.Method, path, readShopperID(r, ""))

	if h.uc == nil || h.cartQuery == nil {
		log.Printf("[cart_handler] exit status=500 reason=handler not configured elapsed=%s\n", time.Since(start))
		writeErr(w, http.StatusInternalServerError, "internal", "cart handler is not configured")
		return
	}

	isItems := strings.HasSuffix(path, "/cart/items")
	isCart := strings.HasSuffix(path, "/cart")

	switch {
	case r.Method == http.MethodGet && isCart:
		h.handleGet(w, r, start)
	case r.Method == http.MethodDelete && isCart:
		h.handleClear(w, r, start)
	case r.Method == http.MethodPost && isItems:
		h.handleAddItem(w, r, start)
	case r.Method == http.MethodPut && isItems:
		h.handleSetItemQty(w, r, start)
	case r.Method == http.MethodDelete && isItems:
		h.handleRemoveItem(w, r, start)
	default:
		log.Printf("[cart_handler] exit status=404 method=%s path=%q elapsed=%s\n", r.Method, path, time.Since(start))
		notFound(w)
	}
}

// -------------------------
// handlers
// -------------------------

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request, start time.Time) {
	sid := readShopperID(r, "")
	if sid == "" {
		badRequest(w, "shopperId is required")
		return
	}

	d, err := h.cartQuery.GetByShopperID(r.Context(), sid)
	if err != nil {
		log.Printf("[cart_handler] GET cart exit status=500 shopperId=%q err=%v elapsed=%s\n", sid, err, time.Since(start))
		writeErr(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	log.Printf("[cart_handler] GET cart ok status=200 shopperId=%q lines=%d elapsed=%s\n", sid, len(d.Lines), time.Since(start))
	writeJSON(w, http.StatusOK, d)
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request, start time.Time) {
	var req cartItemReq
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	sid := readShopperID(r, req.ShopperID)
	pid := strings.TrimSpace(req.ProductID)
	if sid == "" || pid == "" {
		badRequest(w, "shopperId and productId are required")
		return
	}

	log.Printf("[cart_handler] POST add-item shopperId=%q productId=%q attrs=%v qty=%d\n", sid, pid, req.Attributes, req.Qty)

	if _, err := h.uc.AddItem(r.Context(), sid, pid, req.Attributes, req.Qty); err != nil {
		log.Printf("[cart_handler] POST add-item uc error shopperId=%q err=%v elapsed=%s\n", sid, err, time.Since(start))
		h.writeUsecaseErr(w, err)
		return
	}
	h.respondCart(w, r, sid, start)
}

func (h *CartHandler) handleSetItemQty(w http.ResponseWriter, r *http.Request, start time.Time) {
	var req cartItemReq
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	sid := readShopperID(r, req.ShopperID)
	ident := strings.TrimSpace(req.Identity)
	if sid == "" || ident == "" {
		badRequest(w, "shopperId and identity are required")
		return
	}

	log.Printf("[cart_handler] PUT set-qty shopperId=%q identity=%q qty=%d\n", sid, ident, req.Qty)

	if _, err := h.uc.SetItemQty(r.Context(), sid, cartdom.LineIdentity(ident), req.Qty); err != nil {
		log.Printf("[cart_handler] PUT set-qty uc error shopperId=%q err=%v elapsed=%s\n", sid, err, time.Since(start))
		h.writeUsecaseErr(w, err)
		return
	}
	h.respondCart(w, r, sid, start)
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request, start time.Time) {
	var req cartItemReq
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	sid := readShopperID(r, req.ShopperID)
	ident := strings.TrimSpace(req.Identity)
	if sid == "" || ident == "" {
		badRequest(w, "shopperId and identity are required")
		return
	}

	log.Printf("[cart_handler] DELETE remove-item shopperId=%q identity=%q\n", sid, ident)

	if _, err := h.uc.RemoveItem(r.Context(), sid, cartdom.LineIdentity(ident)); err != nil {
		log.Printf("[cart_handler] DELETE remove-item uc error shopperId=%q err=%v elapsed=%s\n", sid, err, time.Since(start))
		h.writeUsecaseErr(w, err)
		return
	}
	h.respondCart(w, r, sid, start)
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request, start time.Time) {
	sid := readShopperID(r, "")
	if sid == "" {
		badRequest(w, "shopperId is required")
		return
	}

	log.Printf("[cart_handler] DELETE clear shopperId=%q\n", sid)

	if err := h.uc.Clear(r.Context(), sid); err != nil {
		log.Printf("[cart_handler] DELETE clear uc error shopperId=%q err=%v elapsed=%s\n", sid, err, time.Since(start))
		h.writeUsecaseErr(w, err)
		return
	}
	h.respondCart(w, r, sid, start)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, sid string, start time.Time) {
	d, err := h.cartQuery.GetByShopperID(r.Context(), sid)
	if err != nil {
		log.Printf("[cart_handler] respondCart exit status=500 shopperId=%q err=%v elapsed=%s\n", sid, err, time.Since(start))
		writeErr(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	log.Printf("[cart_handler] ok status=200 shopperId=%q lines=%d elapsed=%s\n", sid, len(d.Lines), time.Since(start))
	writeJSON(w, http.StatusOK, d)
}

// writeUsecaseErr maps usecase outcomes to the error envelope:
//
//	422 selection_incomplete / variant_not_found (unresolvable selection)
//	409 out_of_stock / stock_exceeded            (guard refusals)
//	400 invalid_quantity / bad_request
//	404 not_found                                 (product or cart missing)
func (h *CartHandler) writeUsecaseErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrSelectionIncomplete):
		writeErr(w, http.StatusUnprocessableEntity, "selection_incomplete", "selection does not cover every attribute")
	case errors.Is(err, usecase.ErrVariantNotFound):
		writeErr(w, http.StatusUnprocessableEntity, "variant_not_found", "no variant matches the selection")
	case errors.Is(err, usecase.ErrOutOfStock):
		writeErr(w, http.StatusConflict, "out_of_stock", "the selected variant is out of stock")
	case errors.Is(err, usecase.ErrStockExceeded):
		writeErr(w, http.StatusConflict, "stock_exceeded", "requested quantity exceeds available stock")
	case errors.Is(err, usecase.ErrInvalidQuantity):
		writeErr(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
	case errors.Is(err, proddom.ErrNotFound), errors.Is(err, usecase.ErrCartNotFound):
		notFound(w)
	case errors.Is(err, usecase.ErrCartInvalidArgument), errors.Is(err, cartdom.ErrInvalidCart):
		badRequest(w, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

// -------------------------
// request DTO
// -------------------------

type cartItemReq struct {
	ShopperID  string            `json:"shopperId"`
	ProductID  string            `json:"productId"`
	Attributes map[string]string `json:"attributes"`
	Identity   string            `json:"identity"`
	Qty        int               `json:"qty"`
}

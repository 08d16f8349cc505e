// internal/application/query/storefront/cart_query.go
package storefront

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"storefront/internal/application/query/storefront/dto"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/pricing"
	proddom "storefront/internal/domain/product"
)

// CartQuery assembles the cart screen read model: raw cart lines joined with
// catalog display data (product names, variant options, remaining stock).
type CartQuery struct {
	CartRepo    cartdom.Repository
	ProductRepo proddom.Repository
	Formatter   pricing.Formatter
}

func NewCartQuery(carts cartdom.Repository, products proddom.Repository, f pricing.Formatter) *CartQuery {
	if f == nil {
		f = pricing.DefaultFormatter
	}
	return &CartQuery{CartRepo: carts, ProductRepo: products, Formatter: f}
}

// GetByShopperID returns the cart view. A missing cart doc yields an empty
// DTO, not an error: the cart screen renders the same either way.
func (q *CartQuery) GetByShopperID(ctx context.Context, shopperID string) (dto.CartDTO, error) {
	if q == nil || q.CartRepo == nil {
		return dto.CartDTO{}, errors.New("cart_query: cart repository is nil")
	}
	sid := strings.TrimSpace(shopperID)
	if sid == "" {
		return dto.CartDTO{}, errors.New("cart_query: shopperId is required")
	}

	c, err := q.CartRepo.GetByShopperID(ctx, sid)
	if err != nil {
		return dto.CartDTO{}, err
	}
	if c == nil {
		return dto.CartDTO{ShopperID: sid, Lines: []dto.CartLineDTO{}, Total: q.Formatter.Format(0)}, nil
	}

	out := dto.CartDTO{
		ShopperID:   sid,
		Lines:       make([]dto.CartLineDTO, 0, len(c.Lines)),
		TotalAmount: c.Total(),
		Total:       q.Formatter.Format(c.Total()),
		CreatedAt:   timeText(c.CreatedAt),
		UpdatedAt:   timeText(c.UpdatedAt),
		ExpiresAt:   timeText(c.ExpiresAt),
	}

	for _, l := range c.Lines {
		sub := int64(l.Qty) * l.UnitPrice
		line := dto.CartLineDTO{
			Identity:       string(l.Identity),
			ProductID:      l.ProductID,
			VariantID:      l.VariantID,
			Qty:            l.Qty,
			UnitPriceMinor: l.UnitPrice,
			UnitPrice:      q.Formatter.Format(l.UnitPrice),
			SubtotalMinor:  sub,
			Subtotal:       q.Formatter.Format(sub),
		}
		q.attachCatalogData(ctx, c, &line)
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}

// attachCatalogData fills display fields from the catalog (best-effort: a
// product that left the catalog still renders from the snapshot fields).
func (q *CartQuery) attachCatalogData(ctx context.Context, c *cartdom.Cart, line *dto.CartLineDTO) {
	if q.ProductRepo == nil {
		return
	}
	p, err := q.ProductRepo.GetByID(ctx, line.ProductID)
	if err != nil {
		if !errors.Is(err, proddom.ErrNotFound) {
			log.Printf("[cart_query] WARN: load product %s: %v", line.ProductID, err)
		}
		return
	}
	line.ProductName = p.Name

	var variant *proddom.VariantOption
	if line.VariantID != "" {
		if v, ok := p.FindVariantByID(line.VariantID); ok {
			variant = v
			opts := make(map[string]string, len(v.Options))
			for _, pair := range v.Options {
				opts[pair.Axis] = pair.Value
			}
			line.Options = opts
		}
	}

	stock := 0
	if variant != nil || line.VariantID == "" {
		stock = cartdom.AvailableStock(p, variant)
	}
	line.Remaining = cartdom.RemainingFor(c, cartdom.LineIdentity(line.Identity), stock)
}

func timeText(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

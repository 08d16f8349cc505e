// internal/application/query/storefront/product_detail_query.go
package storefront

import (
	"context"
	"errors"
	"log"
	"strings"

	"storefront/internal/application/query/storefront/dto"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/pricing"
	proddom "storefront/internal/domain/product"
)

var ErrNotFound = errors.New("storefront query: not found")

// ============================================================
// Ports (minimal contracts for this query)
// ============================================================

// ImageResolver turns a stored gallery object reference into a servable URL.
type ImageResolver interface {
	ResolveURL(ctx context.Context, object string) (string, error)
}

// ============================================================
// Query
// ============================================================

// ProductDetailQuery assembles the product page read model.
type ProductDetailQuery struct {
	ProductRepo proddom.Repository

	// optional: gallery object -> URL (nil leaves references as-is)
	Images ImageResolver

	Formatter pricing.Formatter
}

type ProductDetailQueryOption func(*ProductDetailQuery)

func WithImageResolver(res ImageResolver) ProductDetailQueryOption {
	return func(q *ProductDetailQuery) { q.Images = res }
}

func WithFormatter(f pricing.Formatter) ProductDetailQueryOption {
	return func(q *ProductDetailQuery) { q.Formatter = f }
}

func NewProductDetailQuery(repo proddom.Repository, opts ...ProductDetailQueryOption) *ProductDetailQuery {
	q := &ProductDetailQuery{
		ProductRepo: repo,
		Formatter:   pricing.DefaultFormatter,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// GetBySlug builds the detail DTO for one product page.
func (q *ProductDetailQuery) GetBySlug(ctx context.Context, slug string) (dto.ProductDetailDTO, error) {
	if q == nil || q.ProductRepo == nil {
		return dto.ProductDetailDTO{}, errors.New("product_detail_query: product repository is nil")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return dto.ProductDetailDTO{}, ErrNotFound
	}

	p, err := q.ProductRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, proddom.ErrNotFound) {
			return dto.ProductDetailDTO{}, ErrNotFound
		}
		return dto.ProductDetailDTO{}, err
	}

	return q.toDetailDTO(ctx, p), nil
}

// ListTagged builds detail DTOs for a tag rail (e.g. "featured"). Order
// follows the repository.
func (q *ProductDetailQuery) ListTagged(ctx context.Context, tag string, limit int) ([]dto.ProductDetailDTO, error) {
	if q == nil || q.ProductRepo == nil {
		return nil, errors.New("product_detail_query: product repository is nil")
	}
	products, err := q.ProductRepo.ListTagged(ctx, strings.TrimSpace(tag), limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductDetailDTO, 0, len(products))
	for _, p := range products {
		out = append(out, q.toDetailDTO(ctx, p))
	}
	return out, nil
}

// ============================================================
// Mapping
// ============================================================

func (q *ProductDetailQuery) toDetailDTO(ctx context.Context, p proddom.Product) dto.ProductDetailDTO {
	out := dto.ProductDetailDTO{
		ID:      p.ID,
		Slug:    p.Slug,
		Name:    p.Name,
		Unit:    p.Unit,
		Tags:    append([]string(nil), p.Tags...),
		Gallery: q.resolveGallery(ctx, p),
	}

	ix := proddom.BuildIndex(p)
	if ix.Empty() {
		// simple product: single price block, product-level stock
		quote := pricing.ComputeFor(p, nil, q.Formatter)
		out.Price = &quote
		out.InStock = p.Stock > 0
		return out
	}

	for _, axis := range ix.Axes() {
		out.Axes = append(out.Axes, dto.AxisDTO{Name: axis, Values: ix.Values(axis)})
	}

	anyAvailable := false
	for _, v := range p.VariantOptions {
		stock := cartdom.AvailableStock(p, &v)
		available := stock > 0
		anyAvailable = anyAvailable || available

		opts := make(map[string]string, len(v.Options))
		for _, pair := range v.Options {
			opts[pair.Axis] = pair.Value
		}
		out.Variants = append(out.Variants, dto.VariantDTO{
			ID:        v.ID,
			Options:   opts,
			Price:     pricing.ComputeFor(p, &v, q.Formatter),
			Stock:     stock,
			Available: available,
		})
	}
	out.InStock = anyAvailable

	// unresolved variable product shows the range; fall back to the base
	// price when the catalog record carries no range fields
	if p.MinPrice != nil && p.MaxPrice != nil {
		r := pricing.ComputeRange(*p.MinPrice, *p.MaxPrice, q.Formatter)
		out.PriceRange = &r
	} else {
		quote := pricing.ComputeFor(p, nil, q.Formatter)
		out.Price = &quote
	}
	return out
}

func (q *ProductDetailQuery) resolveGallery(ctx context.Context, p proddom.Product) []string {
	if len(p.Gallery) == 0 {
		return nil
	}
	out := make([]string, 0, len(p.Gallery))
	for _, obj := range p.Gallery {
		if q.Images == nil {
			out = append(out, obj)
			continue
		}
		url, err := q.Images.ResolveURL(ctx, obj)
		if err != nil {
			// best-effort: an unresolvable image never fails the page
			log.Printf("[product_detail_query] WARN: resolve image %q: %v", obj, err)
			continue
		}
		out = append(out, url)
	}
	return out
}

// internal/domain/product/repository_port.go
package product

import "context"

// Repository is a read-only persistence port for catalog products.
//
// Storage (Firestore):
// - collection: products
// - docId: product id
// - slug is stored as a field and queried with Where("slug", "==", ...)
//
// Not-found policy: return ErrNotFound (mapped from the store's own
// not-found signal at the adapter boundary).
type Repository interface {
	// GetByID returns a fully validated product snapshot.
	GetByID(ctx context.Context, id string) (Product, error)

	// GetBySlug returns a fully validated product snapshot by its slug.
	GetBySlug(ctx context.Context, slug string) (Product, error)

	// ListTagged returns products carrying the tag, for related-product rows.
	ListTagged(ctx context.Context, tag string, limit int) ([]Product, error)
}

// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is a persistence port for Cart.
//
// Storage recommendation (Firestore):
// - collection: carts
// - docId: shopperId
// - fields: lines, createdAt, updatedAt, expiresAt
//
// TTL:
// - Configure Firestore TTL on "expiresAt".
// - expiresAt is refreshed on each cart mutation (handled by domain touch()).
type Repository interface {
	// GetByShopperID returns the cart for the shopper.
	// Not-found policy: return (nil, nil); callers treat nil as empty cart.
	GetByShopperID(ctx context.Context, shopperID string) (*Cart, error)

	// Upsert saves the cart (create or update).
	Upsert(ctx context.Context, c *Cart) error

	// DeleteByShopperID deletes the cart for the shopper.
	DeleteByShopperID(ctx context.Context, shopperID string) error
}

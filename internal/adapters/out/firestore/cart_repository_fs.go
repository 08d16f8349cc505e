// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "storefront/internal/domain/cart"
)

// CartRepositoryFS implements cart.Repository using Firestore.
//
// Collection design:
// - collection: carts
// - docId: shopperId (docId is the source of truth)
// - fields: lines, createdAt, updatedAt, expiresAt
//
// TTL:
// - Configure Firestore TTL on "expiresAt".
type CartRepositoryFS struct {
	Client *firestore.Client

	// Col overrides the collection name (default "carts").
	Col string
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client, Col: "carts"}
}

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	name := strings.TrimSpace(r.Col)
	if name == "" {
		name = "carts"
	}
	return r.Client.Collection(name)
}

// cartDoc is the persisted shape. Kept separate from the domain entity so
// schema evolution stays an adapter concern.
type cartDoc struct {
	Lines     []cartLineDoc `firestore:"lines"`
	CreatedAt time.Time     `firestore:"createdAt"`
	UpdatedAt time.Time     `firestore:"updatedAt"`
	ExpiresAt time.Time     `firestore:"expiresAt"`
}

type cartLineDoc struct {
	Identity  string `firestore:"identity"`
	ProductID string `firestore:"productId"`
	VariantID string `firestore:"variantId,omitempty"`
	Qty       int    `firestore:"qty"`
	UnitPrice int64  `firestore:"unitPrice"`
}

// GetByShopperID returns (nil, nil) if not found (nil policy: callers treat
// nil as an empty cart).
func (r *CartRepositoryFS) GetByShopperID(ctx context.Context, shopperID string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	sid := strings.TrimSpace(shopperID)
	if sid == "" {
		return nil, errors.New("cart_repository_fs: shopperID is empty")
	}

	snap, err := r.col().Doc(sid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc cartDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}

	lines := make([]cartdom.Line, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		lines = append(lines, cartdom.Line{
			Identity:  cartdom.LineIdentity(l.Identity),
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
		})
	}

	// Rebuild through the domain constructor so decoded docs satisfy the
	// same invariants as fresh carts (merge duplicates, drop junk lines).
	created := doc.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	c, cerr := cartdom.NewCart(sid, lines, created)
	if cerr != nil {
		return nil, cerr
	}
	if !doc.UpdatedAt.IsZero() {
		c.UpdatedAt = doc.UpdatedAt
	}
	if !doc.ExpiresAt.IsZero() {
		c.ExpiresAt = doc.ExpiresAt
	}
	return c, nil
}

// Upsert saves the cart by docId = cart.ID (= shopperId). Overwrites the
// full doc (simple and predictable).
func (r *CartRepositoryFS) Upsert(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	if c == nil {
		return errors.New("cart_repository_fs: cart is nil")
	}
	sid := strings.TrimSpace(c.ID)
	if sid == "" {
		return errors.New("cart_repository_fs: Upsert requires cart.ID (= shopperId) as docId")
	}

	doc := cartDoc{
		Lines:     make([]cartLineDoc, 0, len(c.Lines)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		ExpiresAt: c.ExpiresAt,
	}
	for _, l := range c.Lines {
		doc.Lines = append(doc.Lines, cartLineDoc{
			Identity:  string(l.Identity),
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
		})
	}

	_, err := r.col().Doc(sid).Set(ctx, doc)
	return err
}

func (r *CartRepositoryFS) DeleteByShopperID(ctx context.Context, shopperID string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	sid := strings.TrimSpace(shopperID)
	if sid == "" {
		return errors.New("cart_repository_fs: shopperID is empty")
	}

	_, err := r.col().Doc(sid).Delete(ctx)
	return err
}

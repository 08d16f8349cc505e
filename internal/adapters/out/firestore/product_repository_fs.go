// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	proddom "storefront/internal/domain/product"
)

// ProductRepositoryFS implements product.Repository using Firestore.
//
// Collection design:
// - collection: products
// - docId: product id
// - slug / tags are plain fields queried with Where(...)
type ProductRepositoryFS struct {
	Client *firestore.Client

	// Col overrides the collection name (default "products").
	Col string
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client, Col: "products"}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	name := strings.TrimSpace(r.Col)
	if name == "" {
		name = "products"
	}
	return r.Client.Collection(name)
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (proddom.Product, error) {
	if r == nil || r.Client == nil {
		return proddom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return proddom.Product{}, proddom.ErrNotFound
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return proddom.Product{}, proddom.ErrNotFound
		}
		return proddom.Product{}, err
	}
	return productFromSnapshot(pid, snap)
}

func (r *ProductRepositoryFS) GetBySlug(ctx context.Context, slug string) (proddom.Product, error) {
	if r == nil || r.Client == nil {
		return proddom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}
	s := strings.TrimSpace(slug)
	if s == "" {
		return proddom.Product{}, proddom.ErrNotFound
	}

	it := r.col().Where("slug", "==", s).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if err == iterator.Done {
		return proddom.Product{}, proddom.ErrNotFound
	}
	if err != nil {
		return proddom.Product{}, err
	}
	return productFromSnapshot(snap.Ref.ID, snap)
}

func (r *ProductRepositoryFS) ListTagged(ctx context.Context, tag string, limit int) ([]proddom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	it := r.col().Where("tags", "array-contains", tag).Limit(limit).Documents(ctx)
	defer it.Stop()

	var out []proddom.Product
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		p, perr := productFromSnapshot(snap.Ref.ID, snap)
		if perr != nil {
			// skip malformed docs; one broken record must not kill the row
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// productFromSnapshot decodes and validates one product doc.
// Validation at this boundary is what keeps malformed shapes away from the
// domain core.
func productFromSnapshot(docID string, snap *firestore.DocumentSnapshot) (proddom.Product, error) {
	if snap == nil || !snap.Exists() {
		return proddom.Product{}, proddom.ErrNotFound
	}

	var raw proddom.Product
	if err := snap.DataTo(&raw); err != nil {
		return proddom.Product{}, fmt.Errorf("product_repository_fs: decode %s: %w", docID, err)
	}
	// docId is the source of truth for the id field
	raw.ID = docID

	p, err := proddom.New(raw)
	if err != nil {
		return proddom.Product{}, fmt.Errorf("product_repository_fs: invalid doc %s: %w", docID, err)
	}
	return p, nil
}

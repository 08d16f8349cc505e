// internal/adapters/out/firestore/cart_repository_pg.go
package firestore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	cartdom "storefront/internal/domain/cart"
)

// CartRepositoryPG implements cart.Repository using PostgreSQL.
//
// Tables:
//
//	carts(shopper_id PK, created_at, updated_at, expires_at)
//	cart_lines(shopper_id FK, identity, product_id, variant_id, qty, unit_price)
//
// Expired rows are swept by a scheduled job on expires_at (the Firestore
// adapter leans on native TTL instead).
type CartRepositoryPG struct {
	DB *sql.DB
}

func NewCartRepositoryPG(db *sql.DB) *CartRepositoryPG {
	return &CartRepositoryPG{DB: db}
}

// GetByShopperID returns (nil, nil) if not found (nil policy: callers treat
// nil as an empty cart).
func (r *CartRepositoryPG) GetByShopperID(ctx context.Context, shopperID string) (*cartdom.Cart, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("cart_repository_pg: db is nil")
	}
	sid := strings.TrimSpace(shopperID)
	if sid == "" {
		return nil, errors.New("cart_repository_pg: shopperID is empty")
	}

	const qCart = `
SELECT created_at, updated_at, expires_at
FROM carts
WHERE shopper_id = $1
`
	var created, updated, expires time.Time
	err := r.DB.QueryRowContext(ctx, qCart, sid).Scan(&created, &updated, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	const qLines = `
SELECT identity, product_id, variant_id, qty, unit_price
FROM cart_lines
WHERE shopper_id = $1
ORDER BY identity
`
	rows, err := r.DB.QueryContext(ctx, qLines, sid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []cartdom.Line
	for rows.Next() {
		var (
			l       cartdom.Line
			ident   string
			variant sql.NullString
		)
		if err := rows.Scan(&ident, &l.ProductID, &variant, &l.Qty, &l.UnitPrice); err != nil {
			return nil, err
		}
		l.Identity = cartdom.LineIdentity(ident)
		if variant.Valid {
			l.VariantID = variant.String
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rebuild through the domain constructor so stored rows satisfy the same
	// invariants as fresh carts.
	c, cerr := cartdom.NewCart(sid, lines, created)
	if cerr != nil {
		return nil, cerr
	}
	if !updated.IsZero() {
		c.UpdatedAt = updated
	}
	if !expires.IsZero() {
		c.ExpiresAt = expires
	}
	return c, nil
}

// Upsert replaces the stored cart wholesale inside one transaction.
func (r *CartRepositoryPG) Upsert(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.DB == nil {
		return errors.New("cart_repository_pg: db is nil")
	}
	if c == nil {
		return errors.New("cart_repository_pg: cart is nil")
	}
	sid := strings.TrimSpace(c.ID)
	if sid == "" {
		return errors.New("cart_repository_pg: Upsert requires cart.ID (= shopperId)")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const qCart = `
INSERT INTO carts (shopper_id, created_at, updated_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (shopper_id) DO UPDATE
SET updated_at = EXCLUDED.updated_at,
    expires_at = EXCLUDED.expires_at
`
	if _, err := tx.ExecContext(ctx, qCart, sid, c.CreatedAt, c.UpdatedAt, c.ExpiresAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE shopper_id = $1`, sid); err != nil {
		return err
	}

	const qLine = `
INSERT INTO cart_lines (shopper_id, identity, product_id, variant_id, qty, unit_price)
VALUES ($1, $2, $3, $4, $5, $6)
`
	for _, l := range c.Lines {
		var variant any
		if l.VariantID != "" {
			variant = l.VariantID
		}
		if _, err := tx.ExecContext(ctx, qLine, sid, string(l.Identity), l.ProductID, variant, l.Qty, l.UnitPrice); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *CartRepositoryPG) DeleteByShopperID(ctx context.Context, shopperID string) error {
	if r == nil || r.DB == nil {
		return errors.New("cart_repository_pg: db is nil")
	}
	sid := strings.TrimSpace(shopperID)
	if sid == "" {
		return errors.New("cart_repository_pg: shopperID is empty")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE shopper_id = $1`, sid); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE shopper_id = $1`, sid); err != nil {
		return err
	}
	return tx.Commit()
}

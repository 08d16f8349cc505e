// internal/adapters/out/firestore/product_repository_pg.go
package firestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	proddom "storefront/internal/domain/product"
)

// ProductRepositoryPG implements product.Repository using PostgreSQL.
//
// Tables:
//
//	products(id, slug, name, unit, price, sale_price, min_price, max_price, stock, tags, gallery)
//	product_variations(product_id, position, name, option_values)
//	product_variants(id, product_id, price, sale_price, stock, disabled)
//	product_variant_options(variant_id, axis, option_value)
//
// Prices are stored as integer minor units (öre).
type ProductRepositoryPG struct {
	DB *sql.DB
}

func NewProductRepositoryPG(db *sql.DB) *ProductRepositoryPG {
	return &ProductRepositoryPG{DB: db}
}

func (r *ProductRepositoryPG) GetByID(ctx context.Context, id string) (proddom.Product, error) {
	const q = `
SELECT id, slug, name, unit, price, sale_price, min_price, max_price, stock, tags, gallery
FROM products
WHERE id = $1
`
	return r.getOne(ctx, q, strings.TrimSpace(id))
}

func (r *ProductRepositoryPG) GetBySlug(ctx context.Context, slug string) (proddom.Product, error) {
	const q = `
SELECT id, slug, name, unit, price, sale_price, min_price, max_price, stock, tags, gallery
FROM products
WHERE slug = $1
`
	return r.getOne(ctx, q, strings.TrimSpace(slug))
}

func (r *ProductRepositoryPG) ListTagged(ctx context.Context, tag string, limit int) ([]proddom.Product, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	const q = `
SELECT id, slug, name, unit, price, sale_price, min_price, max_price, stock, tags, gallery
FROM products
WHERE $1 = ANY(tags)
ORDER BY id
LIMIT $2
`
	rows, err := r.DB.QueryContext(ctx, q, tag, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []proddom.Product
	for rows.Next() {
		raw, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		p, err := r.attachVariantData(ctx, raw)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// =======================
// Internals
// =======================

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ProductRepositoryPG) getOne(ctx context.Context, q, arg string) (proddom.Product, error) {
	if r == nil || r.DB == nil {
		return proddom.Product{}, errors.New("product_repository_pg: db is nil")
	}
	if arg == "" {
		return proddom.Product{}, proddom.ErrNotFound
	}

	raw, err := scanProduct(r.DB.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return proddom.Product{}, proddom.ErrNotFound
		}
		return proddom.Product{}, err
	}
	return r.attachVariantData(ctx, raw)
}

func scanProduct(row rowScanner) (proddom.Product, error) {
	var (
		p        proddom.Product
		unit     sql.NullString
		sale     sql.NullInt64
		minPrice sql.NullInt64
		maxPrice sql.NullInt64
		tags     pq.StringArray
		gallery  pq.StringArray
	)
	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &unit,
		&p.Price, &sale, &minPrice, &maxPrice,
		&p.Stock, &tags, &gallery,
	)
	if err != nil {
		return proddom.Product{}, err
	}
	if unit.Valid {
		p.Unit = unit.String
	}
	if sale.Valid {
		v := sale.Int64
		p.SalePrice = &v
	}
	if minPrice.Valid {
		v := minPrice.Int64
		p.MinPrice = &v
	}
	if maxPrice.Valid {
		v := maxPrice.Int64
		p.MaxPrice = &v
	}
	p.Tags = []string(tags)
	p.Gallery = []string(gallery)
	return p, nil
}

// attachVariantData loads variation definitions and variant options, then
// runs the boundary validation.
func (r *ProductRepositoryPG) attachVariantData(ctx context.Context, p proddom.Product) (proddom.Product, error) {
	const qDefs = `
SELECT name, option_values
FROM product_variations
WHERE product_id = $1
ORDER BY position
`
	rows, err := r.DB.QueryContext(ctx, qDefs, p.ID)
	if err != nil {
		return proddom.Product{}, err
	}
	for rows.Next() {
		var (
			name string
			vals pq.StringArray
		)
		if err := rows.Scan(&name, &vals); err != nil {
			rows.Close()
			return proddom.Product{}, err
		}
		p.Variations = append(p.Variations, proddom.VariationDefinition{Name: name, Values: []string(vals)})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return proddom.Product{}, err
	}
	rows.Close()

	variants, err := r.fetchVariants(ctx, p.ID)
	if err != nil {
		return proddom.Product{}, err
	}
	p.VariantOptions = variants

	out, err := proddom.New(p)
	if err != nil {
		return proddom.Product{}, fmt.Errorf("product_repository_pg: invalid row %s: %w", p.ID, err)
	}
	return out, nil
}

func (r *ProductRepositoryPG) fetchVariants(ctx context.Context, productID string) ([]proddom.VariantOption, error) {
	const qVariants = `
SELECT id, price, sale_price, stock, disabled
FROM product_variants
WHERE product_id = $1
ORDER BY id
`
	rows, err := r.DB.QueryContext(ctx, qVariants, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out []proddom.VariantOption
		ids []string
	)
	for rows.Next() {
		var (
			v    proddom.VariantOption
			sale sql.NullInt64
		)
		if err := rows.Scan(&v.ID, &v.Price, &sale, &v.Stock, &v.Disabled); err != nil {
			return nil, err
		}
		if sale.Valid {
			s := sale.Int64
			v.SalePrice = &s
		}
		out = append(out, v)
		ids = append(ids, v.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	const qOpts = `
SELECT variant_id, axis, option_value
FROM product_variant_options
WHERE variant_id = ANY($1)
ORDER BY variant_id, axis
`
	optRows, err := r.DB.QueryContext(ctx, qOpts, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer optRows.Close()

	byVariant := make(map[string][]proddom.OptionPair, len(out))
	for optRows.Next() {
		var vid, axis, val string
		if err := optRows.Scan(&vid, &axis, &val); err != nil {
			return nil, err
		}
		byVariant[vid] = append(byVariant[vid], proddom.OptionPair{Axis: axis, Value: val})
	}
	if err := optRows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Options = byVariant[out[i].ID]
	}
	return out, nil
}

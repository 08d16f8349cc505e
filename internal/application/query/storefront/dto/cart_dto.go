// internal/application/query/storefront/dto/cart_dto.go
package dto

// CartDTO is the response shape for the cart screen.
// NOTE: the query returns ONLY what the cart screen needs.
type CartDTO struct {
	ShopperID string        `json:"shopperId"`
	Lines     []CartLineDTO `json:"lines"`

	TotalAmount int64  `json:"totalAmount"`
	Total       string `json:"total"`

	CreatedAt *string `json:"createdAt,omitempty"`
	UpdatedAt *string `json:"updatedAt,omitempty"`
	ExpiresAt *string `json:"expiresAt,omitempty"`
}

// CartLineDTO is one resolved line for the cart view.
type CartLineDTO struct {
	Identity  string `json:"identity"`
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`

	// resolved display fields
	ProductName string            `json:"productName,omitempty"`
	Options     map[string]string `json:"options,omitempty"`

	Qty            int    `json:"qty"`
	UnitPriceMinor int64  `json:"unitPriceMinor"`
	UnitPrice      string `json:"unitPrice"`
	SubtotalMinor  int64  `json:"subtotalMinor"`
	Subtotal       string `json:"subtotal"`

	// how many more units the shopper may still add
	Remaining int `json:"remaining"`
}

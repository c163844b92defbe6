package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is one row of a user's cart. Price is the product price captured when
// the product was first added and is never refreshed afterwards.
type Item struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" swaggertype:"string"`
	CreatedAt time.Time       `json:"created_at"`
}

// Subtotal is the snapshot price times the quantity.
func (it Item) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// OwnedBy is the authorization predicate applied before every cart mutation.
func OwnedBy(it *Item, userID string) bool {
	return it != nil && userID != "" && it.UserID == userID
}

// Total sums the subtotals of items.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// MaxQuantity bounds the units of one product a cart row may hold.
const MaxQuantity = 10000

const unknownProduct = "Unknown Product"

// Line is a cart item joined with the current product display data.
// swagger:model CartLine
type Line struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	Subtotal    decimal.Decimal `json:"subtotal" swaggertype:"string"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

// View is the response of GET /api/cart.
// swagger:model CartView
type View struct {
	Items []Line          `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total" swaggertype:"string"`
}

// AddItemRequest payload of POST /api/cart.
// swagger:model AddItemRequest
type AddItemRequest struct {
	ProductID string `json:"product_id" example:"zeus-whey"`
	Quantity  int    `json:"quantity"   example:"1"`
}

// SetQuantityRequest payload of PUT /api/cart/:id.
// swagger:model SetQuantityRequest
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" example:"2"`
}

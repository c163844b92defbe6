package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category,omitempty"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: product not found
	Error string `json:"error"`
	// Machine-readable reason
	// example: not_found
	Code string `json:"code"`
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	Q      string    `json:"q,omitempty"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Items  []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	ID          string `json:"id"          example:"zeus-whey"`
	Name        string `json:"name"        example:"Zeus Whey"`
	Description string `json:"description" example:"The Ultimate Strength Formula"`
	Price       string `json:"price"       example:"2999"`
	Image       string `json:"image"       example:"assets/product.png"`
	Category    string `json:"category"    example:"supplements"`
	Stock       *int   `json:"stock"       example:"100"`
}

// UpdateProductRequest payload of partial update. Empty fields are left as is.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Stock       *int   `json:"stock"`
}

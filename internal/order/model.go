package order

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is expected. Transitions are
// not enforced; this only informs reporting.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Total           decimal.Decimal `json:"total" swaggertype:"string"`
	Status          Status          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	IdempotencyKey  string          `json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Item is an order line. It is written once with the cart's snapshot price.
type Item struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" swaggertype:"string"`
}

const (
	PaymentMethodOnline    = "online"
	PaymentStatusCompleted = "completed"
)

type Payment struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// Placement is the write-once aggregate produced by a checkout.
type Placement struct {
	Order   Order
	Items   []Item
	Payment Payment
}

type ShippingAddress struct {
	FirstName string `json:"firstName" example:"Ada"`
	LastName  string `json:"lastName"  example:"Lovelace"`
	Address   string `json:"address"   example:"12 Olympus Road"`
	City      string `json:"city"      example:"Pune"`
	State     string `json:"state"     example:"MH"`
	Pincode   string `json:"pincode"   example:"411001"`
	Phone     string `json:"phone"     example:"+91 98765 43210"`
}

func (a ShippingAddress) Encode() (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeShipping parses a stored shipping address. Unparseable values yield nil.
func DecodeShipping(raw string) *ShippingAddress {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var a ShippingAddress
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil
	}
	return &a
}

// Summary renders items as product:quantity:price joined by commas.
func Summary(items []Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s:%d:%s", it.ProductID, it.Quantity, it.Price.String()))
	}
	return strings.Join(parts, ",")
}

// View is an order with its lines, as returned to customers and admins.
// swagger:model OrderView
type View struct {
	Order
	Shipping    *ShippingAddress `json:"shipping,omitempty"`
	UserEmail   string           `json:"user_email,omitempty"`
	Items       []Item           `json:"items"`
	ItemSummary string           `json:"item_summary"`
	Payment     *Payment         `json:"payment,omitempty"`
}

type Filter struct {
	UserID string
	Status Status
	Limit  int
	Offset int
}

// UserStats aggregates a user's orders for the back-office.
type UserStats struct {
	OrderCount    int             `json:"order_count"`
	TotalSpent    decimal.Decimal `json:"total_spent" swaggertype:"string"`
	LastOrderDate *time.Time      `json:"last_order_date"`
}

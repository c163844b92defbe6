package order

// CreateOrderRequest payload of POST /api/orders.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
}

// CreateOrderResponse is returned after a successful checkout.
// swagger:model CreateOrderResponse
type CreateOrderResponse struct {
	OrderID string `json:"orderId" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Message string `json:"message" example:"Order created successfully"`
}

// UpdateStatusRequest payload of PUT /api/admin/orders/:id/status.
// swagger:model UpdateOrderStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"shipped"`
}

package main

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/order"
)

// listCartHandler godoc
//
//	@Summary	List the cart
//	@Tags		cart
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	cart.View
//	@Failure	401	{object}	httpx.ErrorBody
//	@Failure	403	{object}	httpx.ErrorBody
//	@Router		/api/cart [get]
func listCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := svc.List(c.Request.Context(), customerID(c))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// addCartItemHandler godoc
//
//	@Summary	Add a product to the cart
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		cart.AddItemRequest	true	"product and quantity"
//	@Success	200		{object}	cart.Item
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	404		{object}	httpx.ErrorBody
//	@Router		/api/cart [post]
func addCartItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cart.AddItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		it, err := svc.AddItem(c.Request.Context(), customerID(c), in.ProductID, in.Quantity)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

// setCartQuantityHandler godoc
//
//	@Summary	Set a cart item quantity (0 removes it)
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"cart item id"
//	@Param		body	body		cart.SetQuantityRequest	true	"quantity"
//	@Success	200		{object}	map[string]string
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	404		{object}	httpx.ErrorBody
//	@Router		/api/cart/{id} [put]
func setCartQuantityHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cart.SetQuantityRequest
		if err := c.ShouldBindJSON(&in); err != nil || in.Quantity == nil {
			httpx.BadRequest(c, "quantity is required")
			return
		}
		if err := svc.SetQuantity(c.Request.Context(), customerID(c), c.Param("id"), *in.Quantity); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, message("Cart updated"))
	}
}

// removeCartItemHandler godoc
//
//	@Summary	Remove a cart item
//	@Tags		cart
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"cart item id"
//	@Success	200	{object}	map[string]string
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/api/cart/{id} [delete]
func removeCartItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RemoveItem(c.Request.Context(), customerID(c), c.Param("id")); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, message("Item removed from cart"))
	}
}

// clearCartHandler godoc
//
//	@Summary	Clear the cart
//	@Tags		cart
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	map[string]string
//	@Router		/api/cart [delete]
func clearCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), customerID(c)); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, message("Cart cleared"))
	}
}

// placeOrderHandler godoc
//
//	@Summary		Place an order from the cart
//	@Description	Converts the cart into an order with a completed payment and empties the cart. Repeating a request with the same Idempotency-Key returns the original order.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Idempotency-Key	header		string						false	"client supplied checkout key"
//	@Param			body			body		order.CreateOrderRequest	true	"shipping address"
//	@Success		201				{object}	order.CreateOrderResponse
//	@Success		200				{object}	order.CreateOrderResponse	"replayed"
//	@Failure		400				{object}	httpx.ErrorBody
//	@Failure		401				{object}	httpx.ErrorBody
//	@Router			/api/orders [post]
func placeOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.CreateOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
			httpx.BadRequest(c, "invalid json")
			return
		}
		placed, err := svc.PlaceOrder(c.Request.Context(), customerID(c), in.ShippingAddress,
			strings.TrimSpace(c.GetHeader("Idempotency-Key")), c.GetString(httpx.RequestIDKey))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		status := http.StatusCreated
		if placed.Replayed {
			status = http.StatusOK
		}
		c.JSON(status, order.CreateOrderResponse{OrderID: placed.OrderID, Message: "Order created successfully"})
	}
}

// listMyOrdersHandler godoc
//
//	@Summary	List my orders
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		order.View
//	@Failure	401	{object}	httpx.ErrorBody
//	@Router		/api/orders [get]
func listMyOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := svc.ListForUser(c.Request.Context(), customerID(c))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

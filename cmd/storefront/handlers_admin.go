package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/storefront/internal/admin"
	"github.com/MikeMC777/storefront/internal/enquiry"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/report"
	"github.com/MikeMC777/storefront/internal/user"
)

// adminLoginHandler godoc
//
//	@Summary	Admin login
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		body	body		admin.LoginRequest	true	"credentials"
//	@Success	200		{object}	admin.LoginResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Router		/api/admin/login [post]
func adminLoginHandler(svc *admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in admin.LoginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		res, err := svc.Login(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// dashboardHandler godoc
//
//	@Summary	Dashboard
//	@Tags		admin
//	@Produce	json
//	@Security	AdminAuth
//	@Success	200	{object}	report.Dashboard
//	@Failure	401	{object}	httpx.ErrorBody
//	@Failure	403	{object}	httpx.ErrorBody
//	@Router		/api/admin/dashboard [get]
func dashboardHandler(svc *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Dashboard(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// adminListOrdersHandler godoc
//
//	@Summary	List orders
//	@Tags		admin
//	@Produce	json
//	@Security	AdminAuth
//	@Param		status	query		string	false	"order status"
//	@Success	200		{array}		order.View
//	@Router		/api/admin/orders [get]
func adminListOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := svc.AdminList(c.Request.Context(), c.Query("status"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

// adminGetOrderHandler godoc
//
//	@Summary	Get order
//	@Tags		admin
//	@Produce	json
//	@Security	AdminAuth
//	@Param		id	path		string	true	"order id"
//	@Success	200	{object}	order.View
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/api/admin/orders/{id} [get]
func adminGetOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := svc.AdminGet(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// updateOrderStatusHandler godoc
//
//	@Summary	Update order status
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	AdminAuth
//	@Param		id		path		string						true	"order id"
//	@Param		body	body		order.UpdateStatusRequest	true	"new status"
//	@Success	200		{object}	map[string]string
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	404		{object}	httpx.ErrorBody
//	@Router		/api/admin/orders/{id}/status [put]
func updateOrderStatusHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, message("Order status updated"))
	}
}

// listPaymentsHandler godoc
//
//	@Summary	List payments
//	@Tags		admin
//	@Produce	json
//	@Security	AdminAuth
//	@Param		status	query	string	false	"payment status"
//	@Success	200		{array}	order.Payment
//	@Router		/api/admin/payments [get]
func listPaymentsHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ps, err := svc.ListPayments(c.Request.Context(), c.Query("status"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ps)
	}
}

// listEnquiriesHandler godoc
//
//	@Summary	List enquiries
//	@Tags		admin
//	@Produce	json
//	@Security	AdminAuth
//	@Param		status	query		string	false	"enquiry status"
//	@Success	200		{array}		enquiry.Enquiry
//	@Failure	400		{object}	httpx.ErrorBody
//	@Router		/api/admin/enquiries [get]
func listEnquiriesHandler(svc *enquiry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.List(c.Request.Context(), c.Query("status"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// getEnquiryHandler godoc
//
//	@Summary	Get enquiry
//	@Tags		admin
//	@Produce	json
//	@Security	AdminAuth
//	@Param		id	path		string	true	"enquiry id"
//	@Success	200	{object}	enquiry.Enquiry
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/api/admin/enquiries/{id} [get]
func getEnquiryHandler(svc *enquiry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

// updateEnquiryStatusHandler godoc
//
//	@Summary	Update enquiry status
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	AdminAuth
//	@Param		id		path		string						true	"enquiry id"
//	@Param		body	body		enquiry.UpdateStatusRequest	true	"new status"
//	@Success	200		{object}	map[string]string
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	404		{object}	httpx.ErrorBody
//	@Router		/api/admin/enquiries/{id}/status [put]
func updateEnquiryStatusHandler(svc *enquiry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in enquiry.UpdateStatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, message("Enquiry status updated"))
	}
}

// listUsersHandler godoc
//
//	@Summary	List users with order statistics
//	@Tags		admin
//	@Produce	json
//	@Security	AdminAuth
//	@Success	200	{array}	report.UserSummary
//	@Router		/api/admin/users [get]
func listUsersHandler(svc *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.Users(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// getUserHandler godoc
//
//	@Summary	Get user with recent orders
//	@Tags		admin
//	@Produce	json
//	@Security	AdminAuth
//	@Param		id	path		string	true	"user id"
//	@Success	200	{object}	report.UserDetail
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/api/admin/users/{id} [get]
func getUserHandler(svc *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.User(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// updateUserStatusHandler godoc
//
//	@Summary	Update user status
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	AdminAuth
//	@Param		id		path		string						true	"user id"
//	@Param		body	body		user.UpdateStatusRequest	true	"new status"
//	@Success	200		{object}	map[string]string
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	404		{object}	httpx.ErrorBody
//	@Router		/api/admin/users/{id}/status [put]
func updateUserStatusHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.UpdateStatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, message("User status updated"))
	}
}

// deleteUserHandler godoc
//
//	@Summary	Delete a user with their cart, orders and payments
//	@Tags		admin
//	@Produce	json
//	@Security	AdminAuth
//	@Param		id	path		string	true	"user id"
//	@Success	200	{object}	map[string]string
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/api/admin/users/{id} [delete]
func deleteUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, message("User deleted successfully"))
	}
}

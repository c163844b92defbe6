package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/storefront/internal/enquiry"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/product"
	"github.com/MikeMC777/storefront/internal/user"
)

// listProductsHandler godoc
//
//	@Summary	List products
//	@Tags		products
//	@Produce	json
//	@Param		q		query		string	false	"search in name and description"
//	@Param		limit	query		int		false	"page size (default 20, max 100)"
//	@Param		offset	query		int		false	"offset"
//	@Success	200		{object}	product.ListResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Router		/api/products [get]
func listProductsHandler(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := product.Query{Q: c.Query("q")}
		var err error
		if v := c.Query("limit"); v != "" {
			if q.Limit, err = strconv.Atoi(v); err != nil {
				httpx.BadRequest(c, "limit must be an integer")
				return
			}
		}
		if v := c.Query("offset"); v != "" {
			if q.Offset, err = strconv.Atoi(v); err != nil {
				httpx.BadRequest(c, "offset must be an integer")
				return
			}
		}
		res, err := svc.List(c.Request.Context(), q)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// getProductHandler godoc
//
//	@Summary	Get product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"product id"
//	@Success	200	{object}	product.Product
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/api/products/{id} [get]
func getProductHandler(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler godoc
//
//	@Summary	Create product
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	AdminAuth
//	@Param		body	body		product.CreateProductRequest	true	"product"
//	@Success	201		{object}	product.Product
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	409		{object}	httpx.ErrorBody
//	@Router		/api/admin/products [post]
func createProductHandler(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.CreateProductRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		p, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler godoc
//
//	@Summary	Update product
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	AdminAuth
//	@Param		id		path		string							true	"product id"
//	@Param		body	body		product.UpdateProductRequest	true	"fields to change"
//	@Success	200		{object}	product.Product
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	404		{object}	httpx.ErrorBody
//	@Router		/api/admin/products/{id} [put]
func updateProductHandler(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.UpdateProductRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		p, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// deleteProductHandler godoc
//
//	@Summary	Delete product
//	@Tags		admin
//	@Security	AdminAuth
//	@Param		id	path	string	true	"product id"
//	@Success	204
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/api/admin/products/{id} [delete]
func deleteProductHandler(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// registerHandler godoc
//
//	@Summary	Register a customer
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		user.RegisterRequest	true	"account"
//	@Success	201		{object}	user.AuthResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Router		/api/register [post]
func registerHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.RegisterRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		res, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// loginHandler godoc
//
//	@Summary	Customer login
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		user.LoginRequest	true	"credentials"
//	@Success	200		{object}	user.AuthResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	403		{object}	httpx.ErrorBody
//	@Router		/api/login [post]
func loginHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.LoginRequest
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

// submitEnquiryHandler godoc
//
//	@Summary	Submit an enquiry
//	@Tags		enquiries
//	@Accept		json
//	@Produce	json
//	@Param		body	body		enquiry.SubmitRequest	true	"message"
//	@Success	201		{object}	enquiry.Enquiry
//	@Failure	400		{object}	httpx.ErrorBody
//	@Router		/api/contact [post]
func submitEnquiryHandler(svc *enquiry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in enquiry.SubmitRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		e, err := svc.Submit(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, e)
	}
}

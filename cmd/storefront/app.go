package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/MikeMC777/storefront/docs"
	"github.com/MikeMC777/storefront/internal/admin"
	"github.com/MikeMC777/storefront/internal/auth"
	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/enquiry"
	"github.com/MikeMC777/storefront/internal/events"
	"github.com/MikeMC777/storefront/internal/grpcx"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/product"
	"github.com/MikeMC777/storefront/internal/report"
	"github.com/MikeMC777/storefront/internal/user"
)

type settings struct {
	jwtSecret        string
	adminSecret      string
	tokenExpiry      time.Duration
	adminTokenExpiry time.Duration
	bcryptCost       int
}

type app struct {
	customerTokens *auth.Issuer
	adminTokens    *auth.Issuer

	products  *product.Service
	users     *user.Service
	admins    *admin.Service
	cart      *cart.Service
	orders    *order.Service
	enquiries *enquiry.Service
	reports   *report.Service
}

func newApp(st stores, locker order.Locker, publisher events.Publisher, s settings, reg prometheus.Registerer, logger *zap.Logger) (*app, error) {
	customerTokens, err := auth.NewIssuer(auth.DomainCustomer, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		return nil, err
	}
	adminTokens, err := auth.NewIssuer(auth.DomainAdmin, s.adminSecret, s.adminTokenExpiry)
	if err != nil {
		return nil, err
	}
	return &app{
		customerTokens: customerTokens,
		adminTokens:    adminTokens,
		products:       product.NewService(st.products, logger),
		users:          user.NewService(st.users, customerTokens, s.bcryptCost, logger),
		admins:         admin.NewService(st.admins, adminTokens, s.bcryptCost, logger),
		cart:           cart.NewService(st.carts, st.products, logger),
		orders:         order.NewService(st.orders, st.users, locker, publisher, logger, order.WithMetrics(reg)),
		enquiries:      enquiry.NewService(st.enquiries, logger),
		reports:        report.NewService(st.orders, st.enquiries, st.users),
	}, nil
}

// seed inserts the sample catalog and the default admin on an empty store.
func (a *app) seed(ctx context.Context) error {
	if err := a.products.Seed(ctx); err != nil {
		return err
	}
	return a.admins.SeedDefault(ctx)
}

func newRouter(a *app, probe grpcx.Probe, metrics *httpx.ServerMetrics, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpx.RequestID())
	r.Use(httpx.Logger(logger))
	r.Use(metrics.Middleware())

	r.GET("/healthz", healthHandler(probe))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/products", listProductsHandler(a.products))
		api.GET("/products/:id", getProductHandler(a.products))
		api.POST("/register", registerHandler(a.users))
		api.POST("/login", loginHandler(a.users))
		api.POST("/contact", submitEnquiryHandler(a.enquiries))
	}

	customer := api.Group("", auth.Require(a.customerTokens))
	{
		customer.GET("/cart", listCartHandler(a.cart))
		customer.POST("/cart", addCartItemHandler(a.cart))
		customer.DELETE("/cart", clearCartHandler(a.cart))
		customer.PUT("/cart/:id", setCartQuantityHandler(a.cart))
		customer.DELETE("/cart/:id", removeCartItemHandler(a.cart))
		customer.POST("/orders", placeOrderHandler(a.orders))
		customer.GET("/orders", listMyOrdersHandler(a.orders))
	}

	api.POST("/admin/login", adminLoginHandler(a.admins))
	back := api.Group("/admin", auth.Require(a.adminTokens))
	{
		back.GET("/dashboard", dashboardHandler(a.reports))

		back.GET("/orders", adminListOrdersHandler(a.orders))
		back.GET("/orders/:id", adminGetOrderHandler(a.orders))
		back.PUT("/orders/:id/status", updateOrderStatusHandler(a.orders))

		back.GET("/enquiries", listEnquiriesHandler(a.enquiries))
		back.GET("/enquiries/:id", getEnquiryHandler(a.enquiries))
		back.PUT("/enquiries/:id/status", updateEnquiryStatusHandler(a.enquiries))

		back.GET("/payments", listPaymentsHandler(a.orders))

		back.GET("/users", listUsersHandler(a.reports))
		back.GET("/users/:id", getUserHandler(a.reports))
		back.PUT("/users/:id/status", updateUserStatusHandler(a.users))
		back.DELETE("/users/:id", deleteUserHandler(a.users))

		back.GET("/products", listProductsHandler(a.products))
		back.POST("/products", createProductHandler(a.products))
		back.PUT("/products/:id", updateProductHandler(a.products))
		back.DELETE("/products/:id", deleteProductHandler(a.products))
	}
	return r
}

func healthHandler(probe grpcx.Probe) gin.HandlerFunc {
	return func(c *gin.Context) {
		if probe != nil {
			if err := probe(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "store": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// customerID returns the user id set by auth.Require.
func customerID(c *gin.Context) string {
	id, _ := auth.IdentityFrom(c)
	return id.UserID
}

func message(msg string) gin.H {
	return gin.H{"message": msg}
}

package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nafood/nafood-backend-go/handlers"
	customMiddleware "github.com/nafood/nafood-backend-go/middleware"
	"github.com/nafood/nafood-backend-go/models"
)

// Handlers bundles everything SetupRoutes wires up.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Users     *handlers.UserHandler
	Products  *handlers.ProductHandler
	Orders    *handlers.OrderHandler
	Reviews   *handlers.ReviewHandler
	Banners   *handlers.BannerHandler
	Upload    *handlers.UploadHandler
	UploadDir string
}

func SetupRoutes(e *echo.Echo, h Handlers) {
	auth := customMiddleware.AuthMiddleware()
	adminOnly := customMiddleware.RequireRole(models.RoleAdmin)
	staffOnly := customMiddleware.RequireRole(models.RoleStaff, models.RoleAdmin)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static("/uploads", h.UploadDir)

	api := e.Group("/api")

	// Public
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/products", h.Products.List)
	api.GET("/products/:id", h.Products.Get)
	api.GET("/banners", h.Banners.List)
	api.GET("/reviews", h.Reviews.List)

	// Authenticated
	api.GET("/auth/me", h.Auth.Me, auth)
	api.PUT("/auth/me", h.Auth.UpdateMe, auth)

	api.GET("/orders", h.Orders.List, auth)
	api.GET("/orders/export", h.Orders.ExportCSV, auth, adminOnly)
	api.GET("/orders/:id", h.Orders.Get, auth)
	api.POST("/orders", h.Orders.Create, auth)
	api.PUT("/orders/:id", h.Orders.Update, auth)
	api.DELETE("/orders/:id", h.Orders.Delete, auth, adminOnly)

	api.POST("/reviews", h.Reviews.Create, auth)
	api.PUT("/reviews/:id", h.Reviews.Moderate, auth, adminOnly)
	api.DELETE("/reviews/:id", h.Reviews.Delete, auth, adminOnly)

	api.POST("/products", h.Products.Create, auth, adminOnly)
	api.PUT("/products/:id", h.Products.Update, auth, adminOnly)
	api.DELETE("/products/:id", h.Products.Delete, auth, adminOnly)

	api.POST("/banners", h.Banners.Create, auth, adminOnly)
	api.PUT("/banners/:id", h.Banners.Update, auth, adminOnly)
	api.DELETE("/banners/:id", h.Banners.Delete, auth, adminOnly)

	api.GET("/users", h.Users.List, auth, adminOnly)
	api.GET("/users/:id", h.Users.Get, auth, adminOnly)
	api.PUT("/users/:id", h.Users.Update, auth, adminOnly)
	api.DELETE("/users/:id", h.Users.Delete, auth, adminOnly)

	api.POST("/upload", h.Upload.Upload, auth, staffOnly)
}

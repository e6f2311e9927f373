// Package routes assembles the HTTP engine.
package routes

import (
	"net/http"
	"time"

	"storefront-app/config"
	adminapi "storefront-app/internal/api/admin"
	authapi "storefront-app/internal/api/auth"
	catalogapi "storefront-app/internal/api/catalog"
	ordersapi "storefront-app/internal/api/orders"
	pagesapi "storefront-app/internal/api/pages"
	"storefront-app/internal/api/storefront"
	stripewebhooks "storefront-app/internal/api/stripewebhook"
	"storefront-app/internal/api/validation"
	"storefront-app/internal/app/http/middleware"
	"storefront-app/internal/domain/users"
	"storefront-app/internal/infra/stripe"
	"storefront-app/internal/render"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	Payments stripe.Payments // nil disables payment intents
}

func New(d Deps) *gin.Engine {
	if !d.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Register()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))
	if origin := d.Config.Server.CORSOrigin; origin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{origin},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	tokens := authapi.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	loader := render.NewLoader(d.DB)

	authH := authapi.NewHandler(d.DB, d.Log, tokens, cfg.Google)
	adminH := adminapi.NewHandler(d.DB, d.Log, cfg.Inventory.LowStockThreshold)
	catalogH := catalogapi.NewHandler(d.DB, d.Log, cfg.Inventory.LowStockThreshold)
	ordersH := ordersapi.NewHandler(d.DB, d.Log, d.Payments, cfg.Stripe.Currency)
	pagesH := pagesapi.NewHandler(d.DB, d.Log, loader)
	storeH := storefront.NewHandler(d.DB, d.Log, loader)
	webhookH := stripewebhooks.NewHandler(d.DB, d.Log, cfg.Stripe.WebhookSecret)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/webhooks/stripe", webhookH.StripeWebhook)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	public.POST("/auth/login", authH.Login)
	public.GET("/auth/google", authH.GoogleStart)
	public.GET("/auth/google/callback", authH.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(tokens))
	auth.GET("/me", authH.Me)
	auth.POST("/auth/change-password", middleware.SanitizeAndCleanInputMiddleware(), authH.ChangePassword)

	// Storefront (read-only, public)
	store := r.Group("/store")
	store.GET("/products", storeH.ListProducts)
	store.GET("/products/:slug", storeH.GetProduct)
	store.GET("/categories", storeH.ListCategories)
	store.GET("/categories/:slug", storeH.GetCategory)
	store.GET("/brands", storeH.ListBrands)
	store.GET("/pages/:slug", storeH.GetPage)

	// Catalog and pages: admins and editors
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokens), middleware.RequireRole(users.RoleAdmin, users.RoleEditor))

	admin.GET("/products", catalogH.ListProducts)
	admin.POST("/products", catalogH.CreateProduct)
	admin.GET("/products/low-stock", catalogH.LowStock)
	admin.GET("/products/:id", catalogH.GetProduct)
	admin.PUT("/products/:id", catalogH.UpdateProduct)
	admin.DELETE("/products/:id", catalogH.DeleteProduct)
	admin.PATCH("/products/:id/stock", catalogH.UpdateStock)
	admin.PATCH("/products/:id/pricing", catalogH.UpdatePricing)

	admin.GET("/categories", catalogH.ListCategories)
	admin.POST("/categories", catalogH.CreateCategory)
	admin.GET("/categories/:id", catalogH.GetCategory)
	admin.PUT("/categories/:id", catalogH.UpdateCategory)
	admin.DELETE("/categories/:id", catalogH.DeleteCategory)

	admin.GET("/brands", catalogH.ListBrands)
	admin.POST("/brands", catalogH.CreateBrand)
	admin.GET("/brands/:id", catalogH.GetBrand)
	admin.PUT("/brands/:id", catalogH.UpdateBrand)
	admin.DELETE("/brands/:id", catalogH.DeleteBrand)

	admin.GET("/attributes", catalogH.ListAttributes)
	admin.POST("/attributes", catalogH.CreateAttribute)
	admin.GET("/attributes/:id", catalogH.GetAttribute)
	admin.PUT("/attributes/:id", catalogH.UpdateAttribute)
	admin.DELETE("/attributes/:id", catalogH.DeleteAttribute)

	admin.GET("/pages", pagesH.ListPages)
	admin.POST("/pages", pagesH.CreatePage)
	admin.GET("/pages/:id", pagesH.GetPage)
	admin.PUT("/pages/:id", pagesH.UpdatePage)
	admin.DELETE("/pages/:id", pagesH.DeletePage)
	admin.POST("/pages/:id/duplicate", pagesH.DuplicatePage)
	admin.POST("/pages/:id/preview", pagesH.PreviewPage)

	// Orders, dashboard and users: admins only
	owner := admin.Group("/")
	owner.Use(middleware.RequireRole(users.RoleAdmin))

	owner.GET("/dashboard", adminH.Dashboard)

	owner.GET("/orders", ordersH.ListOrders)
	owner.POST("/orders", ordersH.CreateOrder)
	owner.GET("/orders/:id", ordersH.GetOrder)
	owner.PUT("/orders/:id/status", ordersH.UpdateStatus)
	owner.POST("/orders/:id/cancel", ordersH.CancelOrder)
	owner.POST("/orders/:id/payment-intent", ordersH.CreatePaymentIntent)

	owner.GET("/users", adminH.ListUsers)
	owner.GET("/users/:id", adminH.GetUser)
	owner.PUT("/users/:id", adminH.UpdateUser)
}

package routes

import (
	"net/http"

	"github.com/01moynul/herbal-storefront/internal/handlers"
	"github.com/01moynul/herbal-storefront/internal/middleware"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires every endpoint to its handler and guard.
func SetupRouter(h *handlers.Handlers, settings middleware.MaintenanceChecker, corsOrigin string) *gin.Engine {
	router := gin.New()

	// CORS must run first so preflight requests never hit the guards.
	router.Use(middleware.CORSMiddleware(corsOrigin))
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(h.Logger))
	router.Use(middleware.MaintenanceMiddleware(settings, h.Tokens, h.Logger))

	// Uploaded product media.
	router.Static("/uploads", h.UploadDir)

	requireSession := middleware.AuthMiddleware(h.Tokens)

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/auth/register", h.Register)
		v1.POST("/auth/login", h.Login)
		v1.POST("/auth/logout", h.Logout)

		// --- Storefront Routes (Public) ---
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:slug", h.GetProduct)
		v1.GET("/categories", h.CategoryTree)
		v1.GET("/locations/:postcode", h.CheckPostcode)

		// --- Cart Routes (cookie, no login) ---
		v1.GET("/cart", h.GetCart)
		v1.DELETE("/cart", h.ClearCart)
		v1.POST("/cart/items", h.AddCartItem)
		v1.PATCH("/cart/items/:productId", h.UpdateCartItem)
		v1.DELETE("/cart/items/:productId", h.RemoveCartItem)

		// --- Checkout (Login Required) ---
		v1.POST("/checkout", requireSession, h.Checkout)

		// --- Account Routes (Login Required) ---
		account := v1.Group("/account")
		account.Use(requireSession)
		{
			account.GET("/me", h.Me)
			account.GET("/addresses", h.ListAddresses)
			account.POST("/addresses", h.CreateAddress)
			account.DELETE("/addresses/:id", h.DeleteAddress)
			account.GET("/orders", h.MyOrders)
			account.GET("/orders/:id", h.MyOrder)
		}

		// --- Admin Routes (staff only) ---
		admin := v1.Group("/admin")
		admin.Use(requireSession, middleware.RequireRole(models.RoleEditor))
		{
			// Catalog (editor and above)
			admin.GET("/categories", h.AdminListCategories)
			admin.POST("/categories", h.CreateCategory)
			admin.PATCH("/categories/:id", h.UpdateCategory)
			admin.GET("/products", h.AdminListProducts)
			admin.POST("/products", h.CreateProduct)
			admin.PATCH("/products/:id", h.UpdateProduct)
			admin.POST("/products/:id/ai-description", h.GenerateProductDescription)
			admin.POST("/upload", h.UploadFile)

			// Operations (manager and above)
			manager := admin.Group("/")
			manager.Use(middleware.RequireRole(models.RoleManager))
			{
				manager.GET("/orders", h.AdminListOrders)
				manager.GET("/orders/:id", h.AdminGetOrder)
				manager.PATCH("/orders/:id/status", h.UpdateOrderStatus)
				manager.POST("/orders/:id/shipment", h.CreateShipment)
				manager.POST("/orders/:id/tracking", h.SyncTracking)

				manager.GET("/locations", h.ListLocations)
				manager.POST("/locations", h.CreateLocation)
				manager.PATCH("/locations/:id", h.UpdateLocation)
				manager.DELETE("/locations/:id", h.DeleteLocation)

				manager.GET("/notifications", h.GetAdminNotifications)
				manager.PATCH("/notifications/:id/read", h.MarkNotificationRead)

				manager.GET("/reports/sales", h.GetSalesReport)
			}

			// Users and store settings (admin and above)
			owner := admin.Group("/")
			owner.Use(middleware.RequireRole(models.RoleAdmin))
			{
				owner.GET("/users", h.ListUsers)
				owner.POST("/users", h.CreateUser)
				owner.GET("/settings", h.GetSettings)
				owner.POST("/settings", h.UpdateSettings)
			}
		}
	}

	return router
}

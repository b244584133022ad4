package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/handlers"
	"bitbucket.org/mmdatafocus/mfgops_backend/middlewares"
	"bitbucket.org/mmdatafocus/mfgops_backend/models"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

const defaultPort = "8080"

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// customErrorLogger logs only requests that recorded errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func registerRoutes(r *gin.Engine) {
	r.POST("/login", handlers.Login)

	api := r.Group("/", middlewares.SessionMiddleware())

	api.POST("/register", handlers.Register)
	api.POST("/logout", handlers.Logout)

	api.POST("/suppliers", handlers.CreateSupplier)
	api.GET("/suppliers", handlers.GetSuppliers)
	api.GET("/suppliers/:id", handlers.GetSupplier)
	api.PUT("/suppliers/:id", handlers.UpdateSupplier)
	api.DELETE("/suppliers/:id", handlers.DeleteSupplier)

	api.POST("/categories", handlers.CreateCategory)
	api.GET("/categories", handlers.GetCategories)
	api.PUT("/categories/:id", handlers.UpdateCategory)
	api.DELETE("/categories/:id", handlers.DeleteCategory)

	api.POST("/materials", handlers.CreateMaterial)
	api.GET("/materials", handlers.GetMaterials)
	api.GET("/materials/:id", handlers.GetMaterial)
	api.PUT("/materials/:id", handlers.UpdateMaterial)
	api.DELETE("/materials/:id", handlers.DeleteMaterial)
	api.GET("/materials/:id/price-comparison", handlers.CompareMaterialPrices)

	api.POST("/supplier-materials", handlers.CreateSupplierMaterial)
	api.GET("/supplier-materials", handlers.GetSupplierMaterials)
	api.PUT("/supplier-materials/:id", handlers.UpdateSupplierMaterial)
	api.DELETE("/supplier-materials/:id", handlers.DeleteSupplierMaterial)

	api.POST("/packaging", handlers.CreatePackaging)
	api.GET("/packaging", handlers.GetPackagings)
	api.PUT("/packaging/:id", handlers.UpdatePackaging)
	api.DELETE("/packaging/:id", handlers.DeletePackaging)

	api.POST("/supplier-packaging", handlers.CreateSupplierPackaging)
	api.GET("/supplier-packaging", handlers.GetSupplierPackagings)
	api.PUT("/supplier-packaging/:id", handlers.UpdateSupplierPackaging)
	api.DELETE("/supplier-packaging/:id", handlers.DeleteSupplierPackaging)

	api.POST("/labels", handlers.CreateLabel)
	api.GET("/labels", handlers.GetLabels)
	api.PUT("/labels/:id", handlers.UpdateLabel)
	api.DELETE("/labels/:id", handlers.DeleteLabel)

	api.POST("/supplier-labels", handlers.CreateSupplierLabel)
	api.GET("/supplier-labels", handlers.GetSupplierLabels)
	api.PUT("/supplier-labels/:id", handlers.UpdateSupplierLabel)
	api.DELETE("/supplier-labels/:id", handlers.DeleteSupplierLabel)

	api.POST("/recipes", handlers.CreateRecipe)
	api.GET("/recipes", handlers.GetRecipes)
	api.GET("/recipes/:id", handlers.GetRecipe)
	api.PUT("/recipes/:id", handlers.UpdateRecipe)
	api.DELETE("/recipes/:id", handlers.DeleteRecipe)
	api.GET("/recipes/:id/cost", handlers.GetRecipeCost)
	api.POST("/recipe-ingredients/:id/lock-pricing", handlers.LockIngredientPricing)
	api.POST("/recipe-ingredients/:id/unlock-pricing", handlers.UnlockIngredientPricing)

	api.POST("/recipe-variants", handlers.CreateRecipeVariant)
	api.GET("/recipe-variants", handlers.GetRecipeVariants)
	api.GET("/recipe-variants/:id", handlers.GetRecipeVariant)
	api.DELETE("/recipe-variants/:id", handlers.DeleteRecipeVariant)
	api.GET("/recipe-variants/:id/cost", handlers.GetRecipeVariantCost)

	api.POST("/products", handlers.CreateProduct)
	api.GET("/products", handlers.GetProducts)
	api.GET("/products/:id", handlers.GetProduct)
	api.PUT("/products/:id", handlers.UpdateProduct)
	api.DELETE("/products/:id", handlers.DeleteProduct)

	api.POST("/product-variants", handlers.CreateProductVariant)
	api.GET("/product-variants", handlers.GetProductVariants)
	api.GET("/product-variants/:id", handlers.GetProductVariant)
	api.PUT("/product-variants/:id", handlers.UpdateProductVariant)
	api.DELETE("/product-variants/:id", handlers.DeleteProductVariant)

	api.POST("/production-batches", handlers.CreateProductionBatch)
	api.GET("/production-batches", handlers.GetProductionBatches)
	api.GET("/production-batches/:id", handlers.GetProductionBatch)
	api.PUT("/production-batches/:id", handlers.UpdateProductionBatch)
	api.PUT("/production-batches/:id/status", handlers.UpdateProductionBatchStatus)
	api.DELETE("/production-batches/:id", handlers.DeleteProductionBatch)
	api.GET("/production-batches/:id/costs", handlers.GetProductionBatchCosts)
	api.GET("/production-batches/:id/requirements", handlers.GetProductionBatchRequirements)

	api.POST("/inventory-items", handlers.CreateInventoryItem)
	api.GET("/inventory-items", handlers.GetInventoryOverview)
	api.GET("/inventory-items/:id", handlers.GetInventoryItem)
	api.PUT("/inventory-items/:id", handlers.UpdateInventoryItem)
	api.DELETE("/inventory-items/:id", handlers.DeleteInventoryItem)
	api.POST("/inventory-items/:id/transactions", handlers.ApplyInventoryTransaction)
	api.GET("/inventory-items/:id/transactions", handlers.GetInventoryTransactions)

	api.GET("/inventory-alerts", handlers.GetInventoryAlerts)
	api.PUT("/inventory-alerts/:id/read", handlers.MarkAlertRead)
	api.PUT("/inventory-alerts/:id/resolve", handlers.ResolveAlert)

	api.POST("/purchase-orders", handlers.CreatePurchaseOrder)
	api.GET("/purchase-orders", handlers.GetPurchaseOrders)
	api.GET("/purchase-orders/:id", handlers.GetPurchaseOrder)
	api.PUT("/purchase-orders/:id", handlers.UpdatePurchaseOrder)
	api.PUT("/purchase-orders/:id/status", handlers.UpdatePurchaseOrderStatus)
	api.POST("/purchase-orders/:id/receive", handlers.ReceivePurchaseOrderItems)
	api.DELETE("/purchase-orders/:id", handlers.DeletePurchaseOrder)
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server before connecting dependencies; app endpoints
	// return 503 until DB and Redis are ready.
	r := gin.New()

	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist; otherwise allow all for
	// developer convenience.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	registerRoutes(r)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	// AutoMigrate can run DDL that blocks tables; allow running migrations
	// as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		if err := models.MigrateTable(); err != nil {
			logger.WithFields(logrus.Fields{"field": "migrations"}).Error("migration failed: " + err.Error())
		}
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	log.Println("Server started successfully on port " + port)

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

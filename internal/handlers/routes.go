package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"gst-invoice-api/internal/middleware"
	"gst-invoice-api/internal/services"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	CustomerService services.CustomerService
	ProductService  services.ProductService
	InvoiceService  services.InvoiceService
	TaxService      services.TaxService
	SettingsService services.SettingsService
	AuthService     *middleware.AuthService
	AdminUsername   string
	AdminPassword   string
}

// SetupRoutes configures all API routes. Reads and sales entry are
// open; destructive operations and the shop profile require an admin
// token.
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	customerHandler := NewCustomerHandler(config.CustomerService)
	productHandler := NewProductHandler(config.ProductService)
	invoiceHandler := NewInvoiceHandler(config.InvoiceService)
	taxHandler := NewTaxHandler(config.TaxService)
	settingsHandler := NewSettingsHandler(config.SettingsService)
	authHandler := NewAuthHandler(config.AuthService, config.AdminUsername, config.AdminPassword)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "gst-invoice-api",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (no auth required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/validate", authHandler.ValidateToken)
		}

		// Customer routes
		customers := v1.Group("/customers")
		{
			customers.POST("", customerHandler.CreateCustomer)
			customers.GET("", customerHandler.SearchCustomers)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.PUT("/:id", customerHandler.UpdateCustomer)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.POST("", productHandler.CreateProduct)
			products.GET("", productHandler.SearchProducts)
			products.GET("/low-stock", productHandler.GetLowStockProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
		}

		// Invoice routes
		invoices := v1.Group("/invoices")
		{
			invoices.POST("", invoiceHandler.CreateInvoice)
			invoices.GET("", invoiceHandler.ListInvoices)
			invoices.GET("/next-number", invoiceHandler.PreviewNextNumber)
			invoices.GET("/number/:number", invoiceHandler.GetInvoiceByNumber)
			invoices.GET("/:id", invoiceHandler.GetInvoice)
			invoices.PUT("/:id/payment", invoiceHandler.UpdatePayment)
			invoices.GET("/:id/pdf", invoiceHandler.GeneratePDF)
			invoices.GET("/:id/upi-qr", invoiceHandler.GenerateUPIQR)
		}

		// Tax preview routes
		tax := v1.Group("/tax")
		{
			tax.POST("/calculate", taxHandler.Calculate)
			tax.POST("/extract-base", taxHandler.ExtractBase)
			tax.GET("/rates", taxHandler.Rates)
		}

		// Report routes
		reports := v1.Group("/reports")
		{
			reports.GET("/sales", invoiceHandler.GetSalesReport)
			reports.GET("/top-products", invoiceHandler.GetTopProducts)
			reports.GET("/top-customers", invoiceHandler.GetTopCustomers)
		}

		// Settings reads are open so the POS UI can render invoices
		v1.GET("/settings", settingsHandler.GetSettings)

		// Admin-only routes
		admin := v1.Group("")
		admin.Use(middleware.Authentication(config.AuthService))
		admin.Use(middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.DELETE("/customers/:id", customerHandler.DeleteCustomer)
			admin.DELETE("/products/:id", productHandler.DeleteProduct)
			admin.DELETE("/invoices/:id", invoiceHandler.DeleteInvoice)
			admin.PUT("/settings", settingsHandler.UpdateSettings)
		}
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, rateLimitRPS float64, rateLimitBurst int) {
	// Request ID and correlation ID
	router.Use(middleware.RequestID())
	router.Use(middleware.CorrelationID())

	// CORS
	router.Use(middleware.CORS())

	// Security headers
	router.Use(middleware.SecurityHeaders())

	// Request size limit (10MB)
	router.Use(middleware.RequestSizeLimit(10 * 1024 * 1024))

	// Content type validation for POST/PUT requests
	router.Use(middleware.ContentTypeValidation("application/json"))

	// Request validation
	router.Use(middleware.RequestValidation())

	// Rate limiting
	router.Use(middleware.RateLimiter(rateLimitRPS, rateLimitBurst))

	// Structured logging
	router.Use(middleware.StructuredLogger())

	// Performance monitoring (log requests over 1 second)
	router.Use(middleware.PerformanceMonitor(1000))

	// Audit logging
	router.Use(middleware.AuditLogger())

	// Error tracking
	router.Use(middleware.ErrorTracker())

	// Enhanced error handling
	router.Use(middleware.EnhancedErrorHandler())
}

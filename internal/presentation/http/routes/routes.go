package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/selfcheckout-kiosk/internal/config"
	domainRepo "github.com/sangkips/selfcheckout-kiosk/internal/domain/repository"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/handler"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/middleware"
	"github.com/sangkips/selfcheckout-kiosk/pkg/metrics"
	"github.com/sangkips/selfcheckout-kiosk/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Kiosk   *handler.KioskHandler
	Catalog *handler.CatalogHandler
	Auth    *handler.AuthHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Tokens          middleware.TokenValidator
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewClientRateLimiter(
			middleware.RateLimiterConfigFromWindow(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration))
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		registerAuthRoutes(v1, h, deps)
		registerKioskRoutes(v1, h, deps)
		registerCatalogRoutes(v1, h, deps)
		registerPrinterRoutes(v1, h, deps)
	}

	return router
}

func attendantOnly(deps *Deps) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.AuthMiddleware(deps.Tokens),
		middleware.RequireRole(utils.RoleAttendant),
	}
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	auth := v1.Group("/auth")
	{
		auth.POST("/attendant", h.Auth.AttendantLogin)
		auth.GET("/me", append(attendantOnly(deps), h.Auth.Me)...)
	}
}

func registerKioskRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		TTL:  deps.Cfg.Idempotency.TTL,
	})

	kiosk := v1.Group("/kiosk")
	{
		kiosk.GET("/state", h.Kiosk.GetState)
		kiosk.POST("/begin", h.Kiosk.BeginShopping)
		kiosk.POST("/cancel", h.Kiosk.Cancel)
		kiosk.POST("/transactions/new", h.Kiosk.StartNewTransaction)

		kiosk.POST("/items/scan", h.Kiosk.ScanItem)
		kiosk.POST("/items", h.Kiosk.AddItem)
		kiosk.DELETE("/items/last", h.Kiosk.RemoveLastItem)
		kiosk.DELETE("/items/:index", h.Kiosk.RemoveItem)

		kiosk.POST("/scanning/resume", h.Kiosk.ResumeScanning)
		kiosk.POST("/scanner/start", h.Kiosk.StartScanner)
		kiosk.POST("/scanner/stop", h.Kiosk.StopScanner)

		kiosk.POST("/discounts/open", h.Kiosk.OpenDiscounts)
		kiosk.POST("/discounts/code", h.Kiosk.ApplyDiscountCode)
		kiosk.POST("/discounts", append(attendantOnly(deps), h.Kiosk.ApplyDiscount)...)

		kiosk.POST("/payment", h.Kiosk.ProceedToPayment)
		kiosk.POST("/payment/method", idempotent, h.Kiosk.SelectPayment)
		kiosk.POST("/payment/process", idempotent, h.Kiosk.ProcessPayment)

		kiosk.POST("/receipt", h.Kiosk.PrintReceipt)
		kiosk.GET("/receipt", h.Kiosk.GetLastReceipt)
	}
}

func registerCatalogRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	catalog := v1.Group("/catalog")
	{
		catalog.GET("/products", h.Catalog.ListProducts)
		catalog.GET("/products/:barcode", h.Catalog.GetProduct)
	}

	managed := catalog.Group("")
	managed.Use(attendantOnly(deps)...)
	{
		managed.PUT("/products/:barcode", h.Catalog.UpsertProduct)
		managed.PUT("/discount-codes/:code", h.Catalog.UpsertDiscountCode)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	printerGroup := v1.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/reprint", h.Printer.Reprint)
		printerGroup.POST("/test", append(attendantOnly(deps), h.Printer.TestPrint)...)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-generator/internal/config"
	"github.com/sangkips/invoice-generator/internal/presentation/http/dto/response"
	"github.com/sangkips/invoice-generator/internal/presentation/http/handler"
	"github.com/sangkips/invoice-generator/internal/presentation/http/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Draft   *handler.DraftHandler
	Invoice *handler.InvoiceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
	Log logrus.FieldLogger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	v1 := router.Group("/api/v1")
	{
		registerDraftRoutes(v1, h)
		registerInvoiceRoutes(v1, h)
	}

	return router
}

func registerDraftRoutes(rg *gin.RouterGroup, h *Handlers) {
	drafts := rg.Group("/drafts")
	{
		drafts.POST("", h.Draft.Create)
		drafts.GET("/:id", h.Draft.Get)
		drafts.PUT("/:id", h.Draft.Update)
		drafts.DELETE("/:id", h.Draft.Discard)
		drafts.POST("/:id/items", h.Draft.AddItem)
		drafts.DELETE("/:id/items/:index", h.Draft.RemoveItem)
		drafts.POST("/:id/finalize", h.Draft.Finalize)
	}
}

func registerInvoiceRoutes(rg *gin.RouterGroup, h *Handlers) {
	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/next-number", h.Invoice.NextNumber)
		invoices.GET("/export", h.Invoice.Export)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:id/render", h.Invoice.Render)
	}
}

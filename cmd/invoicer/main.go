package main

import (
	"net"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-generator/internal/application/service"
	"github.com/sangkips/invoice-generator/internal/config"
	"github.com/sangkips/invoice-generator/internal/document"
	"github.com/sangkips/invoice-generator/internal/infrastructure/database"
	"github.com/sangkips/invoice-generator/internal/infrastructure/pdf"
	"github.com/sangkips/invoice-generator/internal/infrastructure/repository"
	"github.com/sangkips/invoice-generator/internal/presentation/http/handler"
	"github.com/sangkips/invoice-generator/internal/presentation/http/routes"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := config.NewLogger(cfg.Log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open the invoice store
	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Warn("Failed to close database")
		}
	}()

	// Run auto-migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := os.MkdirAll(cfg.Document.OutputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Initialize the document renderer
	renderer := document.NewRenderer(pdf.NewCanvas, document.Branding{
		CompanyName:  cfg.Document.CompanyName,
		CompanyLines: cfg.Document.CompanyLines,
		Title:        cfg.Document.Title,
		Footer:       cfg.Document.Footer,
	}, log.WithField("module", "renderer"))

	// Initialize services
	invoiceService := service.NewInvoiceService(invoiceRepo, renderer, cfg.Document.OutputDir, log)
	draftService := service.NewDraftService(invoiceService)

	// Initialize handlers
	handlers := &routes.Handlers{
		Draft:   handler.NewDraftHandler(draftService),
		Invoice: handler.NewInvoiceHandler(invoiceService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg: cfg,
		Log: log,
	})

	if !isLoopback(cfg.App.Addr) {
		log.Warnf("Listening on %s; the invoice shell has no authentication and should stay on loopback", cfg.App.Addr)
	}

	log.WithFields(logrus.Fields{
		"addr":       cfg.App.Addr,
		"env":        cfg.App.Env,
		"output_dir": cfg.Document.OutputDir,
	}).Infof("Starting %s", cfg.App.Name)

	if err := router.Run(cfg.App.Addr); err != nil {
		log.Errorf("Server stopped: %v", err)
	}
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

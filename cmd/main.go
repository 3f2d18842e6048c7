package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"nilpfstore/internal/caching"
	"nilpfstore/internal/config"
	"nilpfstore/internal/handlers"
	"nilpfstore/internal/middleware"
	"nilpfstore/internal/repositories"
	"nilpfstore/internal/services"
	"nilpfstore/internal/services/payment"
	"nilpfstore/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Certificate archive is optional; issuance works without it.
	var archiveSvc services.ArchiveService
	if archive, err := services.NewMinioArchive(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL); err != nil {
		log.Printf("WARN: certificate archive disabled: %v", err)
	} else {
		archiveSvc = archive
		if err := archive.EnsureBucketExists(context.Background()); err != nil {
			log.Printf("WARN: certificate bucket check failed: %v", err)
		}
	}

	// Payment provider selection; credentials were validated by config.Load.
	var provider payment.Provider
	switch cfg.Provider {
	case config.ProviderStripe:
		stripeClient, err := payment.NewStripeClient(cfg.StripeSecretKey)
		if err != nil {
			log.Fatalf("Failed to initialize Stripe client: %v", err)
		}
		provider = stripeClient
	default:
		provider = payment.NewPayPalClient(cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalMode)
	}

	// Repositories
	licenseRepo := repositories.NewLicenseRepo(pool)
	eventRepo := repositories.NewIssuanceEventRepo(pool)

	// Services
	renderer := services.NewCertificateRenderer()
	licensingSvc := services.NewLicensingService(
		provider,
		licenseRepo,
		eventRepo,
		cacheSvc,
		renderer,
		archiveSvc,
		cfg.DomainURL,
		cfg.PriceAmount,
		cfg.PriceCurrency,
	)

	// Handlers
	checkoutHandlers := handlers.NewCheckoutHandlers(licensingSvc, cacheSvc, cfg.PriceAmount, cfg.PriceCurrency)
	certificateHandlers := handlers.NewCertificateHandlers(licensingSvc)
	adminHandlers := handlers.NewAdminHandlers(licenseRepo, eventRepo, archiveSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Public endpoints
	e.GET("/", checkoutHandlers.Home)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	// Purchase flow
	checkout := v1.Group("/checkout")
	checkout.POST("/address", checkoutHandlers.SubmitAddress)
	checkout.GET("/buy", checkoutHandlers.Buy)
	checkout.GET("/success", checkoutHandlers.Success)
	checkout.GET("/cancel", checkoutHandlers.Cancel)

	// Certificate downloads (payment re-verified per request, no JWT)
	v1.GET("/certificates/:reference", certificateHandlers.Download)

	// Admin surface
	if cfg.AdminJWTSecret != "" || cfg.AdminJWKSURL != "" {
		adminJWT, err := middleware.AdminJWT(cfg.AdminJWTSecret, cfg.AdminJWKSURL)
		if err != nil {
			log.Fatalf("Failed to configure admin auth: %v", err)
		}
		admin := v1.Group("/admin")
		admin.Use(adminJWT)
		admin.GET("/licenses", adminHandlers.ListLicenses)
		admin.GET("/licenses/:reference", adminHandlers.GetLicense)
		admin.GET("/events", adminHandlers.ListEvents)
	} else {
		log.Println("WARN: admin surface disabled, no ADMIN_JWT_SECRET or ADMIN_JWKS_URL configured")
	}

	log.Printf("NILPF store v%s starting on port %d (provider: %s)", version, cfg.Port, provider.Name())
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}

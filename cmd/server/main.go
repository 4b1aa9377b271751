package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/shoplens/backend/config"
	httpDelivery "github.com/shoplens/backend/internal/delivery/http"
	"github.com/shoplens/backend/internal/domain"
	"github.com/shoplens/backend/internal/infrastructure/cache"
	"github.com/shoplens/backend/internal/infrastructure/offline"
	"github.com/shoplens/backend/internal/infrastructure/shopify"
	"github.com/shoplens/backend/internal/stores"
	"github.com/shoplens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetLevel(log.DebugLevel)
	}

	log.Info("Starting ShopLens Backend v1.0.0")
	log.WithFields(log.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"cache_ttl":   cfg.Cache.TTL,
	}).Info("Configuration loaded")

	// Infrastructure dependencies
	recCache := cache.NewRecommendations(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	directory := stores.NewDirectory(stores.DefaultCategories(), os.Getenv)
	metrics := usecase.NewMetrics()

	source := selectSource(cfg, directory)

	// Usecase layer
	similar := usecase.NewSimilarService(recCache, source, directory, metrics, usecase.SimilarServiceConfig{
		MaxConcurrent: cfg.Fanout.MaxConcurrent,
	})
	catalog := usecase.NewCatalogService(source, directory)

	// HTTP delivery
	handler := httpDelivery.NewHandler(similar, catalog, recCache)
	router := httpDelivery.SetupRouter(cfg, handler, metrics.Registry)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Infof("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// selectSource picks the product data source. Without any storefront
// token configured, live queries could only fail, so the built-in
// fixture catalog takes over.
func selectSource(cfg *config.Config, directory *stores.Directory) domain.ProductSource {
	if cfg.Source.Offline {
		log.Info("Offline mode: serving the built-in fixture catalog")
		return offline.NewFixtureSource()
	}
	if !directory.AnyTokenConfigured() {
		log.Warn("No storefront tokens configured; falling back to the fixture catalog")
		return offline.NewFixtureSource()
	}

	client := shopify.NewClient(shopify.ClientConfig{
		APIVersion: cfg.Shopify.APIVersion,
		Timeout:    cfg.Shopify.Timeout,
		Retries:    cfg.Shopify.Retries,
	})
	return shopify.NewLiveSource(client, directory.Resolver())
}

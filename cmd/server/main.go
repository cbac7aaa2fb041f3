package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/farmcentral/farm_supply/internal/catalog"
	"github.com/farmcentral/farm_supply/internal/config"
	"github.com/farmcentral/farm_supply/internal/directory"
	"github.com/farmcentral/farm_supply/internal/es"
	"github.com/farmcentral/farm_supply/internal/handlers"
	"github.com/farmcentral/farm_supply/internal/identity"
	"github.com/farmcentral/farm_supply/internal/logging"
	authmw "github.com/farmcentral/farm_supply/internal/middleware/auth"
	"github.com/farmcentral/farm_supply/internal/mykafka"
	"github.com/farmcentral/farm_supply/internal/provider"
	"github.com/farmcentral/farm_supply/internal/service/search"
	httpserver "github.com/farmcentral/farm_supply/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	prod, err := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	if err != nil {
		logger.Warn("kafka disabled", "error", err)
		prod = nil
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		logger.Warn("search disabled", "error", err)
		esClient = nil
	}

	providerSvc := provider.NewService(db, []byte(configuration.PROVIDER_SECRET))
	directoryRepo := directory.NewRepo(db)
	directorySvc := &directory.Service{
		Repo:      directoryRepo,
		Provider:  providerSvc,
		Producer:  prod,
		OrgDomain: configuration.ORG_DOMAIN,
	}
	catalogSvc := &catalog.Service{
		Repo:     catalog.NewRepo(db),
		Producer: prod,
	}
	sessions := &identity.SessionManager{Secret: []byte(configuration.SESSION_SECRET)}
	resolver := &identity.Resolver{Provider: providerSvc, Directory: directoryRepo}

	ctx := logging.IntoContext(context.Background(), logger)
	if err := catalogSvc.EnsureTypes(ctx); err != nil {
		log.Fatalf("product type seeding error: %v", err)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		AuthHandler:   &handlers.AuthHandler{Directory: directorySvc, Sessions: sessions},
		FarmerHandler: &handlers.FarmerHandler{Directory: directorySvc},
		ProductHandler: &handlers.ProductHandler{
			Catalog:   catalogSvc,
			Directory: directoryRepo,
			ES:        esClient,
			Index:     search.DefaultIndex,
		},
		Guard: &authmw.Guard{Sessions: sessions, Resolver: resolver},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}

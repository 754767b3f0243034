package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rmarquez/ventapos-backend/api/routes"
	cartstore "github.com/rmarquez/ventapos-backend/internal/cart"
	"github.com/rmarquez/ventapos-backend/internal/clients"
	"github.com/rmarquez/ventapos-backend/internal/company"
	"github.com/rmarquez/ventapos-backend/internal/lookups"
	"github.com/rmarquez/ventapos-backend/internal/notifications"
	"github.com/rmarquez/ventapos-backend/internal/products"
	"github.com/rmarquez/ventapos-backend/internal/receipts"
	"github.com/rmarquez/ventapos-backend/internal/sales"
	"github.com/rmarquez/ventapos-backend/pkg/config"
	"github.com/rmarquez/ventapos-backend/pkg/db"
	"github.com/rmarquez/ventapos-backend/pkg/logger"
	"github.com/rmarquez/ventapos-backend/pkg/metrics"
	"github.com/rmarquez/ventapos-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	salesMetrics := metrics.NewSalesMetrics(prometheus.DefaultRegisterer)

	productRepo := products.NewRepository(dbClient.DB())
	clientRepo := clients.NewRepository(dbClient.DB())
	lookupRepo := lookups.NewRepository(dbClient.DB())
	saleRepo := sales.NewRepository(dbClient.DB())
	companyRepo := company.NewRepository(dbClient.DB(), company.Profile{
		Name:    cfg.Company.Name,
		Address: cfg.Company.Address,
		Contact: cfg.Company.Contact,
	})

	notificationService, err := notifications.NewService(
		productRepo,
		cfg.Inventory.LowStockThreshold,
		logg,
		notifications.NewLogNotifier(logg),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	saleService, err := sales.NewService(
		saleRepo, productRepo, clientRepo, lookupRepo,
		dbClient, notificationService, salesMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	receiptService, err := receipts.NewService(
		saleService, productRepo, clientRepo, lookupRepo, companyRepo,
		[]receipts.Renderer{receipts.NewTextRenderer(), receipts.NewPDFRenderer()},
		receipts.NewFileSharer(cfg.Receipts.OutputDir),
		salesMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create receipt service", err)
		os.Exit(1)
	}

	cart := cartstore.NewStore()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, cart,
			saleService, receiptService, notificationService,
			productRepo, clientRepo, lookupRepo, companyRepo,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

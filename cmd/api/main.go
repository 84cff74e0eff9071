package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/webshopkit/webshop-backend/api/routes"
	"github.com/webshopkit/webshop-backend/internal/articles"
	authsvc "github.com/webshopkit/webshop-backend/internal/auth"
	"github.com/webshopkit/webshop-backend/internal/carts"
	"github.com/webshopkit/webshop-backend/internal/contracts"
	"github.com/webshopkit/webshop-backend/internal/customers"
	"github.com/webshopkit/webshop-backend/internal/orders"
	"github.com/webshopkit/webshop-backend/pkg/config"
	"github.com/webshopkit/webshop-backend/pkg/db"
	"github.com/webshopkit/webshop-backend/pkg/logger"
	"github.com/webshopkit/webshop-backend/pkg/migrate"
	"github.com/webshopkit/webshop-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	customerRepo := customers.NewRepository(dbClient.DB())
	cartRepo := carts.NewRepository(dbClient.DB())
	articleRepo := articles.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	contractRepo := contracts.NewRepository(dbClient.DB())

	customerService, err := customers.NewService(customers.ServiceParams{
		Tx:          dbClient,
		Repo:        customerRepo,
		PasswordCfg: cfg.Password,
		Notifier:    customers.NewLogNotifier(logg),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	cartService, err := carts.NewService(carts.ServiceParams{
		Repo:     cartRepo,
		Articles: articleRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	articleService, err := articles.NewService(articleRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create article service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Tx:       dbClient,
		Repo:     orderRepo,
		CartRepo: cartRepo,
		Articles: articleRepo,
		Notifier: orders.NewLogNotifier(logg),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	contractService, err := contracts.NewService(contractRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create contract service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Customers: customerRepo,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

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
			cfg,
			logg,
			dbClient,
			redisClient,
			authService,
			customerService,
			cartService,
			articleService,
			orderService,
			contractService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

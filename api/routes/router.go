package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/webshopkit/webshop-backend/api/controllers"
	"github.com/webshopkit/webshop-backend/api/middleware"
	"github.com/webshopkit/webshop-backend/internal/articles"
	authsvc "github.com/webshopkit/webshop-backend/internal/auth"
	"github.com/webshopkit/webshop-backend/internal/carts"
	"github.com/webshopkit/webshop-backend/internal/contracts"
	"github.com/webshopkit/webshop-backend/internal/customers"
	"github.com/webshopkit/webshop-backend/internal/orders"
	"github.com/webshopkit/webshop-backend/pkg/config"
	"github.com/webshopkit/webshop-backend/pkg/db"
	"github.com/webshopkit/webshop-backend/pkg/logger"
	"github.com/webshopkit/webshop-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	authService authsvc.Service,
	customerService customers.Service,
	cartService carts.Service,
	articleService articles.Service,
	orderService orders.Service,
	contractService contracts.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(authService, logg))
	})

	// Registration is the only unauthenticated customer operation.
	r.Post("/api/v1/customers", controllers.CustomerRegister(customerService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Get("/", controllers.CustomerList(customerService, logg))
				r.Get("/search", controllers.CustomerSearch(customerService, logg))
				r.Get("/by-email", controllers.CustomerGetByEmail(customerService, logg))
			})

			r.Route("/{customerId}", func(r chi.Router) {
				r.Get("/", controllers.CustomerGet(customerService, logg))
				r.Patch("/", controllers.CustomerUpdate(customerService, logg))
				r.Delete("/", controllers.CustomerDelete(customerService, logg))
				r.Put("/file", controllers.CustomerFileUpload(customerService, logg))
				r.Get("/file", controllers.CustomerFileDownload(customerService, logg))

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", controllers.CartFetch(cartService, logg))
					r.Delete("/", controllers.CartClear(cartService, logg))
					r.Post("/items", controllers.CartAddItem(cartService, logg))
					r.Delete("/items/{articleId}", controllers.CartRemoveItem(cartService, logg))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.OrderList(orderService, logg))
					r.Post("/", controllers.OrderCheckout(orderService, logg))
				})

				r.Get("/contracts", controllers.ContractListForCustomer(contractService, logg))
			})
		})

		r.Route("/orders/{orderId}", func(r chi.Router) {
			r.Get("/", controllers.OrderDetail(orderService, logg))
			r.Get("/deliveries", controllers.DeliveryListForOrder(orderService, logg))
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", controllers.ArticleSearch(articleService, logg))
			r.Get("/{articleId}", controllers.ArticleDetail(articleService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Post("/", controllers.ArticleCreate(articleService, logg))
				r.Patch("/{articleId}", controllers.ArticleUpdate(articleService, logg))
				r.Delete("/{articleId}", controllers.ArticleDiscontinue(articleService, logg))
			})
		})

		r.Route("/deliveries", func(r chi.Router) {
			r.Use(middleware.RequireStaff(logg))
			r.Get("/", controllers.DeliverySearch(orderService, logg))
			r.Post("/", controllers.DeliveryCreate(orderService, logg))
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Use(middleware.RequireStaff(logg))
			r.Post("/", controllers.ContractCreate(contractService, logg))
			r.Delete("/{contractId}", controllers.ContractDelete(contractService, logg))
		})
	})

	return r
}

package router

import (
	"net/http"

	"github.com/mostafayousef44200444-rgb/backend/internal/auth"
	"github.com/mostafayousef44200444-rgb/backend/internal/handler"
	"github.com/mostafayousef44200444-rgb/backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Health  *handler.HealthHandler
	User    *handler.UserHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
}

// New builds the HTTP routing tree with its middleware stack.
func New(tokens *auth.TokenManager, h Handlers, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.NewRateLimiter(rate.Limit(20), 40, logger).Limit)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	requireAuth := middleware.RequireAuth(tokens, logger)
	requireAdmin := middleware.RequireAdmin(logger)

	r.Get("/", h.Health.Root)
	r.Get("/health", h.Health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.User.Register)
			r.Post("/login", h.User.Login)
			r.Get("/", h.User.GetAll)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Product.GetAll)
			r.Get("/{id}", h.Product.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.Post("/", h.Product.Create)
				r.Put("/{id}", h.Product.Update)
				r.Delete("/{id}", h.Product.Delete)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/", h.Order.ReplaceCart)
			r.Put("/update-cart", h.Order.UpdateCart)
			r.Post("/add-to-cart", h.Order.AddToCart)
			r.Delete("/remove-from-cart/{productId}", h.Order.RemoveFromCart)
			r.Put("/{orderId}/confirm", h.Order.Confirm)
			r.Get("/my/current", h.Order.GetCurrentCart)
			r.Get("/my", h.Order.ListMine)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/", h.Order.ListAll)
				r.Get("/{orderId}/admin", h.Order.AdminGet)
				r.Put("/{orderId}/admin", h.Order.AdminUpdate)
			})
		})
	})

	return r
}

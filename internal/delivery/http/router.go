package http

import (
	"net/http"

	"github.com/atlasrent/backend/internal/delivery/http/middleware"
	"github.com/atlasrent/backend/internal/pkg/config"
	"github.com/atlasrent/backend/internal/pkg/jwt"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	authHandler      *AuthHandler
	carHandler       *CarHandler
	clientHandler    *ClientHandler
	rentalHandler    *RentalHandler
	expenseHandler   *ExpenseHandler
	dashboardHandler *DashboardHandler
	tokenService     *jwt.TokenService
	config           *config.Config
	logger           logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	authHandler *AuthHandler,
	carHandler *CarHandler,
	clientHandler *ClientHandler,
	rentalHandler *RentalHandler,
	expenseHandler *ExpenseHandler,
	dashboardHandler *DashboardHandler,
	tokenService *jwt.TokenService,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:      authHandler,
		carHandler:       carHandler,
		clientHandler:    clientHandler,
		rentalHandler:    rentalHandler,
		expenseHandler:   expenseHandler,
		dashboardHandler: dashboardHandler,
		tokenService:     tokenService,
		config:           config,
		logger:           logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (без аутентификации)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
			r.Post("/refresh", rt.authHandler.Refresh)
		})

		// Protected routes (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			r.Post("/auth/logout", rt.authHandler.Logout)
			r.Get("/auth/me", rt.authHandler.GetMe)

			// Fleet endpoints
			r.Route("/cars", func(r chi.Router) {
				r.Get("/", rt.carHandler.ListCars)
				r.Post("/", rt.carHandler.CreateCar)
				r.Get("/stats", rt.carHandler.GetStats)
				r.Get("/{id}", rt.carHandler.GetCar)
				r.Put("/{id}", rt.carHandler.UpdateCar)
				r.Patch("/{id}/status", rt.carHandler.UpdateCarStatus)
				r.Delete("/{id}", rt.carHandler.DeleteCar)
			})

			// Client endpoints
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.ListClients)
				r.Post("/", rt.clientHandler.CreateClient)
				r.Get("/{id}", rt.clientHandler.GetClient)
				r.Put("/{id}", rt.clientHandler.UpdateClient)
				r.Delete("/{id}", rt.clientHandler.DeleteClient)
			})

			// Rental endpoints
			r.Route("/rentals", func(r chi.Router) {
				r.Get("/", rt.rentalHandler.ListRentals)
				r.Post("/", rt.rentalHandler.CreateRental)
				r.Get("/{id}", rt.rentalHandler.GetRental)
				r.Put("/{id}", rt.rentalHandler.UpdateRental)
				r.Patch("/{id}/status", rt.rentalHandler.UpdateRentalStatus)
				r.Delete("/{id}", rt.rentalHandler.DeleteRental)
			})

			// Expense endpoints
			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", rt.expenseHandler.ListExpenses)
				r.Post("/", rt.expenseHandler.CreateExpense)
				r.Get("/total", rt.expenseHandler.GetTotal)
				r.Get("/{id}", rt.expenseHandler.GetExpense)
				r.Put("/{id}", rt.expenseHandler.UpdateExpense)
				r.Delete("/{id}", rt.expenseHandler.DeleteExpense)
			})

			// Dashboard and reports
			r.Get("/dashboard", rt.dashboardHandler.GetDashboard)
			r.Get("/reports/profit", rt.dashboardHandler.GetProfit)
		})
	})

	return r
}

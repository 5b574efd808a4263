package router

import (
	"net/http"

	"github.com/comanda-pos/api/internal/config"
	"github.com/comanda-pos/api/internal/database"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/comanda-pos/api/internal/handler"
	mw "github.com/comanda-pos/api/internal/middleware"
	"github.com/comanda-pos/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// Services
	orderService := service.NewOrderService(queries, pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})
	lineService := service.NewLineService(queries, pool, func(db database.DBTX) service.LineStore {
		return database.New(db)
	})
	billingService := service.NewBillingService(queries, pool, func(db database.DBTX) service.BillingStore {
		return database.New(db)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		stateHandler := handler.NewStateHandler()
		stateHandler.RegisterRoutes(r)

		employeeHandler := handler.NewEmployeeHandler(queries)
		employeeHandler.RegisterRoutes(r)

		menuHandler := handler.NewMenuHandler(queries)
		r.Route("/menu", func(r chi.Router) {
			menuHandler.RegisterRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleAdmin))
				menuHandler.RegisterAdminRoutes(r)
			})
		})

		tableHandler := handler.NewTableHandler(queries)
		r.Route("/tables", func(r chi.Router) {
			tableHandler.RegisterRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleAdmin))
				tableHandler.RegisterAdminRoutes(r)
			})
		})

		orderHandler := handler.NewOrderHandler(orderService, billingService, queries)
		lineHandler := handler.NewLineHandler(lineService)
		r.Route("/orders", func(r chi.Router) {
			orderHandler.RegisterRoutes(r)
			r.Route("/{id}/lines", lineHandler.RegisterRoutes)
		})

		invoiceHandler := handler.NewInvoiceHandler(billingService)
		r.Route("/invoices", invoiceHandler.RegisterRoutes)

		kitchenHandler := handler.NewKitchenHandler(queries)
		r.Route("/kitchen", kitchenHandler.RegisterRoutes)
	})

	logrus.Info("router initialized")
	return r
}

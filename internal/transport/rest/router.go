package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/xpensecontrol/xpense/internal/auth"
	"github.com/xpensecontrol/xpense/internal/category"
	"github.com/xpensecontrol/xpense/internal/transaction"
	"github.com/xpensecontrol/xpense/internal/transport/middleware"
	"github.com/xpensecontrol/xpense/internal/transport/swagger"
	"gorm.io/gorm"
)

// RegisterAllRoutes mounts every endpoint. Auth routes stay public; the
// rest of the API sits behind the session middleware.
func RegisterAllRoutes(
	router *chi.Mux,
	db *gorm.DB,
	allowedOrigins string,
	authHandler *auth.Handler,
	transactionHandler *transaction.Handler,
	categoryHandler *category.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(logger))
	router.Use(middleware.Recovery(logger))

	// OpenAPI document served at root, outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Get("/google/login", authHandler.GoogleLogin)
			sr.Get("/google/callback", authHandler.GoogleCallback)
			sr.Post("/logout", authHandler.Logout)
		})

		// Protected routes that require a session
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.Middleware)

			pr.Get("/users/me", authHandler.Me)

			pr.Get("/categories", categoryHandler.GetCategories)
			pr.Post("/categories", categoryHandler.CreateCategory)

			pr.Route("/transactions", func(tr chi.Router) {
				tr.Post("/", transactionHandler.CreateTransaction)
				tr.Get("/", transactionHandler.ListTransactions)
				tr.Put("/", transactionHandler.UpdateTransaction)
				tr.Delete("/", transactionHandler.DeleteTransaction)

				tr.Get("/summary", transactionHandler.GetSummary)
				tr.Get("/export", transactionHandler.ExportTransactions)
				tr.Get("/report", transactionHandler.PrintableReport)
			})
		})
	})
}

package shell

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP routing tree for the circulation API.
func NewRouter(handler *HTTPHandler, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/borrows", func(borrows chi.Router) {
			borrows.Get("/", handler.handleListBorrows)
			borrows.Get("/active", handler.handleListActiveBorrows)
			borrows.Post("/", handler.handleBorrowBook)
			borrows.Patch("/", handler.handleReturnBook)
			borrows.Delete("/{borrowID}", handler.handleRemoveBorrow)
		})

		api.Route("/books", func(books chi.Router) {
			books.Get("/", handler.handleListBooks)
			books.Post("/", handler.handleAddBook)
			books.Patch("/{bookID}", handler.handleUpdateBook)
			books.Delete("/{bookID}", handler.handleRemoveBook)
		})

		api.Route("/members", func(members chi.Router) {
			members.Get("/", handler.handleListMembers)
			members.Post("/", handler.handleRegisterMember)
			members.Delete("/{memberID}", handler.handleRemoveMember)
		})
	})

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return router
}

// requestLogger logs one line per request with method, path, status and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(wrapped, r)

			logger.Info("request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.Status(),
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
			)
		})
	}
}

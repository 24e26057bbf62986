package contentapi

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	articlecreate "github.com/jotanews/content-api/internal/http/handlers/article/create"
	articlelist "github.com/jotanews/content-api/internal/http/handlers/article/list"
	articlepublish "github.com/jotanews/content-api/internal/http/handlers/article/publish"
	articleread "github.com/jotanews/content-api/internal/http/handlers/article/read"
	articleremove "github.com/jotanews/content-api/internal/http/handlers/article/remove"
	articleupdate "github.com/jotanews/content-api/internal/http/handlers/article/update"
	"github.com/jotanews/content-api/internal/http/handlers/auth/login"
	"github.com/jotanews/content-api/internal/http/handlers/auth/register"
	categorycreate "github.com/jotanews/content-api/internal/http/handlers/category/create"
	categorylist "github.com/jotanews/content-api/internal/http/handlers/category/list"
	categoryremove "github.com/jotanews/content-api/internal/http/handlers/category/remove"
	"github.com/jotanews/content-api/internal/http/handlers/health"
	plancreate "github.com/jotanews/content-api/internal/http/handlers/plan/create"
	planlist "github.com/jotanews/content-api/internal/http/handlers/plan/list"
	subcancel "github.com/jotanews/content-api/internal/http/handlers/subscription/cancel"
	submy "github.com/jotanews/content-api/internal/http/handlers/subscription/my"
	subrenew "github.com/jotanews/content-api/internal/http/handlers/subscription/renew"
	"github.com/jotanews/content-api/internal/http/handlers/subscription/subscribe"
	"github.com/jotanews/content-api/internal/http/middlewarectx"
	articleservice "github.com/jotanews/content-api/internal/services/article"
	authservice "github.com/jotanews/content-api/internal/services/auth"
	categoryservice "github.com/jotanews/content-api/internal/services/category"
	subscriptionservice "github.com/jotanews/content-api/internal/services/subscription"
	"github.com/jotanews/content-api/internal/storage/repository"
)

// RegisterRoutes wires every endpoint. Reads run behind the optional
// authentication middleware so anonymous requests still resolve an
// identity; writes additionally require one.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.AuthService,
	articleService *articleservice.ArticleService,
	categoryService *categoryservice.CategoryService,
	subscriptionService *subscriptionservice.SubscriptionService) {

	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.Authenticate(authService, subscriptionService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			// Open reads: anonymous requests see free published content.
			r.Get("/articles", articlelist.New(logger, articleService).ServeHTTP)
			r.Get("/articles/{id}", articleread.New(logger, articleService).ServeHTTP)
			r.Get("/categories", categorylist.New(logger, categoryService).ServeHTTP)
			r.Get("/plans", planlist.New(logger, subscriptionService).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAuth(logger))

				r.Post("/articles", articlecreate.New(logger, articleService).ServeHTTP)
				r.Put("/articles/{id}", articleupdate.New(logger, articleService).ServeHTTP)
				r.Delete("/articles/{id}", articleremove.New(logger, articleService).ServeHTTP)
				r.Post("/articles/{id}/publish", articlepublish.New(logger, articleService).ServeHTTP)

				r.Post("/categories", categorycreate.New(logger, categoryService).ServeHTTP)
				r.Delete("/categories/{id}", categoryremove.New(logger, categoryService).ServeHTTP)

				r.Post("/plans", plancreate.New(logger, subscriptionService).ServeHTTP)
				r.Post("/plans/{id}/subscribe", subscribe.New(logger, subscriptionService).ServeHTTP)

				r.Get("/subscriptions/my", submy.New(logger, subscriptionService).ServeHTTP)
				r.Post("/subscriptions/{id}/renew", subrenew.New(logger, subscriptionService).ServeHTTP)
				r.Post("/subscriptions/{id}/cancel", subcancel.New(logger, subscriptionService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}

package devserver

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moshehoffman37-prog/kids-hotline/internal/lib/jwt"
)

// RegisterRoutes регистрирует все маршруты dev-сервера.
func RegisterRoutes(r chi.Router, logger *slog.Logger, api *API, jwtMaker jwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		MetricsMiddleware,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/mobile/login", api.Login)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(JWTMiddleware(jwtMaker, logger))
			r.Use(RateLimitMiddleware(logger))
			r.Get("/mobile/me", api.Me)
			r.Post("/mobile/refresh-token", api.RefreshToken)
			r.Get("/mobile/subscription", api.Subscription)
			r.Get("/video-categories", api.Categories)
			r.Get("/videos", api.Videos)
			r.Get("/documents", api.Documents)
			r.Get("/videos/{id}/stream", api.Stream)
			r.Get("/audio-files/{id}/stream", api.LegacyAudioStream)
			r.Post("/videos/{id}/mark-viewed", api.MarkViewed)
			r.Get("/videos/{id}/thumbnail", api.Thumbnail)
			r.Get("/documents/{id}/page/{n}", api.DocumentPage)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
}

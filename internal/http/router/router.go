package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/stylecloset/wardrobe-service/internal/http/cookies"
	"github.com/stylecloset/wardrobe-service/internal/http/handler"
	"github.com/stylecloset/wardrobe-service/internal/http/middleware"
	"github.com/stylecloset/wardrobe-service/internal/http/response"
	"github.com/stylecloset/wardrobe-service/internal/service"
)

type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	WardrobeHandler     *handler.WardrobeHandler
	StyleProfileHandler *handler.StyleProfileHandler
	StyleChatHandler    *handler.StyleChatHandler
	UploadHandler       *handler.UploadHandler
	Sessions            *service.SessionService
	CookieConfig        cookies.Config
	AuthRateLimitRPM    int
	ChatRateLimitRPM    int
	AuthRateLimiter     func(http.Handler) http.Handler
	ChatRateLimiter     func(http.Handler) http.Handler
	StaticDir           string
	EnableOTelHTTP      bool
}

// NewRouter wires the two-tier auth model: the route guard screens page
// navigation by cookie presence, RequireSession fully validates API calls.
func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(
			middleware.NewFixedWindowLimiter(dep.AuthRateLimitRPM, time.Minute),
			middleware.FailClosed,
		).Middleware()
	}
	chatLimiter := dep.ChatRateLimiter
	if chatLimiter == nil {
		chatLimiter = middleware.NewRateLimiter(
			middleware.NewFixedWindowLimiter(dep.ChatRateLimitRPM, time.Minute),
			middleware.FailClosed,
		).Middleware()
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/register", dep.AuthHandler.Register)
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.Post("/logout", dep.AuthHandler.Logout)
			r.Get("/me", dep.AuthHandler.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(dep.Sessions, dep.CookieConfig))

			r.Get("/wardrobe", dep.WardrobeHandler.List)
			r.Post("/wardrobe/manual", dep.WardrobeHandler.CreateManual)
			r.Get("/wardrobe/{id}", dep.WardrobeHandler.Get)
			r.Put("/wardrobe/{id}", dep.WardrobeHandler.Update)
			r.Delete("/wardrobe/{id}", dep.WardrobeHandler.Delete)

			r.Get("/style-profile", dep.StyleProfileHandler.Get)
			r.Put("/style-profile", dep.StyleProfileHandler.Put)

			if dep.StyleChatHandler != nil {
				r.With(chatLimiter).Post("/style-chat", dep.StyleChatHandler.Advise)
			}
			if dep.UploadHandler != nil {
				r.Post("/uploads/wardrobe", dep.UploadHandler.UploadWardrobeImage)
			}
		})
	})

	// Exported frontend pages, screened by the route guard.
	if dep.StaticDir != "" {
		pages := middleware.RouteGuard(dep.CookieConfig.Name)(http.FileServer(http.Dir(dep.StaticDir)))
		r.NotFound(pages.ServeHTTP)
	}

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}

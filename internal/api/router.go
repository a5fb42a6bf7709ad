package api

import (
	"net/http"
	"time"

	"inkpress/internal/api/handler"
	"inkpress/internal/app/service"
	"inkpress/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	tokens *security.TokenManager,
	authService *service.AuthService,
	postService *service.PostService,
	categoryService *service.CategoryService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses a bearer token when present and puts claims in the context.
	// Public routes stay public; middleware.Authenticator enforces presence
	// where a route requires it.
	r.Use(jwtauth.Verifier(tokens.JWTAuth()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		postHandler := handler.NewPostHandler(postService)
		v1.Route("/posts", postHandler.RegisterRoutes)

		categoryHandler := handler.NewCategoryHandler(categoryService)
		v1.Route("/categories", categoryHandler.RegisterRoutes)
	})

	return r
}

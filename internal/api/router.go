package api

import (
	"net/http"

	"potd_board/internal/api/handler"
	"potd_board/internal/api/middleware"
	"potd_board/internal/app/service"
	"potd_board/internal/common"
	"potd_board/internal/common/security"
	"potd_board/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	potdService *service.POTDService,
	referenceService *service.ReferenceService,
	sessionService *service.SessionService,
	submissionService *service.SubmissionService,
) http.Handler {
	r := chi.NewRouter()

	// Base middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(config.AppConfig.RequestTimeout()))

	// The dashboard runs on a different origin and sends credentials.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AppConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Verifies "Authorization: Bearer T" and puts claims in context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		api.Route("/auth", authHandler.RegisterRoutes)

		// Daily challenge and reference material (public, cached)
		potdHandler := handler.NewPOTDHandler(potdService)
		potdHandler.RegisterRoutes(api)

		referenceHandler := handler.NewReferenceHandler(referenceService)
		referenceHandler.RegisterRoutes(api)

		// Everything that touches the stored cookies requires a logged-in user.
		api.Route("/leetcode", func(lc chi.Router) {
			lc.Use(middleware.Authenticator)

			sessionHandler := handler.NewSessionHandler(sessionService)
			sessionHandler.RegisterRoutes(lc)

			submissionHandler := handler.NewSubmissionHandler(submissionService)
			submissionHandler.RegisterRoutes(lc)
		})
	})

	return r
}

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/getfitted/fitted/pkg/auth"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/getfitted/fitted/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const ReadHeaderTimeout = 5 * time.Second

// Create creates a new HTTP server with the given app state
func Create(appState *models.AppState) *http.Server {
	router := setupRouter(appState)
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", appState.Config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
}

// @title						Fitted REST API
// @version					0.x
// @license.name				Apache 2.0
// @license.url				http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath					/api/v1
// @schemes					http https
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and JWT token.
func setupRouter(appState *models.AppState) *chi.Mux {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(SendVersion)
	router.Use(middleware.Heartbeat("/healthz"))

	if appState.Config.Auth.Required {
		log.Info("JWT authentication required")
		router.Use(auth.JWTVerifier(appState.Config))
		router.Use(jwtauth.Authenticator)
	}

	router.Route("/api/v1", func(r chi.Router) {
		// Wardrobe item routes
		r.Route("/items", func(r chi.Router) {
			r.Get("/", GetItemListHandler(appState))
			r.Post("/", CreateItemHandler(appState))
			r.Route("/{itemUUID}", func(r chi.Router) {
				r.Get("/", GetItemHandler(appState))
				r.Patch("/", UpdateItemHandler(appState))
				r.Delete("/", DeleteItemHandler(appState))
			})
		})

		// Outfit recommendation route
		r.Post("/recommend", RecommendHandler(appState))

		// Prompt management routes
		r.Route("/prompts", func(r chi.Router) {
			r.Get("/", GetPromptListHandler(appState))
			r.Post("/", CreatePromptHandler(appState))
			r.Get("/active/{promptType}", GetActivePromptHandler(appState))
			r.Route("/{promptUUID}", func(r chi.Router) {
				r.Get("/", GetPromptHandler(appState))
				r.Patch("/", UpdatePromptHandler(appState))
				r.Delete("/", DeletePromptHandler(appState))
				r.Post("/activate", ActivatePromptHandler(appState))
			})
		})
	})

	return router
}

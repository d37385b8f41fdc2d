package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-otp-api/internal/application/auth"
	"github.com/go-otp-api/internal/config"
	"github.com/go-otp-api/internal/infrastructure/dynamo"
	"github.com/go-otp-api/internal/transport/http/handler"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	VerificationRepo *dynamo.VerificationRepo
	UserRepo         *dynamo.UserRepo
	SMSSender        auth.SMSSender
}

// NewRouter builds and returns the application router. The CORS middleware
// answers the OPTIONS pre-flight on every route.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Client-Info", "Apikey"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authSvc := auth.NewService(auth.ServiceDeps{
		VerificationRepo: deps.VerificationRepo,
		UserRepo:         deps.UserRepo,
		SMSSender:        deps.SMSSender,
	})

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(authSvc, cfg.ExposeDevOTP)
	loginH := handler.NewLoginHandler(authSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check", healthH.Ping)
		r.Post("/send-otp", otpH.Send)
		r.Post("/verify-otp", otpH.Verify)
		r.Post("/login", loginH.Login)
	})

	return r
}

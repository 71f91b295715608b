package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/staff-tracker-api/internal/application/location"
	"github.com/staff-tracker-api/internal/application/otp"
	"github.com/staff-tracker-api/internal/application/recognition"
	"github.com/staff-tracker-api/internal/config"
	"github.com/staff-tracker-api/internal/domain"
	"github.com/staff-tracker-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/staff-tracker-api/internal/infrastructure/jwt"
	s3infra "github.com/staff-tracker-api/internal/infrastructure/s3"
	"github.com/staff-tracker-api/internal/infrastructure/smtp"
	"github.com/staff-tracker-api/internal/transport/http/handler"
	appmiddleware "github.com/staff-tracker-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	OtpRepo      *dynamo.OtpRepo
	LocationRepo *dynamo.LocationRepo
	PhotoStore   *s3infra.Store
	Mailer       smtp.Mailer
	Engine       domain.EngineLauncher
	JWTProvider  *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, applied to the public OTP endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpSvc := otp.NewService(deps.OtpRepo, deps.Mailer, cfg.OTPTTL)
	locationSvc := location.NewService(deps.LocationRepo, cfg.LocalTimeOffsetMin)
	recognitionSvc := recognition.NewService(deps.Engine)

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOtpHandler(otpSvc, deps.JWTProvider)
	locationH := handler.NewLocationHandler(locationSvc)
	recognitionH := handler.NewRecognitionHandler(recognitionSvc, deps.PhotoStore)

	// ── Public routes ────────────────────────────────────────────────────
	r.Get("/test", healthH.Test)
	r.With(sensitiveRL.Limit).Post("/send-otp", otpH.Send)
	r.With(sensitiveRL.Limit).Post("/verify-otp", otpH.Verify)
	r.Get("/staff/ids", locationH.ListIDs)
	r.Get("/{staffID}/location", locationH.Get)
	r.Post("/{staffID}/location", locationH.Update)

	// ── Attendance routes (bearer-gated when JWT keys are configured) ────
	r.Route("/face-recognition", func(r chi.Router) {
		r.Use(authMw)
		r.Post("/recognize-face", recognitionH.Recognize)
		r.Post("/train-face", recognitionH.Train)
	})

	return r
}

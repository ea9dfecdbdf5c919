package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jihowes/free-trial-snetinal-sub000/api/controllers"
	"github.com/jihowes/free-trial-snetinal-sub000/api/middleware"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/clicks"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/directory"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/emails"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/trials"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/users"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/config"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/favicon"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	userService users.Service,
	trialService trials.Service,
	directoryService directory.Service,
	clickService clicks.Service,
	emailService emails.Service,
	faviconFetcher *favicon.Fetcher,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Session(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(userService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(userService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.AuthMe(userService, logg))
	})

	r.Route("/api/v1/trials", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/", controllers.TrialsList(trialService, logg))
		r.Post("/", controllers.TrialsCreate(trialService, logg))
		r.Get("/summary", controllers.TrialsSummary(trialService, logg))
		r.Route("/{trialID}", func(r chi.Router) {
			r.Get("/", controllers.TrialsGet(trialService, logg))
			r.Patch("/", controllers.TrialsUpdate(trialService, logg))
			r.Delete("/", controllers.TrialsDelete(trialService, logg))
			r.Post("/outcome", controllers.TrialsSetOutcome(trialService, logg))
			r.Put("/liked", controllers.TrialsSetLiked(trialService, logg))
		})
	})

	r.Get("/api/v1/directory", controllers.DirectoryList(directoryService, logg))

	r.With(middleware.OptionalAuth(cfg.JWT, logg)).
		Post("/api/track-click", controllers.TrackClick(clickService, logg))

	r.Post("/api/send-welcome-email", controllers.SendWelcomeEmail(emailService, logg))

	r.Get("/api/favicon", controllers.Favicon(faviconFetcher, logg))

	return r
}

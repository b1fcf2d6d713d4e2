package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/timerapp/timerapp-backend/api/controllers"
	"github.com/timerapp/timerapp-backend/api/middleware"
	"github.com/timerapp/timerapp-backend/internal/auth"
	"github.com/timerapp/timerapp-backend/internal/challenges"
	"github.com/timerapp/timerapp-backend/internal/coins"
	"github.com/timerapp/timerapp-backend/internal/friends"
	"github.com/timerapp/timerapp-backend/internal/settings"
	"github.com/timerapp/timerapp-backend/internal/usage"
	"github.com/timerapp/timerapp-backend/internal/users"
	"github.com/timerapp/timerapp-backend/pkg/auth/session"
	"github.com/timerapp/timerapp-backend/pkg/config"
	"github.com/timerapp/timerapp-backend/pkg/logger"
	"github.com/timerapp/timerapp-backend/pkg/metrics"
	"github.com/timerapp/timerapp-backend/pkg/redis"
)

// redisStore is the slice of the Redis client the HTTP layer needs.
type redisStore interface {
	redis.IdempotencyStore
	redis.RateLimiter
	redis.Pinger
}

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    redisStore
	Sessions session.AccessSessionChecker

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth       auth.Service
	Users      users.Service
	Coins      coins.Service
	Challenges challenges.Service
	Usage      usage.Service
	Settings   settings.Service
	Friends    friends.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(p)))
	})

	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	devAuthPolicy := middleware.NewAuthRateLimitPolicy(
		"dev_auth",
		cfg.DevRateLimit.Window,
		cfg.DevRateLimit.IPLimit,
	)
	authenticate := middleware.Auth(cfg.JWT, p.Sessions, p.Users, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if cfg.FeatureFlags.DevAuth {
				r.With(middleware.AuthRateLimit(devAuthPolicy, p.Redis, logg)).Post("/dev", controllers.AuthDevLogin(p.Auth, logg))
			}
			r.With(authenticate).Post("/logout", controllers.AuthLogout(p.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.Idempotency(p.Redis, logg))

			r.Get("/me", controllers.Me(p.Users, p.Coins, logg))
			r.Patch("/me", controllers.MeUpdate(p.Users, logg))
			r.Get("/users/search", controllers.UserSearch(p.Users, logg))
			r.Get("/coins", controllers.CoinHistory(p.Coins, logg))

			r.Get("/settings", controllers.SettingsGet(p.Settings, logg))
			r.Patch("/settings", controllers.SettingsUpdate(p.Settings, logg))

			r.Route("/friends", func(r chi.Router) {
				r.Get("/", controllers.FriendsList(p.Friends, logg))
				r.Post("/request", controllers.FriendRequest(p.Friends, logg))
				r.Get("/requests", controllers.FriendRequests(p.Friends, logg))
				r.Post("/respond", controllers.FriendRespond(p.Friends, logg))
			})

			r.Route("/challenges", func(r chi.Router) {
				r.Get("/", controllers.ChallengeList(p.Challenges, logg))
				r.Post("/", controllers.ChallengeCreate(p.Challenges, logg))
				r.Route("/{challengeId}", func(r chi.Router) {
					r.Get("/", controllers.ChallengeGet(p.Challenges, logg))
					r.Post("/join", controllers.ChallengeJoin(p.Challenges, logg))
					r.Post("/forfeit", controllers.ChallengeForfeit(p.Challenges, logg))
					r.Post("/complete", controllers.ChallengeComplete(p.Challenges, logg))
				})
			})

			r.Route("/usage", func(r chi.Router) {
				r.Post("/sessions", controllers.UsageRecord(p.Usage, logg))
				r.Get("/sessions", controllers.UsageList(p.Usage, logg))
				r.Get("/summary", controllers.UsageSummary(p.Usage, logg))
			})

			r.Get("/leaderboard/global", controllers.GlobalLeaderboard(p.Usage, logg))
			r.Get("/leaderboard/friends", controllers.FriendsLeaderboard(p.Usage, logg))
		})
	})

	return r
}

func readinessDeps(p RouterParams) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if p.DB != nil {
		deps["database"] = p.DB
	}
	if p.Redis != nil {
		deps["redis"] = p.Redis
	}
	return deps
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sekolah-terpadu/inventaris-backend/api/controllers"
	"github.com/sekolah-terpadu/inventaris-backend/api/handlers"
	"github.com/sekolah-terpadu/inventaris-backend/api/middleware"
	"github.com/sekolah-terpadu/inventaris-backend/internal/auth"
	"github.com/sekolah-terpadu/inventaris-backend/internal/dashboard"
	"github.com/sekolah-terpadu/inventaris-backend/internal/inventaris"
	"github.com/sekolah-terpadu/inventaris-backend/internal/ledger"
	"github.com/sekolah-terpadu/inventaris-backend/internal/obat"
	"github.com/sekolah-terpadu/inventaris-backend/internal/reports"
	"github.com/sekolah-terpadu/inventaris-backend/internal/satuan"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/auth/session"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/config"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/logger"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/metrics"
	pkgredis "github.com/sekolah-terpadu/inventaris-backend/pkg/redis"
)

// Params carries everything the router mounts.
type Params struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          *pkgredis.Client
	Sessions       session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth       auth.Service
	Inventaris inventaris.Service
	Obat       obat.Service
	Ledger     ledger.Service
	Dashboard  dashboard.Service
	Reports    reports.Service
	Satuan     satuan.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, p.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	readyDeps := map[string]controllers.Pinger{"db": p.DB}
	if p.Redis != nil {
		readyDeps["redis"] = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})
	if p.MetricsHandler != nil {
		r.Handle("/metrics", p.MetricsHandler)
	}

	idempotent := middleware.Idempotency(idempotencyStore(p.Redis), logg)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateLimitStore(p.Redis), logg)).Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			byRole := middleware.MatchRoleParam("role", logg)
			adminOnly := middleware.RequireRole(logg, enums.RoleAdmin)

			r.Get("/me", controllers.AuthMe(p.Auth, logg))
			r.With(byRole).Get("/dashboard/{role}", controllers.Dashboard(p.Dashboard, logg))

			r.Route("/inventaris", func(r chi.Router) {
				r.With(idempotent).Post("/", controllers.InventarisCreate(p.Inventaris, logg))
				r.Get("/item/{id}", controllers.InventarisGet(p.Inventaris, logg))
				r.Put("/item/{id}", controllers.InventarisUpdate(p.Inventaris, logg))
				r.Delete("/item/{id}", controllers.InventarisDelete(p.Inventaris, logg))
				r.With(byRole).Get("/{role}", controllers.InventarisList(p.Inventaris, logg))
			})

			r.Route("/obat", func(r chi.Router) {
				r.With(idempotent).Post("/", controllers.ObatCreate(p.Obat, logg))
				r.With(idempotent).Post("/usage", controllers.ObatUsage(p.Obat, logg))
				r.With(adminOnly).Post("/sweep", controllers.ObatSweep(p.Obat, logg))
				r.With(byRole).Get("/riwayat/{role}", controllers.ObatRiwayat(p.Ledger, logg))
				r.Get("/item/{id}", controllers.ObatGet(p.Obat, logg))
				r.Get("/item/{id}/riwayat", controllers.ObatItemRiwayat(p.Obat, logg))
				r.Put("/item/{id}", controllers.ObatUpdate(p.Obat, logg))
				r.Delete("/item/{id}", controllers.ObatDelete(p.Obat, logg))
				r.With(byRole).Get("/{role}", controllers.ObatList(p.Obat, logg))
			})

			r.Route("/satuan", func(r chi.Router) {
				r.Get("/", controllers.SatuanList(p.Satuan, logg))
				r.With(adminOnly, idempotent).Post("/", controllers.SatuanCreate(p.Satuan, logg))
			})

			r.Route("/laporan/{role}", func(r chi.Router) {
				r.Use(byRole)
				r.Get("/", controllers.LaporanExport(p.Reports, logg))
				r.Get("/statistik", controllers.LaporanStatistik(p.Reports, logg))
			})
		})
	})

	static := handlers.Static(cfg.App.StaticDir, logg)
	r.NotFound(static)

	return r
}

// The middlewares treat a nil interface as "disabled"; a typed nil client
// must not slip through as a non-nil value.
func idempotencyStore(client *pkgredis.Client) pkgredis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}

func rateLimitStore(client *pkgredis.Client) middleware.RateLimiterStore {
	if client == nil {
		return nil
	}
	return client
}

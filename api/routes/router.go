package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdelmaha121/sas/api/controllers"
	"github.com/abdelmaha121/sas/api/middleware"
	bookingsvc "github.com/abdelmaha121/sas/internal/booking"
	walletsvc "github.com/abdelmaha121/sas/internal/wallet"
	"github.com/abdelmaha121/sas/pkg/config"
	"github.com/abdelmaha121/sas/pkg/db"
	"github.com/abdelmaha121/sas/pkg/enums"
	"github.com/abdelmaha121/sas/pkg/logger"
	pkgredis "github.com/abdelmaha121/sas/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	bookingService bookingsvc.Service,
	walletService walletsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.BookingsList(bookingService, logg))
			r.Get("/{bookingId}", controllers.BookingDetail(bookingService, logg))
			r.Put("/{bookingId}/status", controllers.BookingStatusUpdate(bookingService, logg))
			r.With(middleware.RequireRole(logg, enums.RoleCustomer)).
				Post("/basket", controllers.BasketCheckout(bookingService, logg))
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Get("/me", controllers.WalletMe(walletService, logg))
			r.Get("/me/transactions", controllers.WalletTransactions(walletService, logg))
		})
	})

	return r
}

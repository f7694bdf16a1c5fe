package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"featuresgym/internal/admission"
	"featuresgym/internal/auth"
	"featuresgym/internal/booking"
	"featuresgym/internal/config"
	"featuresgym/internal/cutrate"
	"featuresgym/internal/earnings"
	"featuresgym/internal/gym"
	"featuresgym/internal/gymlock"
	"featuresgym/internal/membership"
	"featuresgym/internal/notify"
	"featuresgym/internal/plan"
	"featuresgym/internal/withdrawal"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Notifier is what the server needs from the notification service: queueing
// plus the backlog size reported by /health.
type Notifier interface {
	notify.Dispatcher
	QueueLength(ctx context.Context) int64
}

type Server struct {
	router    *gin.Engine
	http      *http.Server
	admission *admission.Service
}

// New wires repositories, services and routes. ctx bounds background
// helpers owned by the server, such as rate-limiter cleanup.
func New(ctx context.Context, db *sqlx.DB, cfg *config.Config, notifier Notifier) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware(), RequestLoggingMiddleware(), MetricsMiddleware())

	// One lock table shared by every writer of per-gym money or admission state.
	locks := gymlock.New()

	gymRepo := gym.NewRepository(db)
	planRepo := plan.NewRepository(db)
	ruleRepo := cutrate.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	membershipRepo := membership.NewRepository(db)

	resolver := cutrate.NewResolver(ruleRepo)
	earningsService := earnings.NewService(earnings.NewRepository(db), bookingRepo, planRepo, resolver, membershipRepo)
	withdrawalService := withdrawal.NewService(withdrawal.NewRepository(db), gymRepo, notifier, locks, cfg.MinimumWithdrawal, cfg.Currency)
	admissionService := admission.NewService(
		admission.NewRepository(db), bookingRepo, gymRepo, membershipRepo, notifier, locks,
		admission.Windows{
			OffPeakStart: cfg.OffPeakStart,
			OffPeakEnd:   cfg.OffPeakEnd,
			PeakStart:    cfg.PeakStart,
			PeakEnd:      cfg.PeakEnd,
		},
		cfg.AdmissionWorkers,
	)

	gymHandler := gym.NewHandler(gym.NewService(gymRepo))
	planHandler := plan.NewHandler(planRepo)
	rateHandler := cutrate.NewHandler(cutrate.NewRateService(planRepo, ruleRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, gymRepo, membershipRepo, notifier))
	membershipHandler := membership.NewHandler(membershipRepo, planRepo)
	earningsHandler := earnings.NewHandler(earningsService)
	withdrawalHandler := withdrawal.NewHandler(withdrawalService)
	admissionHandler := admission.NewHandler(admissionService)

	limiter := RateLimitMiddleware(NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute))
	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)

	members := router.Group("/")
	members.Use(authMiddleware, limiter)
	{
		members.POST("/slots/:slotID/book", bookingHandler.RequestSlot)
	}

	owner := router.Group("/owner")
	owner.Use(authMiddleware, auth.RequireRole(auth.RoleOwner), limiter)
	{
		owner.GET("/plans", planHandler.ListPlans)
		owner.POST("/plans", planHandler.CreatePlan)
		owner.GET("/plans/:planID/rate", rateHandler.GetPlanRate)

		owner.GET("/slots", gymHandler.ListTimeSlots)
		owner.PUT("/slots/:slotID/maintenance", gymHandler.SetMaintenance)

		owner.GET("/bookings", bookingHandler.ListGymBookings)
		owner.POST("/bookings/:bookingID/accept", bookingHandler.AcceptBooking)
		owner.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)
		owner.POST("/sessions/:bookingID/complete", earningsHandler.CompleteSession)

		owner.GET("/earnings", earningsHandler.GetSummary)
		owner.GET("/earnings/daily", earningsHandler.GetDaily)

		owner.GET("/balance", withdrawalHandler.GetBalance)
		owner.GET("/withdrawals", withdrawalHandler.ListWithdrawals)
		owner.POST("/withdrawals", withdrawalHandler.RequestWithdrawal)
		owner.GET("/payout-methods", withdrawalHandler.ListMethods)
		owner.POST("/payout-methods", withdrawalHandler.AddMethod)

		owner.GET("/admission/rules", admissionHandler.GetRules)
		owner.PUT("/admission/rules", admissionHandler.SaveRules)
		owner.POST("/admission/evaluate", admissionHandler.Evaluate)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/gyms", gymHandler.CreateGym)
		admin.POST("/gyms/:gymID/slots", gymHandler.CreateTimeSlot)
		admin.POST("/memberships", membershipHandler.Sell)
		admin.POST("/cut-rules/tier", rateHandler.CreateTierDurationRule)
		admin.POST("/cut-rules/price-range", rateHandler.CreatePriceRangeRule)
		admin.POST("/withdrawals/:id/complete", withdrawalHandler.Complete)
		admin.POST("/withdrawals/:id/fail", withdrawalHandler.Fail)
	}

	router.GET("/health", Health(db, notifier))
	router.GET("/livez", Live)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		admission: admissionService,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving on the configured port until Shutdown is called, in
// which case it returns nil.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// RunAdmission evaluates pending bookings for every gym on each interval
// until ctx is cancelled.
func (s *Server) RunAdmission(ctx context.Context, interval time.Duration) {
	s.admission.Run(ctx, interval)
}

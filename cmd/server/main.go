package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/spf-lend/backend/internal/application/identity"
	lendingapp "github.com/spf-lend/backend/internal/application/lending"
	notificationapp "github.com/spf-lend/backend/internal/application/notification"
	reportapp "github.com/spf-lend/backend/internal/application/report"
	settingsapp "github.com/spf-lend/backend/internal/application/settings"
	"github.com/spf-lend/backend/internal/infrastructure/auth"
	"github.com/spf-lend/backend/internal/infrastructure/cache"
	"github.com/spf-lend/backend/internal/infrastructure/config"
	"github.com/spf-lend/backend/internal/infrastructure/logger"
	"github.com/spf-lend/backend/internal/infrastructure/messaging"
	"github.com/spf-lend/backend/internal/infrastructure/persistence"
	"github.com/spf-lend/backend/internal/infrastructure/scheduler"
	"github.com/spf-lend/backend/internal/interfaces/http/handler"
	"github.com/spf-lend/backend/internal/interfaces/http/middleware"
	"github.com/spf-lend/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	permRepo := persistence.NewGormPermissionRepository(db.DB)
	borrowerRepo := persistence.NewGormBorrowerRepository(db.DB)
	loanRepo := persistence.NewGormLoanRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	penaltyRepo := persistence.NewGormPenaltyRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)
	tm := persistence.NewGormTransactionManager(db.DB)

	// The accrual run lock prefers Redis so multiple instances never double
	// charge; a single instance falls back to an in-process lock.
	var runLock lendingapp.RunLock
	var authLimiter middleware.RateLimiter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-process run lock and rate limiter", zap.Error(err))
		runLock = cache.NewInMemoryRunLock()
		authLimiter = cache.NewInMemoryRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	} else {
		defer redisClient.Close() //nolint:errcheck
		runLock = cache.NewRedisRunLock(redisClient)
		authLimiter = cache.NewRedisRateLimiter(redisClient, cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	}
	if !cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = nil
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	hasher := auth.NewPasswordHasher()
	messenger := messaging.NewMessenger(cfg.Mail, cfg.WhatsApp, log)

	// Application services
	authService := identityapp.NewAuthService(userRepo, permRepo, jwtService, hasher, log)
	userService := identityapp.NewUserService(userRepo, permRepo, hasher, log)
	borrowerService := lendingapp.NewBorrowerService(tm, borrowerRepo, log)
	ledgerService := lendingapp.NewLedgerService(tm, loanRepo, log)
	loanService := lendingapp.NewLoanService(tm, loanRepo, ledgerService, notificationRepo, log)
	paymentService := lendingapp.NewPaymentService(tm, notificationRepo, log)
	penaltyService := lendingapp.NewPenaltyService(tm, log)
	topupService := lendingapp.NewTopupService(tm, log)
	accrualService := lendingapp.NewAccrualService(tm, loanRepo, paymentRepo, settingRepo, notificationRepo, runLock, log)
	reminderService := lendingapp.NewReminderService(loanRepo, paymentRepo, borrowerRepo, settingRepo, notificationRepo, messenger, log)
	dispatchService := notificationapp.NewDispatchService(penaltyRepo, loanRepo, borrowerRepo, messenger, log)
	feedService := notificationapp.NewFeedService(notificationRepo)
	settingsService := settingsapp.NewService(settingRepo, auditRepo, log)
	dashboardService := reportapp.NewDashboardService(dashboardRepo, ledgerService, notificationRepo, log)

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 30*time.Second)
	err = userService.Bootstrap(bootstrapCtx,
		cfg.Bootstrap.SuperAdminUsername,
		cfg.Bootstrap.SuperAdminEmail,
		cfg.Bootstrap.SuperAdminPassword)
	cancelBootstrap()
	if err != nil {
		return err
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine := router.New(router.Config{
		JWTService:    jwtService,
		CORS:          corsCfg,
		Logger:        log,
		AuthRateLimit: authLimiter,
		Handlers: router.Handlers{
			System:       handler.NewSystemHandler(version),
			Auth:         handler.NewAuthHandler(authService),
			User:         handler.NewUserHandler(userService),
			Borrower:     handler.NewBorrowerHandler(borrowerService),
			Loan:         handler.NewLoanHandler(loanService, ledgerService),
			Payment:      handler.NewPaymentHandler(paymentService),
			Penalty:      handler.NewPenaltyHandler(penaltyService),
			Topup:        handler.NewTopupHandler(topupService),
			Settings:     handler.NewSettingsHandler(settingsService),
			Notification: handler.NewNotificationHandler(feedService),
			Dashboard:    handler.NewDashboardHandler(dashboardService),
		},
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return err
		}
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(cfg.Scheduler, accrualService, reminderService, dispatchService, log)
		if err := sched.Start(context.Background()); err != nil {
			return err
		}
	} else {
		log.Warn("Scheduler disabled; penalties, reminders and notices will not run")
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler stop failed", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}

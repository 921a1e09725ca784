package router

import (
	"github.com/gin-gonic/gin"
	"github.com/spf-lend/backend/internal/domain/identity"
	"github.com/spf-lend/backend/internal/infrastructure/auth"
	"github.com/spf-lend/backend/internal/infrastructure/logger"
	"github.com/spf-lend/backend/internal/interfaces/http/dto"
	"github.com/spf-lend/backend/internal/interfaces/http/handler"
	"github.com/spf-lend/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles every handler the router wires up
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Borrower     *handler.BorrowerHandler
	Loan         *handler.LoanHandler
	Payment      *handler.PaymentHandler
	Penalty      *handler.PenaltyHandler
	Topup        *handler.TopupHandler
	Settings     *handler.SettingsHandler
	Notification *handler.NotificationHandler
	Dashboard    *handler.DashboardHandler
}

// Config holds router dependencies
type Config struct {
	JWTService *auth.JWTService
	CORS       middleware.CORSConfig
	Logger     *zap.Logger
	Handlers   Handlers

	// AuthRateLimit throttles the credential endpoints when set
	AuthRateLimit middleware.RateLimiter
}

// New builds the gin engine with the full API surface under /api/v1
func New(cfg Config) *gin.Engine {
	dto.RegisterValidations()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.RequestLogger(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.Secure(),
	)

	h := cfg.Handlers

	engine.GET("/health", h.System.Health)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: cfg.JWTService,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: cfg.Logger,
	}))

	api.GET("/health", h.System.Health)

	authGroup := api.Group("/auth")
	{
		if cfg.AuthRateLimit != nil {
			throttle := middleware.RateLimit(cfg.AuthRateLimit, cfg.Logger)
			authGroup.POST("/login", throttle, h.Auth.Login)
			authGroup.POST("/refresh", throttle, h.Auth.Refresh)
		} else {
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
		}
		authGroup.GET("/me", h.Auth.Me)
		authGroup.POST("/change-password", h.Auth.ChangePassword)
	}

	users := api.Group("/users")
	{
		users.GET("", middleware.RequirePermission(identity.PermUsersView), h.User.List)
		users.POST("", middleware.RequireRole(identity.RoleSuperAdmin, identity.RoleAdmin), h.User.Create)
		users.PUT("/:id/role", middleware.RequirePermission(identity.PermUsersManageRole), h.User.ChangeRole)
		users.PUT("/:id/active", middleware.RequirePermission(identity.PermUsersManageStatus), h.User.SetActive)
		users.DELETE("/:id", middleware.RequirePermission(identity.PermUsersDelete), h.User.Delete)
	}

	api.GET("/permissions", middleware.RequirePermission(identity.PermUsersView), h.User.Permissions)
	roles := api.Group("/roles", middleware.RequireRole(identity.RoleSuperAdmin, identity.RoleAdmin))
	{
		roles.GET("/:role/permissions", h.User.RoleGrants)
		roles.POST("/:role/permissions", h.User.Grant)
		roles.DELETE("/:role/permissions", h.User.Revoke)
	}

	borrowers := api.Group("/borrowers")
	{
		borrowers.GET("", middleware.RequirePermission(identity.PermBorrowerView), h.Borrower.List)
		borrowers.POST("", middleware.RequirePermission(identity.PermBorrowerCreate), h.Borrower.Create)
		borrowers.GET("/:id", middleware.RequirePermission(identity.PermBorrowerView), h.Borrower.Get)
		borrowers.PUT("/:id", middleware.RequirePermission(identity.PermBorrowerEdit), h.Borrower.Update)
		borrowers.POST("/:id/disable", middleware.RequirePermission(identity.PermBorrowerEdit), h.Borrower.Disable)
		borrowers.POST("/:id/enable", middleware.RequirePermission(identity.PermBorrowerEdit), h.Borrower.Enable)
		borrowers.DELETE("/:id", middleware.RequirePermission(identity.PermBorrowerDelete), h.Borrower.Delete)
	}

	loans := api.Group("/loans")
	{
		loans.GET("", middleware.RequirePermission(identity.PermLoanView), h.Loan.List)
		loans.POST("", middleware.RequirePermission(identity.PermLoanCreate), h.Loan.Create)
		loans.GET("/:id", middleware.RequirePermission(identity.PermLoanView), h.Loan.Get)
		loans.PUT("/:id", middleware.RequirePermission(identity.PermLoanEdit), h.Loan.Update)
		loans.DELETE("/:id", middleware.RequirePermission(identity.PermLoanDelete), h.Loan.Delete)
		loans.POST("/:id/write-off", middleware.RequirePermission(identity.PermLoanApprove), h.Loan.WriteOff)
		loans.POST("/:id/recalculate", middleware.RequirePermission(identity.PermLoanEdit), h.Loan.Recalculate)

		loans.GET("/:id/payments", middleware.RequirePermission(identity.PermPaymentView), h.Payment.List)
		loans.POST("/:id/payments", middleware.RequirePermission(identity.PermPaymentCreate), h.Payment.Record)
		loans.GET("/:id/penalties", middleware.RequirePermission(identity.PermPaymentView), h.Penalty.List)
		loans.POST("/:id/penalties", middleware.RequirePermission(identity.PermPaymentCreate), h.Penalty.Create)
		loans.GET("/:id/topups", middleware.RequirePermission(identity.PermLoanView), h.Topup.List)
		loans.POST("/:id/topups", middleware.RequirePermission(identity.PermLoanEdit), h.Topup.Create)
	}

	payments := api.Group("/payments")
	{
		payments.PUT("/:id", middleware.RequirePermission(identity.PermPaymentEdit), h.Payment.Update)
		payments.DELETE("/:id", middleware.RequirePermission(identity.PermPaymentDelete), h.Payment.Delete)
	}

	penalties := api.Group("/penalties")
	{
		penalties.PUT("/:id", middleware.RequirePermission(identity.PermPaymentEdit), h.Penalty.Update)
		penalties.DELETE("/:id", middleware.RequirePermission(identity.PermPaymentDelete), h.Penalty.Delete)
	}

	topups := api.Group("/topups")
	{
		topups.PUT("/:id", middleware.RequirePermission(identity.PermLoanEdit), h.Topup.Update)
		topups.DELETE("/:id", middleware.RequirePermission(identity.PermLoanEdit), h.Topup.Delete)
	}

	trash := api.Group("/trash")
	{
		trash.GET("/loans", middleware.RequirePermission(identity.PermTrashView), h.Loan.ListTrash)
		trash.POST("/loans/:id/restore", middleware.RequirePermission(identity.PermTrashRestore), h.Loan.Restore)
		trash.DELETE("/loans/:id", middleware.RequirePermission(identity.PermTrashPurge), h.Loan.Purge)
		trash.GET("/borrowers", middleware.RequirePermission(identity.PermTrashView), h.Borrower.ListTrash)
		trash.POST("/borrowers/:id/restore", middleware.RequirePermission(identity.PermTrashRestore), h.Borrower.Enable)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", middleware.RequirePermission(identity.PermSettingsView), h.Settings.List)
		settings.GET("/:key", middleware.RequirePermission(identity.PermSettingsView), h.Settings.Get)
		settings.PUT("/:key", middleware.RequirePermission(identity.PermSettingsEdit), h.Settings.Update)
	}

	notifications := api.Group("/notifications", middleware.RequirePermission(identity.PermNotificationView))
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.POST("/:id/read", h.Notification.MarkRead)
		notifications.POST("/read-all", h.Notification.MarkAllRead)
	}

	api.GET("/dashboard", middleware.RequirePermission(identity.PermReportsView), h.Dashboard.Get)

	return engine
}

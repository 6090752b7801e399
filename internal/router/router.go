package router

import (
	"net/http"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/handler"
	"github.com/aeroprep/aeroprep-backend/internal/metrics"
	"github.com/aeroprep/aeroprep-backend/internal/middleware"
	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/response"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Question    *handler.QuestionHandler
	Exam        *handler.ExamHandler
	Session     *handler.SessionHandler
	Stats       *handler.StatsHandler
	Certificate *handler.CertificateHandler
	UserMgmt    *handler.UserManagementHandler
	Dashboard   *handler.DashboardHandler
	WS          *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// A configured allowlist restricts origins; empty allows all so dev
	// works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so every response carries metadata, then metrics and
	// compression globally.
	router.Use(response.RequestIDMiddleware())
	router.Use(metrics.Middleware())
	router.Use(middleware.Brotli())

	// Health check and Prometheus scrape.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	// Rate limiter for the public surface (30 requests per minute per IP).
	publicLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 0. Public Group (No Auth, Rate Limited) ───────────────────────
	publicAPI := router.Group("/api/v1/public")
	publicAPI.Use(publicLimiter.Middleware())
	{
		publicAPI.POST("/certificates/verify", handlers.Certificate.Verify)
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(publicLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/user/login", handlers.Auth.UserLogin)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)

		auth.POST("/user/logout", middleware.RequireUserJWT(authService), handlers.Auth.UserLogout)
		auth.GET("/user/me", middleware.RequireUserJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. User Group (JWT + Single Device) ───────────────────────────
	userAPI := router.Group("/api/v1/user")
	userAPI.Use(
		middleware.RequireUserJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		userAPI.GET("/questions", handlers.Question.FetchForUser)
		userAPI.GET("/exams", handlers.Exam.List)

		userAPI.POST("/sessions", handlers.Session.Start)
		userAPI.GET("/sessions/:id", handlers.Session.State)
		userAPI.POST("/sessions/:id/answer", handlers.Session.Answer)
		userAPI.POST("/sessions/:id/submit", handlers.Session.Submit)

		userAPI.GET("/stats", handlers.Stats.Stats)
		userAPI.GET("/leaderboard", middleware.CacheControl(30), handlers.Stats.Leaderboard)
		userAPI.GET("/attempts", handlers.Stats.Attempts)
		userAPI.GET("/attempts/:id/certificate", handlers.Certificate.ForAttempt)
	}

	// ─── 3. WebSocket Group (User WS Auth) ─────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/user/sessions/:id/stream", handlers.WS.SessionStream)
	}

	// ─── 4. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Question bank
		adminAPI.GET("/questions",
			middleware.RequirePermission(model.PermissionQuestionsRead),
			handlers.Question.List,
		)
		adminAPI.GET("/questions/:id",
			middleware.RequirePermission(model.PermissionQuestionsRead),
			handlers.Question.Get,
		)
		adminAPI.POST("/questions",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.Create,
		)
		adminAPI.PUT("/questions/:id",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.Update,
		)
		adminAPI.DELETE("/questions/:id",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.Delete,
		)

		// Curated exams
		adminAPI.GET("/exams",
			middleware.RequirePermission(model.PermissionExamsRead),
			handlers.Exam.List,
		)
		adminAPI.GET("/exams/:id",
			middleware.RequirePermission(model.PermissionExamsRead),
			handlers.Exam.Get,
		)
		adminAPI.GET("/exams/:id/questions",
			middleware.RequirePermission(model.PermissionExamsRead),
			handlers.Exam.Questions,
		)
		adminAPI.POST("/exams",
			middleware.RequirePermission(model.PermissionExamsWrite),
			handlers.Exam.Create,
		)
		adminAPI.PUT("/exams/:id",
			middleware.RequirePermission(model.PermissionExamsWrite),
			handlers.Exam.Update,
		)
		adminAPI.PUT("/exams/:id/questions",
			middleware.RequirePermission(model.PermissionExamsWrite),
			handlers.Exam.ReplaceQuestions,
		)
		adminAPI.DELETE("/exams/:id",
			middleware.RequirePermission(model.PermissionExamsWrite),
			handlers.Exam.Delete,
		)

		// User management
		adminAPI.GET("/users",
			middleware.RequirePermission(model.PermissionUsersRead),
			handlers.UserMgmt.List,
		)
		adminAPI.POST("/users",
			middleware.RequirePermission(model.PermissionUsersWrite),
			handlers.UserMgmt.Create,
		)
		adminAPI.DELETE("/users/:id",
			middleware.RequirePermission(model.PermissionUsersWrite),
			handlers.UserMgmt.Delete,
		)
		adminAPI.POST("/users/:id/reset-session",
			middleware.RequirePermission(model.PermissionUsersWrite),
			handlers.UserMgmt.ResetSession,
		)

		// Dashboard
		adminAPI.GET("/dashboard",
			middleware.RequirePermission(model.PermissionStatsRead),
			handlers.Dashboard.Summary,
		)
	}

	return router
}

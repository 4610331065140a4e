package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"vantahire/internal/config"
	"vantahire/internal/domain"
	"vantahire/internal/middleware"
	"vantahire/internal/security"
	"vantahire/internal/service"
)

type Services struct {
	Auth         domain.AuthenticationService
	Jobs         service.JobService
	Applications service.ApplicationService
	Users        service.UserService
	AI           service.AIService
	Contact      service.ContactService
	Export       service.ExportService
}

// userKey rate limits authenticated callers by user and falls back to the client IP.
func userKey(c *gin.Context) string {
	if info, ok := middleware.CurrentUser(c); ok {
		return "user:" + strconv.FormatInt(info.UserID, 10)
	}
	return "ip:" + c.ClientIP()
}

// NewRouter wires every API route. A nil redis client disables rate limiting.
func NewRouter(cfg *config.Config, redisClient *redis.Client, svc Services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	router.Use(middleware.CORS(cfg.FrontendURL))

	limit := func(name string, n int, window time.Duration, key func(*gin.Context) string, msg string) gin.HandlerFunc {
		if redisClient == nil || n <= 0 {
			return func(c *gin.Context) { c.Next() }
		}
		return security.NewRateLimiter(security.RateLimiterConfig{
			Redis:    redisClient,
			Name:     name,
			Limit:    n,
			Interval: window,
			KeyFunc:  key,
			Message:  msg,
		}).GinMiddleware()
	}
	applyLimit := limit("applications", cfg.RateLimit.ApplicationsPerHour, time.Hour, nil,
		"Too many applications submitted. Please try again later.")
	jobPostLimit := limit("job_posts", cfg.RateLimit.JobPostsPerDay, 24*time.Hour, userKey,
		"Job posting limit reached. Please try again tomorrow.")
	aiLimit := limit("ai", cfg.RateLimit.AIRequestsPerHour, time.Hour, userKey,
		"AI analysis limit reached. Please try again later.")

	authHandler := NewAuthHandler(svc.Auth, cfg)
	jobHandler := NewJobHandler(svc.Jobs)
	appHandler := NewApplicationHandler(svc.Applications)
	adminHandler := NewAdminHandler(svc.Users)
	aiHandler := NewAIHandler(svc.AI)
	siteHandler := NewSiteHandler(svc.Contact, svc.Export, cfg.ApolloAppID)

	requireAuth := middleware.AuthMiddleware(svc.Auth)
	optionalAuth := middleware.OptionalAuth(svc.Auth)
	posters := middleware.RequireRole(domain.RoleRecruiter, domain.RoleAdmin)
	admins := middleware.RequireRole(domain.RoleAdmin)

	api := router.Group("/api")
	{
		api.GET("/health", siteHandler.Health)
		api.GET("/client-config", siteHandler.ClientConfig)
		api.GET("/features/ai", aiHandler.Features)
		api.POST("/contact", siteHandler.Contact)

		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", optionalAuth, authHandler.Logout)
		api.POST("/refresh", authHandler.RefreshToken)
		api.GET("/user", requireAuth, authHandler.CurrentUser)

		jobs := api.Group("/jobs")
		{
			jobs.GET("", jobHandler.ListJobs)
			jobs.GET("/:id", optionalAuth, jobHandler.GetJob)
			jobs.POST("", requireAuth, posters, jobPostLimit, jobHandler.CreateJob)
			jobs.PATCH("/:id/status", requireAuth, posters, jobHandler.SetActive)
			jobs.POST("/:id/applications", applyLimit, appHandler.Apply)
			jobs.POST("/:id/apply", applyLimit, appHandler.Apply)
			jobs.GET("/:id/applications", requireAuth, posters, appHandler.ListForJob)
		}

		api.GET("/my-jobs", requireAuth, posters, jobHandler.ListMyJobs)
		api.GET("/my-applications", requireAuth, appHandler.ListMine)
		api.PATCH("/applications/:id/status", requireAuth, posters, appHandler.UpdateStatus)
		api.GET("/analytics/export", requireAuth, posters, siteHandler.ExportAnalytics)

		aiRoutes := api.Group("/ai", requireAuth, posters, aiLimit)
		{
			aiRoutes.POST("/analyze-job-description", aiHandler.AnalyzeJobDescription)
			aiRoutes.POST("/score-job", aiHandler.ScoreJob)
		}

		admin := api.Group("/admin", requireAuth, admins)
		{
			admin.GET("/stats", jobHandler.AdminStats)
			admin.GET("/jobs", jobHandler.AdminListJobs)
			admin.PATCH("/jobs/:id/review", jobHandler.ReviewJob)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id/role", adminHandler.UpdateRole)
		}
	}

	return router
}

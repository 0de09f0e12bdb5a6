package app

import (
	"skillkart_backend/docs"
	"skillkart_backend/internal/config"
	"skillkart_backend/internal/middleware"
	"skillkart_backend/internal/model"
	"skillkart_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)

		// 3. 管理员相关接口
		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("/badges", c.badge.CreateBadge)
			admin.POST("/badges/:id/image", c.badge.UploadBadgeImage)
		}
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	// 用户
	rg.GET("/profile", c.user.GetProfile)
	rg.PUT("/user/avatar", c.user.UpdateAvatar)
	rg.PUT("/user/display-name", c.user.UpdateDisplayName)
	rg.GET("/user/profile", c.profile.GetProfile)
	rg.PUT("/user/profile", c.profile.SaveProfile)

	rg.GET("/dashboard", c.dashboard.GetDashboard)

	// 学习路线
	roadmaps := rg.Group("/roadmaps")
	{
		roadmaps.GET("", c.roadmap.ListRoadmaps)
		roadmaps.POST("", c.roadmap.CreateRoadmap)
		roadmaps.GET("/catalog", c.roadmap.Catalog)
		roadmaps.GET("/recommended", c.roadmap.Recommended)
		roadmaps.GET("/:id", c.roadmap.GetRoadmap)
		roadmaps.POST("/:id/enroll", c.roadmap.Enroll)
		roadmaps.PATCH("/:id/weeks/:weekId/steps/:stepId/resources/:resourceId", c.roadmap.CompleteResource)
	}

	// 徽章与排行
	rg.GET("/badges", c.badge.ListBadges)
	rg.GET("/badges/me", c.badge.MyBadges)
	rg.GET("/leaderboard", c.badge.Leaderboard)

	// 社交
	rg.GET("/users/:id", c.user.GetUser)
	rg.POST("/users/:id/follow", c.follow.Follow)
	rg.DELETE("/users/:id/follow", c.follow.Unfollow)
	rg.GET("/users/:id/follow-stats", c.follow.Stats)
}

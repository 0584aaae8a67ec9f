package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"corpsite/config"
	"corpsite/internal/cache"
	"corpsite/internal/domain"
	"corpsite/internal/handler"
	"corpsite/internal/middleware"
	"corpsite/internal/models"
	"corpsite/internal/observability"
	"corpsite/internal/repository"
	"corpsite/internal/service"
	"corpsite/internal/ws"
	"corpsite/pkg/cloudinary"
	"corpsite/pkg/mailer"
)

// Deps are the outside resources the HTTP stack runs on. Optional ones may
// be nil: Cache, Cloud, Videos, Push, Metrics.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Cache   cache.Store
	Cloud   cloudinary.Client
	Videos  service.VideoLookup
	Mail    mailer.Sender
	Push    service.Pusher
	Hub     *ws.Hub
	Metrics *prometheus.Registry
	Logger  zerolog.Logger
}

func Setup(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if d.Cache == nil {
		d.Cache = cache.NopStore{}
	}
	if d.Mail == nil {
		d.Mail = mailer.LogMailer{}
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(d.Logger), middleware.Recovery(), corsMiddleware(cfg.Server.AllowedOrigins))

	// Repositories
	userRepo := repository.NewUserRepository(d.DB)
	auditRepo := repository.NewAuditLogRepository(d.DB)
	settingRepo := repository.NewSettingRepository(d.DB)
	notificationRepo := repository.NewNotificationRepository(d.DB)
	blogRepo := repository.NewBlogRepository(d.DB)
	viewRepo := repository.NewBlogViewRepository(d.DB)
	serviceRepo := repository.NewServiceRepository(d.DB)
	employeeRepo := repository.NewEmployeeRepository(d.DB)
	testimonialRepo := repository.NewTestimonialRepository(d.DB)
	branchRepo := repository.NewBranchRepository(d.DB)
	sliderRepo := repository.NewSliderRepository(d.DB)
	statisticRepo := repository.NewStatisticRepository(d.DB)
	mediaRepo := repository.NewYoutubeMediaRepository(d.DB)
	contactRepo := repository.NewContactRepository(d.DB)
	dashboardRepo := repository.NewDashboardRepository(d.DB)

	// Services
	var feed service.Feed
	if d.Hub != nil {
		feed = d.Hub
	}
	pub := service.NewPublisher(d.Cache, auditRepo, feed)
	authSvc := service.NewAuthService(cfg, userRepo)
	userSvc := service.NewUserService(userRepo, pub)
	settingsSvc := service.NewSettingsService(settingRepo, pub)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, d.Push, feed)
	publicSvc := service.NewPublicService(service.PublicRepos{
		Blogs:        blogRepo,
		Views:        viewRepo,
		Services:     serviceRepo,
		Employees:    employeeRepo,
		Testimonials: testimonialRepo,
		Branches:     branchRepo,
		Sliders:      sliderRepo,
		Statistics:   statisticRepo,
		Media:        mediaRepo,
		Settings:     settingRepo,
	})
	contactSvc := service.NewContactService(contactRepo, serviceRepo, settingsSvc, d.Mail, notifSvc, pub, service.ContactSettings{
		SiteName:        cfg.Site.Name,
		SiteURL:         cfg.Site.BaseURL,
		AdminURL:        adminURL(cfg.Site.BaseURL),
		AdminRecipients: cfg.Mail.AdminRecipients,
	})
	dashboardSvc := service.NewDashboardService(dashboardRepo, viewRepo, contactRepo, blogRepo, auditRepo)
	uploadSvc := service.NewUploadService(d.Cloud, cfg.Cloudinary.Folder, pub)

	// Handlers
	publicHandler := handler.NewPublicHandler(publicSvc, settingsSvc, handler.NewPageCache(d.Cache, cfg.Redis.PageTTL))
	contactHandler := handler.NewContactHandler(contactSvc)
	authHandler := handler.NewAuthHandler(authSvc, pub)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(&cfg.OAuth, authSvc, authHandler)
	userHandler := handler.NewUserHandler(userSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, pub)
	notificationHandler := handler.NewNotificationHandler(notifSvc)
	uploadHandler := handler.NewUploadHandler(uploadSvc)
	mediaHandler := handler.NewMediaHandler(service.NewMediaService(mediaRepo, d.Videos, pub))
	blogHandler := handler.NewContentHandler[models.Blog, service.BlogInput](service.NewBlogService(blogRepo, pub))
	servicesHandler := handler.NewContentHandler[models.Service, service.ServiceInput](service.NewServicesService(serviceRepo, pub))
	employeeHandler := handler.NewContentHandler[models.Employee, service.EmployeeInput](service.NewEmployeeService(employeeRepo, pub))
	testimonialHandler := handler.NewContentHandler[models.Testimonial, service.TestimonialInput](service.NewTestimonialService(testimonialRepo, pub))
	branchHandler := handler.NewContentHandler[models.Branch, service.BranchInput](service.NewBranchService(branchRepo, pub))
	sliderHandler := handler.NewContentHandler[models.Slider, service.SliderInput](service.NewSliderService(sliderRepo, pub))
	statisticHandler := handler.NewContentHandler[models.Statistic, service.StatisticInput](service.NewStatisticService(statisticRepo, pub))

	authMw := middleware.AuthRequired(&cfg.JWT)
	staffMw := middleware.RequireRole(domain.RoleAdmin, domain.RoleEditor)
	adminMw := middleware.RequireRole(domain.RoleAdmin)

	r.GET("/healthz", health(d.DB))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(observability.MetricsHandler(d.Metrics)))
	}
	if d.Hub != nil {
		r.GET("/ws/admin", ws.AdminFeed(&cfg.JWT, d.Hub, cfg.Server.AllowedOrigins))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)))
	{
		site := api.Group("/:locale")
		site.Use(middleware.Locale(), middleware.Maintenance(settingsSvc, &cfg.JWT))
		{
			site.GET("/home", publicHandler.Home)
			site.GET("/blogs", publicHandler.Blogs)
			site.GET("/blogs/:slug", publicHandler.Blog)
			site.GET("/blogs/:slug/related", publicHandler.RelatedBlogs)
			site.POST("/blogs/:slug/view", publicHandler.RecordView)
			site.GET("/services", publicHandler.Services)
			site.GET("/services/:slug", publicHandler.Service)
			site.GET("/employees", publicHandler.Employees)
			site.GET("/testimonials", publicHandler.Testimonials)
			site.GET("/branches", publicHandler.Branches)
			site.GET("/sliders", publicHandler.Sliders)
			site.GET("/statistics", publicHandler.Statistics)
			site.GET("/media", publicHandler.Media)
			site.GET("/settings/public", publicHandler.Settings)
			site.POST("/contact", middleware.RateLimit(middleware.NewPerHourLimiter(cfg.Server.ContactPerHour)), contactHandler.Submit)
		}

		authGroup := api.Group("/admin/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		staff := api.Group("/admin")
		staff.Use(authMw, staffMw)
		{
			staff.GET("/me", authHandler.Me)
			staff.PUT("/me/password", authHandler.ChangePassword)
			staff.PUT("/me/fcm-token", authHandler.SetFCMToken)

			blogHandler.Register(staff.Group("/blogs"))
			servicesHandler.Register(staff.Group("/services"))
			employeeHandler.Register(staff.Group("/employees"))
			testimonialHandler.Register(staff.Group("/testimonials"))
			branchHandler.Register(staff.Group("/branches"))
			sliderHandler.Register(staff.Group("/sliders"))
			statisticHandler.Register(staff.Group("/statistics"))
			mediaHandler.Register(staff.Group("/media"))

			staff.GET("/contact-messages", contactHandler.List)
			staff.GET("/contact-messages/:id", contactHandler.Get)
			staff.PATCH("/contact-messages/:id/status", contactHandler.SetStatus)
			staff.DELETE("/contact-messages/:id", contactHandler.Delete)

			staff.POST("/uploads/image", uploadHandler.UploadImage)
			staff.DELETE("/uploads/image", uploadHandler.DeleteImage)

			staff.GET("/dashboard", dashboardHandler.Stats)
			staff.GET("/dashboard/analytics", dashboardHandler.Analytics)
			staff.POST("/revalidate", dashboardHandler.Revalidate)

			staff.GET("/notifications", notificationHandler.List)
			staff.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
			staff.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		}

		admins := api.Group("/admin")
		admins.Use(authMw, adminMw)
		{
			admins.GET("/settings", settingsHandler.Get)
			admins.PUT("/settings", settingsHandler.Update)
			admins.GET("/audit-logs", dashboardHandler.AuditLog)
			admins.GET("/users", userHandler.List)
			admins.POST("/users", userHandler.Create)
			admins.GET("/users/:id", userHandler.Get)
			admins.PUT("/users/:id", userHandler.Update)
			admins.DELETE("/users/:id", userHandler.Delete)
		}
	}
	r.NoRoute(middleware.LocaleFallback())

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Cache", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = origins
	}
	return cors.New(c)
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func adminURL(base string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/admin"
}

// Package router wires middleware and routes onto the gin engine.
package router

import (
	"fmt"
	"strings"

	"github.com/stagelight/boxoffice/internal/cache"
	"github.com/stagelight/boxoffice/internal/config"
	adminhandlers "github.com/stagelight/boxoffice/internal/http/handlers/admin"
	publichandlers "github.com/stagelight/boxoffice/internal/http/handlers/public"
	"github.com/stagelight/boxoffice/internal/logger"
	"github.com/stagelight/boxoffice/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the engine with all public and admin routes.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.Z()
	gin.SetMode(resolveGinMode(cfg.Server.Mode))
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bo"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}
	verifyRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:verify", redisPrefix),
		WindowSeconds: cfg.Security.VerifyRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.VerifyRateLimit.MaxAttempts,
		Message:       "too many verification attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// Uploaded images are served straight from disk.
	uploadDir := strings.TrimSpace(cfg.Upload.Dir)
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.Static("/uploads", uploadDir)

	api := r.Group("/api/v1")
	{
		public := api.Group("/public")
		{
			public.GET("/events", publicHandler.GetEvents)
			public.GET("/events/:id", publicHandler.GetEvent)
			public.GET("/gallery", publicHandler.GetGalleryImages)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.POST("/tickets/purchase", publicHandler.Purchase)
			public.GET("/tickets/confirmation/:code", publicHandler.GetTicketByConfirmationCode)
			public.GET("/tickets/confirmation/:code/document", publicHandler.GetTicketDocumentByConfirmationCode)
			public.POST("/messages", publicHandler.SubmitMessage)
			public.POST("/school-applications", publicHandler.SubmitSchoolApplication)
		}

		api.POST("/payments/webhook/stripe", publicHandler.StripeWebhook)

		admin := api.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIP), adminHandler.AdminLogin)

			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)
				authorized.GET("/dashboard", adminHandler.GetDashboardStats)

				authorized.GET("/events", adminHandler.GetAdminEvents)
				authorized.GET("/events/:id", adminHandler.GetAdminEvent)
				authorized.GET("/events/:id/stats", adminHandler.GetEventStats)
				authorized.POST("/events", adminHandler.CreateEvent)
				authorized.PUT("/events/:id", adminHandler.UpdateEvent)
				authorized.DELETE("/events/:id", adminHandler.DeleteEvent)

				authorized.POST("/tickets/batch", adminHandler.IssueTicketBatch)
				authorized.POST("/cards/batch", adminHandler.IssueInvitationBatch)
				authorized.GET("/batches", adminHandler.GetBatches)
				authorized.GET("/batches/:id", adminHandler.GetBatch)
				authorized.GET("/batches/:id/document", adminHandler.GetBatchDocument)
				authorized.PUT("/batches/:id/active", adminHandler.SetBatchActive)

				authorized.GET("/tickets", adminHandler.GetTickets)
				authorized.GET("/tickets/:id", adminHandler.GetTicket)
				authorized.GET("/tickets/:id/document", adminHandler.GetTicketDocument)
				authorized.PUT("/tickets/:id/buyer", adminHandler.UpdateTicketBuyer)
				authorized.DELETE("/tickets/:id", adminHandler.DeleteTicket)

				// The scanned payload rides in the wildcard so raw QR
				// contents need no client-side unwrapping.
				authorized.GET("/verify/*code", RateLimitMiddleware(redisClient, verifyRule, KeyByIP), adminHandler.VerifyScan)
				authorized.PUT("/verify/:id", adminHandler.SetTicketUsed)

				authorized.POST("/upload", adminHandler.UploadFile)
				authorized.POST("/gallery", adminHandler.UploadGalleryImage)
				authorized.GET("/gallery", adminHandler.GetAdminGalleryImages)
				authorized.PUT("/gallery/:id", adminHandler.UpdateGalleryImage)
				authorized.DELETE("/gallery/:id", adminHandler.DeleteGalleryImage)

				authorized.GET("/messages", adminHandler.GetMessages)
				authorized.GET("/messages/:id", adminHandler.GetMessage)
				authorized.DELETE("/messages/:id", adminHandler.DeleteMessage)

				authorized.GET("/school-applications", adminHandler.GetSchoolApplications)
				authorized.GET("/school-applications/:id", adminHandler.GetSchoolApplication)
				authorized.DELETE("/school-applications/:id", adminHandler.DeleteSchoolApplication)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

func resolveGinMode(mode string) string {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "debug":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}

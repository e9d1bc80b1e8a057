// Package provider wires repositories and services into one container
// shared by the HTTP router and the queue worker.
package provider

import (
	"time"

	"github.com/stagelight/boxoffice/internal/cache"
	"github.com/stagelight/boxoffice/internal/config"
	"github.com/stagelight/boxoffice/internal/document"
	"github.com/stagelight/boxoffice/internal/logger"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/payment/stripe"
	"github.com/stagelight/boxoffice/internal/queue"
	"github.com/stagelight/boxoffice/internal/repository"
	"github.com/stagelight/boxoffice/internal/service"
)

// Container is the dependency injection container.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo       repository.AdminRepository
	EventRepo       repository.EventRepository
	BatchRepo       repository.TicketBatchRepository
	TicketRepo      repository.TicketRepository
	PaymentRepo     repository.PaymentRepository
	GalleryRepo     repository.GalleryImageRepository
	MessageRepo     repository.MessageRepository
	ApplicationRepo repository.SchoolApplicationRepository
	DashboardRepo   repository.DashboardRepository

	// Services
	AuthService        *service.AuthService
	EventService       *service.EventService
	IssueService       *service.IssueService
	VerifyService      *service.VerifyService
	TicketService      *service.TicketService
	PurchaseService    *service.PurchaseService
	PaymentService     *service.PaymentService
	CaptchaService     *service.CaptchaService
	UploadService      *service.UploadService
	GalleryService     *service.GalleryService
	MessageService     *service.MessageService
	ApplicationService *service.SchoolApplicationService
	DashboardService   *service.DashboardService
}

// NewContainer builds the container from config and the shared DB.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.EventRepo = repository.NewEventRepository(db)
	c.BatchRepo = repository.NewTicketBatchRepository(db)
	c.TicketRepo = repository.NewTicketRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.GalleryRepo = repository.NewGalleryImageRepository(db)
	c.MessageRepo = repository.NewMessageRepository(db)
	c.ApplicationRepo = repository.NewSchoolApplicationRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	compositor := document.NewCompositor(document.NewAssetFetcher(5 * time.Second))

	var gateway *stripe.Client
	if c.Config.Payment.Enabled {
		client, err := stripe.NewClient(stripe.Config{
			SecretKey:     c.Config.Payment.SecretKey,
			WebhookSecret: c.Config.Payment.WebhookSecret,
			APIBaseURL:    c.Config.Payment.APIBaseURL,
			SuccessURL:    c.Config.Payment.SuccessURL,
			CancelURL:     c.Config.Payment.CancelURL,
		})
		if err != nil {
			logger.Errorw("provider_init_payment_gateway_failed", "error", err)
		} else {
			gateway = client
		}
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.EventService = service.NewEventService(c.EventRepo, c.TicketRepo)
	c.IssueService = service.NewIssueService(c.BatchRepo, c.TicketRepo, c.EventRepo, compositor, c.Config)
	c.VerifyService = service.NewVerifyService(c.TicketRepo, c.BatchRepo)
	c.TicketService = service.NewTicketService(c.TicketRepo, c.EventRepo, compositor, c.Config)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UploadService = service.NewUploadService(c.Config)
	c.GalleryService = service.NewGalleryService(c.GalleryRepo, c.UploadService)
	c.MessageService = service.NewMessageService(c.MessageRepo, c.CaptchaService)
	c.ApplicationService = service.NewSchoolApplicationService(c.ApplicationRepo, c.EventRepo, c.CaptchaService)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)

	var checkoutGateway service.CheckoutGateway
	var webhookVerifier service.WebhookVerifier
	if gateway != nil {
		checkoutGateway = gateway
		webhookVerifier = gateway
	}
	var enqueuer service.ExpireEnqueuer
	if c.QueueClient != nil {
		enqueuer = c.QueueClient
	}
	c.PurchaseService = service.NewPurchaseService(c.TicketRepo, c.PaymentRepo, c.EventRepo, checkoutGateway, enqueuer, c.Config)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.TicketRepo, webhookVerifier)
}

package provider

import (
	"github.com/liwu-next/internal/cache"
	"github.com/liwu-next/internal/config"
	"github.com/liwu-next/internal/logger"
	"github.com/liwu-next/internal/models"
	"github.com/liwu-next/internal/queue"
	"github.com/liwu-next/internal/repository"
	"github.com/liwu-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	SenderRepo           repository.SenderRepository
	GiftRepo             repository.GiftRepository
	MediaRefRepo         repository.MediaRefRepository
	CouponRepo           repository.CouponRepository
	CouponRedemptionRepo repository.CouponRedemptionRepository

	// Services
	AuthService    *service.AuthService
	GiftService    *service.GiftService
	LockService    *service.LockService
	PublishService *service.PublishService
	ViewService    *service.ViewService
	UploadService  *service.UploadService
	CaptchaService *service.CaptchaService

	// 基础设施
	Notifier         service.Notifier
	UnlockTokenCache cache.UnlockTokenCache
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
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
	c.SenderRepo = repository.NewGormSenderRepository(db)
	c.GiftRepo = repository.NewGormGiftRepository(db)
	c.MediaRefRepo = repository.NewGormMediaRefRepository(db)
	c.CouponRepo = repository.NewGormCouponRepository(db)
	c.CouponRedemptionRepo = repository.NewGormCouponRedemptionRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.SenderRepo)
	c.GiftService = service.NewGiftService(c.Config, c.GiftRepo, c.MediaRefRepo)
	c.LockService = service.NewLockService(c.Config, c.GiftRepo)
	c.PublishService = service.NewPublishService(models.DB, c.GiftRepo, c.CouponRepo, c.CouponRedemptionRepo, c.QueueClient)
	c.ViewService = service.NewViewService(c.GiftRepo, c.LockService)
	c.UploadService = service.NewUploadService(c.Config)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)

	c.Notifier = service.NewLogNotifier("")
	c.UnlockTokenCache = cache.NewUnlockTokenCache()
}

// Close 释放容器持有的资源
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
}

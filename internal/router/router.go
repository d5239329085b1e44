package router

import (
	"fmt"
	"strings"

	"github.com/liwu-next/internal/cache"
	"github.com/liwu-next/internal/config"
	publichandlers "github.com/liwu-next/internal/http/handlers/public"
	"github.com/liwu-next/internal/logger"
	"github.com/liwu-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "lw"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的媒体）
	r.Static("/uploads", "./uploads")

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		apiV1.GET("/captcha/image", publicHandler.GetCaptcha)

		// 收件人接口（凭分享令牌访问，无需登录）
		view := apiV1.Group("/gifts/view")
		{
			view.GET("/:share_token", publicHandler.ViewGift)
			view.POST("/:share_token/verify-secret", publicHandler.VerifySecret)
		}

		// 寄件人认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.SenderRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.SenderLogin)
		}

		// 寄件人接口（需鉴权）
		sender := apiV1.Group("")
		sender.Use(SenderJWTAuthMiddleware(c.AuthService))
		{
			sender.GET("/me", publicHandler.SenderProfile)
			sender.PUT("/me/password", publicHandler.SenderChangePassword)

			sender.POST("/gifts", publicHandler.CreateGift)
			sender.GET("/gifts", publicHandler.ListGifts)
			sender.GET("/gifts/:id", publicHandler.GetGift)
			sender.PUT("/gifts/:id", publicHandler.UpdateGift)
			sender.DELETE("/gifts/:id", publicHandler.DeleteGift)
			sender.POST("/gifts/:id/media", publicHandler.UploadGiftMedia)
			sender.PUT("/gifts/:id/lock", publicHandler.SetGiftLock)
			sender.DELETE("/gifts/:id/lock", publicHandler.ClearGiftLock)
			sender.POST("/gifts/:id/apply-coupon", publicHandler.ApplyCoupon)
			sender.POST("/gifts/:id/publish", publicHandler.PublishGift)
			sender.POST("/gifts/:id/mark-paid", publicHandler.MarkGiftPaid)
			sender.GET("/gifts/:id/preview", publicHandler.PreviewGift)
		}
	}

	return r
}
